package symbols

import (
	"errors"
	"fmt"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
)

// Declare dispatches on the declaration kind. Namespaces, classes,
// enums, typedefs, declaration lists, function definitions, templates and
// using forms declare names; other kinds are ignored.
func (t *Table) Declare(id ast.DeclID) error {
	if !t.enabled() {
		return nil
	}
	d := t.b.Decls.Get(id)
	if d == nil {
		return nil
	}
	var err error
	switch d.Kind {
	case ast.DeclNamespace:
		_, err = t.DeclareNamespace(id)
	case ast.DeclNamespaceAlias:
		err = t.DeclareNamespaceAlias(id)
	case ast.DeclClass:
		_, err = t.DeclareClass(id)
	case ast.DeclEnum:
		err = t.DeclareEnum(id)
	case ast.DeclTypedef:
		err = t.DeclareTypedef(id)
	case ast.DeclSimple:
		err = t.DeclareSimple(id)
	case ast.DeclFunction:
		_, err = t.DeclareFunction(id)
	case ast.DeclTemplate:
		_, err = t.DeclareTemplate(id)
	case ast.DeclUsingDirective:
		err = t.DeclareUsingDirective(id)
	case ast.DeclUsingDeclaration:
		err = t.DeclareUsingDeclaration(id)
	}
	return err
}

type resolution uint8

const (
	coexist resolution = iota
	reuse
	upgrade
	conflict
)

// hideable reports class and enum names that a variable, constant or
// function of the same name may hide.
func (t *Table) hideable(e *Symbol) bool {
	return t.lang == LanguageCXX && (e.Kind == SymbolClass || e.Kind == SymbolEnum)
}

// resolve decides how n relates to e, an earlier symbol of the same name
// in the same scope.
func (t *Table) resolve(eid SymbolID, e, n *Symbol) resolution {
	switch {
	case n.Kind.IsFunction():
		switch {
		case e.Kind.IsFunction():
			if e.Kind != n.Kind || !sameParams(e.Type, n.Type) {
				return coexist
			}
			if !sameResult(e.Type, n.Type) {
				return conflict
			}
			if n.IsDefinition {
				if e.IsDefinition {
					return conflict
				}
				return upgrade
			}
			return reuse
		case t.hideable(e):
			return coexist
		}
	case n.Kind == SymbolVariable:
		switch {
		case e.Kind == SymbolVariable:
			if !n.IsDefinition {
				return reuse
			}
			if !e.IsDefinition {
				return upgrade
			}
			if t.lang == LanguageC && n.Flags&SymbolFlagMember == 0 {
				// tentative definitions
				return reuse
			}
		case t.hideable(e):
			return coexist
		}
	case n.Kind == SymbolConst:
		if t.hideable(e) {
			return coexist
		}
	case n.Kind == SymbolTypedef:
		switch {
		case e.Kind == SymbolTypedef && e.Type == n.Type:
			return reuse
		case e.Kind.IsType() && n.Aliased == eid:
			// typedef struct X X;
			return reuse
		}
	case n.Kind == SymbolNamespace:
		if e.Kind == SymbolNamespace && e.Inner == n.Inner {
			return reuse
		}
	}
	return conflict
}

// declareIn inserts n into scope, applying the redeclaration rules
// against every live symbol of the same name.
func (t *Table) declareIn(scopeID ScopeID, n Symbol) (SymbolID, error) {
	scope := t.Scope(scopeID)
	if scope == nil {
		return NoSymbolID, nil
	}
	for _, eid := range scope.NameIndex[n.Name] {
		e := t.Symbols.Get(eid)
		if e == nil || e.Removed() || e.Scope != scopeID {
			continue
		}
		if (e.Flags^n.Flags)&SymbolFlagTag != 0 {
			continue
		}
		switch t.resolve(eid, e, &n) {
		case coexist:
			continue
		case reuse:
			e.DefaultArgs = max(e.DefaultArgs, n.DefaultArgs)
			if n.Decl.IsValid() {
				t.byNode[n.Decl] = eid
			}
			return eid, nil
		case upgrade:
			t.upgrade(eid, &n)
			return eid, nil
		default:
			return NoSymbolID, t.multiplyDefined(&n, e)
		}
	}
	return t.insert(scopeID, n), nil
}

// upgrade turns a declaration into the definition n describes.
func (t *Table) upgrade(eid SymbolID, n *Symbol) {
	e := t.Symbols.Get(eid)
	e.IsDefinition = true
	e.Decl = n.Decl
	e.Span = n.Span
	if !n.Type.Empty() {
		e.Type = n.Type
	}
	e.DefaultArgs = max(e.DefaultArgs, n.DefaultArgs)
	e.Flags = (e.Flags | n.Flags) &^ SymbolFlagExtern
	if n.Decl.IsValid() {
		t.byNode[n.Decl] = eid
	}
}

func (t *Table) multiplyDefined(n, e *Symbol) error {
	return &MultiplyDefinedError{
		Name:         n.Name,
		Node:         n.Decl,
		Span:         n.Span,
		Previous:     e.Decl,
		PreviousSpan: e.Span,
	}
}

func (t *Table) undefined(name encoding.Encoding, node ast.Node) error {
	return &UndefinedError{Name: name, Node: node, Span: t.b.NodeSpan(node)}
}

func sameParams(a, b encoding.Encoding) bool {
	pa, _, okA := a.FunctionSignature()
	pb, _, okB := b.FunctionSignature()
	if !okA || !okB {
		return a == b
	}
	if len(pa) != len(pb) || cvPrefix(a) != cvPrefix(b) {
		return false
	}
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}

func sameResult(a, b encoding.Encoding) bool {
	_, ra, _ := a.FunctionSignature()
	_, rb, _ := b.FunctionSignature()
	return ra == rb
}

// cvPrefix returns the member-function qualifiers in front of 'F'.
func cvPrefix(e encoding.Encoding) string {
	i := 0
	for i < len(e) && (e[i] == 'C' || e[i] == 'V') {
		i++
	}
	return string(e[:i])
}

// declaratorSymbol builds the symbol a declarator introduces.
func (t *Table) declaratorSymbol(did ast.DeclaratorID, storage ast.Storage, definition, template bool) (Symbol, bool) {
	d := t.b.Declarators.Get(did)
	if d == nil || d.Name.Empty() {
		return Symbol{}, false
	}
	sym := Symbol{
		Name: d.Name,
		Type: d.Type,
		Decl: ast.DeclaratorNode(did),
		Span: t.b.NodeSpan(ast.DeclaratorNode(did)),
	}
	inClass := false
	if sc := t.Scope(t.CurrentScope()); sc != nil && sc.Kind == ScopeClass {
		inClass = true
		sym.Flags |= SymbolFlagMember
	}
	if storage&ast.StorageStatic != 0 {
		sym.Flags |= SymbolFlagStatic
	}
	if storage&ast.StorageExtern != 0 {
		sym.Flags |= SymbolFlagExtern
	}
	if d.Function || d.Type.IsFunction() {
		sym.Kind = SymbolFunction
		if template {
			sym.Kind = SymbolFunctionTemplate
		}
		sym.IsDefinition = definition
		sym.Params = len(d.Params)
		sym.DefaultArgs = d.DefaultArgs(t.b)
		if d.PureVirtual {
			sym.Flags |= SymbolFlagPureVirtual
		}
		return sym, true
	}
	sym.Kind = SymbolVariable
	switch {
	case storage&ast.StorageExtern != 0:
		sym.IsDefinition = d.Init.IsValid()
	case inClass && storage&ast.StorageStatic != 0:
		sym.IsDefinition = false
	default:
		sym.IsDefinition = true
	}
	return sym, true
}

func (t *Table) declareDeclarator(did ast.DeclaratorID, storage ast.Storage, definition, template bool) (SymbolID, error) {
	sym, ok := t.declaratorSymbol(did, storage, definition, template)
	if !ok {
		return NoSymbolID, nil
	}
	if sym.Name.IsQualified() {
		return t.declareQualified(sym)
	}
	return t.declareIn(t.CurrentScope(), sym)
}

// declareQualified handles "void A::f() {}" and "int A::x = 1;". The name
// must resolve to an earlier declaration, which is replaced.
func (t *Table) declareQualified(n Symbol) (SymbolID, error) {
	target := NoSymbolID
	for _, id := range t.qualified(t.CurrentScope(), n.Name, LookupDeclaration) {
		e := t.Symbols.Get(id)
		switch {
		case n.Kind.IsFunction() && e.Kind.IsFunction() && sameParams(e.Type, n.Type):
			target = id
		case n.Kind == SymbolVariable && e.Kind == SymbolVariable:
			target = id
		}
		if target.IsValid() {
			break
		}
	}
	if !target.IsValid() {
		return NoSymbolID, t.undefined(n.Name, n.Decl)
	}
	e := t.Symbols.Get(target)
	if n.IsDefinition && e.IsDefinition {
		return NoSymbolID, t.multiplyDefined(&n, e)
	}
	if !n.IsDefinition {
		t.byNode[n.Decl] = target
		return target, nil
	}
	n.Name = e.Name
	n.Kind = e.Kind
	n.Previous = target
	n.Inner = e.Inner
	n.Flags |= e.Flags & (SymbolFlagMember | SymbolFlagStatic | SymbolFlagPureVirtual)
	n.Flags &^= SymbolFlagExtern
	n.DefaultArgs = max(n.DefaultArgs, e.DefaultArgs)
	owner, prevDecl := e.Scope, e.Decl
	t.remove(target)
	id := t.insert(owner, n)
	if prevDecl.IsValid() {
		t.byNode[prevDecl] = id
	}
	return id, nil
}

// DeclareSimple declares every declarator of a declaration list:
// functions for function types, variables otherwise.
func (t *Table) DeclareSimple(id ast.DeclID) error {
	if !t.enabled() {
		return nil
	}
	sd, ok := t.b.Decls.Simple(id)
	if !ok {
		return nil
	}
	sp := t.span("Table.Declare(Declaration)")
	defer sp.End("")
	var errs []error
	for _, did := range sd.Declarators {
		if _, err := t.declareDeclarator(did, sd.Storage, false, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeclareFunction declares the function a definition introduces.
func (t *Table) DeclareFunction(id ast.DeclID) (SymbolID, error) {
	if !t.enabled() {
		return NoSymbolID, nil
	}
	fd, ok := t.b.Decls.Function(id)
	if !ok {
		return NoSymbolID, nil
	}
	sp := t.span("Table.Declare(FunctionDefinition)")
	defer sp.End("")
	return t.declareDeclarator(fd.Declarator, fd.Storage, true, false)
}

// DeclareTypedef declares each declarator as a typedef name.
func (t *Table) DeclareTypedef(id ast.DeclID) error {
	if !t.enabled() {
		return nil
	}
	td, ok := t.b.Decls.Typedef(id)
	if !ok {
		return nil
	}
	sp := t.span("Table.Declare(Typedef)")
	defer sp.End("")
	var errs []error
	for _, did := range td.Declarators {
		d := t.b.Declarators.Get(did)
		if d == nil || d.Name.Empty() {
			continue
		}
		node := ast.DeclaratorNode(did)
		sym := Symbol{
			Kind:         SymbolTypedef,
			Name:         d.Name,
			Type:         d.Type,
			Decl:         node,
			Span:         t.b.NodeSpan(node),
			IsDefinition: true,
		}
		if !d.TypeName.Empty() && d.Type == d.TypeName {
			sym.Aliased = t.typeSymbol(d.TypeName, d.TypeElaborated)
		}
		if _, err := t.declareIn(t.CurrentScope(), sym); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// typeSymbol finds the type a type-specifier names.
func (t *Table) typeSymbol(name encoding.Encoding, elaborated bool) SymbolID {
	ctx := LookupDefault
	if elaborated {
		ctx = LookupElaborate
	}
	for _, try := range []LookupContext{ctx, LookupDeclaration} {
		for _, id := range t.Lookup(name, try) {
			if sym := t.Symbols.Get(id); sym != nil && sym.Kind.IsType() {
				return id
			}
		}
	}
	return NoSymbolID
}

// declareTag applies the forward-declaration rules shared by classes,
// class templates and enums.
func (t *Table) declareTag(scopeID ScopeID, n Symbol) (SymbolID, error) {
	scope := t.Scope(scopeID)
	if scope == nil {
		return NoSymbolID, nil
	}
	for _, eid := range scope.NameIndex[n.Name] {
		e := t.Symbols.Get(eid)
		if e == nil || e.Removed() || e.Scope != scopeID {
			continue
		}
		if (e.Flags^n.Flags)&SymbolFlagTag != 0 {
			continue
		}
		switch {
		case e.Kind == n.Kind:
			switch {
			case e.IsDefinition && n.IsDefinition:
				return NoSymbolID, t.multiplyDefined(&n, e)
			case n.IsDefinition:
				t.upgrade(eid, &n)
			default:
				t.byNode[n.Decl] = eid
			}
			return eid, nil
		case t.lang == LanguageCXX && (e.Kind == SymbolVariable || e.Kind == SymbolConst || e.Kind.IsFunction()):
			continue
		case e.Kind == SymbolTypedef && t.aliasesSameName(e, n.Name):
			continue
		}
		return NoSymbolID, t.multiplyDefined(&n, e)
	}
	return t.insert(scopeID, n), nil
}

func (t *Table) aliasesSameName(typedef *Symbol, name encoding.Encoding) bool {
	target := t.Symbols.Get(typedef.Aliased)
	return target != nil && target.Name == name && target.Scope == typedef.Scope
}

// DeclareClass declares a class, struct or union name. A specialization
// (a template-id name) declares nothing.
func (t *Table) DeclareClass(id ast.DeclID) (SymbolID, error) {
	if !t.enabled() {
		return NoSymbolID, nil
	}
	cd, ok := t.b.Decls.Class(id)
	if !ok || cd.Name.IsTemplate() {
		return NoSymbolID, nil
	}
	sp := t.span("Table.Declare(ClassSpec)")
	defer sp.End("")
	return t.declareClass(id, cd, SymbolClass)
}

func (t *Table) declareClass(id ast.DeclID, cd *ast.ClassDecl, kind SymbolKind) (SymbolID, error) {
	node := ast.DeclNode(id)
	n := Symbol{
		Kind:         kind,
		Name:         cd.Name,
		Type:         cd.Name,
		Decl:         node,
		Span:         cd.NameSpan,
		IsDefinition: cd.HasBody,
	}
	if n.Span.Empty() {
		n.Span = t.b.NodeSpan(node)
	}
	if t.lang == LanguageC {
		n.Flags |= SymbolFlagTag
	}
	if cd.Anonymous {
		n.Flags |= SymbolFlagAnonymous
	}
	if !cd.Name.IsQualified() {
		return t.declareTag(t.CurrentScope(), n)
	}
	// class A::B { ... };
	target := NoSymbolID
	for _, sid := range t.qualified(t.CurrentScope(), cd.Name, LookupDeclaration) {
		if sym := t.Symbols.Get(sid); sym != nil && sym.Kind.IsClass() {
			target = sid
			break
		}
	}
	if !target.IsValid() {
		return NoSymbolID, t.undefined(cd.Name, node)
	}
	e := t.Symbols.Get(target)
	switch {
	case e.IsDefinition && n.IsDefinition:
		return NoSymbolID, t.multiplyDefined(&n, e)
	case n.IsDefinition:
		n.Name = e.Name
		t.upgrade(target, &n)
	default:
		t.byNode[node] = target
	}
	return target, nil
}

// DeclareEnum declares the enum name, unless the enum is anonymous, and
// every enumerator as a constant of the enclosing scope.
func (t *Table) DeclareEnum(id ast.DeclID) error {
	if !t.enabled() {
		return nil
	}
	ed, ok := t.b.Decls.Enum(id)
	if !ok {
		return nil
	}
	sp := t.span("Table.Declare(EnumSpec)")
	defer sp.End("")
	cur := t.CurrentScope()
	typ := encoding.Int
	if !ed.Anonymous {
		typ = ed.Name
		n := Symbol{
			Kind:         SymbolEnum,
			Name:         ed.Name,
			Type:         ed.Name,
			Decl:         ast.DeclNode(id),
			Span:         ed.NameSpan,
			IsDefinition: ed.HasBody,
		}
		if t.lang == LanguageC {
			n.Flags |= SymbolFlagTag
		}
		if _, err := t.declareTag(cur, n); err != nil {
			return err
		}
	}
	if !ed.HasBody {
		return nil
	}
	var errs []error
	value, known := int64(-1), true
	for i, en := range ed.Enumerators {
		if en.Value.IsValid() {
			if v, ok := t.EvaluateConst(en.Value); ok {
				value, known = v, true
			} else {
				known = false
				diag.ReportWarning(t.reporter, diag.SemaConstEval, t.b.NodeSpan(ast.ExprNode(en.Value)),
					fmt.Sprintf("value of enumerator '%s' is not a constant expression", en.Name.Unmangled())).Emit()
			}
		} else if known {
			value++
		}
		sym := Symbol{
			Kind:         SymbolConst,
			Name:         en.Name,
			Type:         typ,
			Decl:         ast.EnumeratorNode(id, i),
			Span:         en.Span,
			IsDefinition: true,
			Defined:      known,
		}
		if known {
			sym.Value = value
		}
		if _, err := t.declareIn(cur, sym); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeclareNamespace declares a new namespace together with its scope, or
// registers a reopening against the existing one.
func (t *Table) DeclareNamespace(id ast.DeclID) (SymbolID, error) {
	if !t.enabled() {
		return NoSymbolID, nil
	}
	ns, ok := t.b.Decls.Namespace(id)
	if !ok {
		return NoSymbolID, nil
	}
	sp := t.span("Table.Declare(NamespaceSpec)")
	defer sp.End("")
	cur := t.CurrentScope()
	node := ast.DeclNode(id)
	span := ns.NameSpan
	if span.Empty() {
		span = t.b.NodeSpan(node)
	}
	for _, sid := range t.local(cur, ns.Name, LookupDeclaration) {
		e := t.Symbols.Get(sid)
		if e.Scope != cur {
			continue
		}
		if e.Kind != SymbolNamespace || e.Flags&SymbolFlagAlias != 0 {
			n := Symbol{Kind: SymbolNamespace, Name: ns.Name, Decl: node, Span: span}
			return NoSymbolID, t.multiplyDefined(&n, e)
		}
		t.byNode[node] = sid
		t.register(cur, node, e.Inner)
		return sid, nil
	}
	scope := t.newScope(ScopeNamespace, cur, node)
	flags := SymbolFlags(0)
	if ns.Anonymous {
		flags |= SymbolFlagAnonymous
	}
	sid := t.insert(cur, Symbol{
		Kind:         SymbolNamespace,
		Name:         ns.Name,
		Type:         ns.Name,
		Decl:         node,
		Span:         span,
		Inner:        scope,
		IsDefinition: true,
		Flags:        flags,
	})
	sc := t.Scopes.Get(scope)
	sc.Name = ns.Name
	sc.Symbol = sid
	t.register(cur, node, scope)
	if ns.Anonymous {
		if outer := t.Scope(cur); outer != nil && !outer.hasUsing(scope) {
			outer.Usings = append(outer.Usings, scope)
		}
	}
	return sid, nil
}

// DeclareNamespaceAlias declares "namespace X = A::B;".
func (t *Table) DeclareNamespaceAlias(id ast.DeclID) error {
	if !t.enabled() {
		return nil
	}
	al, ok := t.b.Decls.NamespaceAlias(id)
	if !ok {
		return nil
	}
	node := ast.DeclNode(id)
	target := t.namespaceScope(al.Target)
	if !target.IsValid() {
		return &UndefinedError{Name: al.Target, Node: node, Span: al.TargetSpan}
	}
	_, err := t.declareIn(t.CurrentScope(), Symbol{
		Kind:         SymbolNamespace,
		Name:         al.Name,
		Type:         al.Target,
		Decl:         node,
		Span:         al.NameSpan,
		Inner:        target,
		IsDefinition: true,
		Flags:        SymbolFlagAlias,
	})
	return err
}

func (t *Table) namespaceScope(name encoding.Encoding) ScopeID {
	for _, sid := range t.Lookup(name, LookupScope) {
		if sym := t.Symbols.Get(sid); sym != nil && sym.Kind == SymbolNamespace && sym.Inner.IsValid() {
			return sym.Inner
		}
	}
	return NoScopeID
}

// DeclareUsingDirective makes the nominated namespace visible to lookups
// from the current scope.
func (t *Table) DeclareUsingDirective(id ast.DeclID) error {
	if !t.enabled() {
		return nil
	}
	ud, ok := t.b.Decls.UsingDirective(id)
	if !ok {
		return nil
	}
	sp := t.span("Table.Declare(UsingDirective)")
	defer sp.End("")
	target := t.namespaceScope(ud.Name)
	if !target.IsValid() {
		return &UndefinedError{Name: ud.Name, Node: ast.DeclNode(id), Span: ud.NameSpan}
	}
	cur := t.CurrentScope()
	if scope := t.Scope(cur); scope != nil && target != cur && !scope.hasUsing(target) {
		scope.Usings = append(scope.Usings, target)
	}
	return nil
}

// DeclareUsingDeclaration makes the symbols "using A::x;" names visible in
// the current scope. Their owning scope does not change.
func (t *Table) DeclareUsingDeclaration(id ast.DeclID) error {
	if !t.enabled() {
		return nil
	}
	ud, ok := t.b.Decls.UsingDeclaration(id)
	if !ok {
		return nil
	}
	sp := t.span("Table.Declare(UsingDeclaration)")
	defer sp.End("")
	hits := t.Lookup(ud.Name, LookupDeclaration)
	if len(hits) == 0 {
		if t.Dependent(ud.Name) {
			return nil
		}
		return &UndefinedError{Name: ud.Name, Node: ast.DeclNode(id), Span: ud.NameSpan}
	}
	scope := t.Scope(t.CurrentScope())
	if scope == nil {
		return nil
	}
	key := lookupKey(ud.Name.BaseName())
	for _, sid := range hits {
		bucket := scope.NameIndex[key]
		if containsSymbol(bucket, sid) {
			continue
		}
		scope.NameIndex[key] = append(bucket, sid)
		scope.Imported = append(scope.Imported, sid)
	}
	return nil
}

func containsSymbol(ids []SymbolID, id SymbolID) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

// DeclareTemplate declares the entity a template declaration introduces:
// a class template or function template name. Specializations declare
// nothing.
func (t *Table) DeclareTemplate(id ast.DeclID) (SymbolID, error) {
	if !t.enabled() {
		return NoSymbolID, nil
	}
	td, ok := t.b.Decls.Template(id)
	if !ok {
		return NoSymbolID, nil
	}
	sp := t.span("Table.Declare(TemplateDecl)")
	defer sp.End("")
	inner := t.b.Decls.Get(td.Decl)
	if inner == nil {
		return NoSymbolID, nil
	}
	var (
		sid SymbolID
		err error
	)
	switch inner.Kind {
	case ast.DeclClass:
		cd, _ := t.b.Decls.Class(td.Decl)
		if cd.Name.IsTemplate() {
			return NoSymbolID, nil
		}
		sid, err = t.declareClass(td.Decl, cd, SymbolClassTemplate)
	case ast.DeclFunction:
		fd, _ := t.b.Decls.Function(td.Decl)
		sid, err = t.declareDeclarator(fd.Declarator, fd.Storage, true, true)
	case ast.DeclSimple:
		sd, _ := t.b.Decls.Simple(td.Decl)
		var errs []error
		for _, did := range sd.Declarators {
			s, e := t.declareDeclarator(did, sd.Storage, false, true)
			if e != nil {
				errs = append(errs, e)
			} else if !sid.IsValid() {
				sid = s
			}
		}
		err = errors.Join(errs...)
	case ast.DeclTypedef:
		err = t.DeclareTypedef(td.Decl)
	case ast.DeclTemplate:
		sid, err = t.DeclareTemplate(td.Decl)
	}
	if sid.IsValid() {
		t.byNode[ast.DeclNode(id)] = sid
	}
	return sid, err
}
