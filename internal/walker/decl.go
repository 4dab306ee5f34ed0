package walker

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
)

func (w *walker) decls(ids []ast.DeclID) {
	for _, id := range ids {
		if w.stopped() {
			return
		}
		w.decl(id)
	}
}

// decl declares id in the current scope and then walks what it contains.
func (w *walker) decl(id ast.DeclID) {
	w.declare(id)
	if w.stopped() {
		return
	}
	w.contents(id)
}

// declare resolves the type names a declaration uses, then declares it.
func (w *walker) declare(id ast.DeclID) {
	d := w.b.Decls.Get(id)
	if d == nil {
		return
	}
	if d.Kind == ast.DeclLinkage || d.Kind == ast.DeclAccess || d.Kind == ast.DeclEmpty {
		return
	}
	w.typeRefs(id)
	if err := w.t.Declare(id); err != nil {
		w.fail(err)
		if w.stopped() {
			return
		}
	}
	for _, n := range w.declaredNodes(id) {
		w.declared(n)
	}
	w.targetRefs(id)
}

// declaredNodes lists the nodes a declaration introduces names for.
func (w *walker) declaredNodes(id ast.DeclID) []ast.Node {
	d := w.b.Decls.Get(id)
	if d == nil {
		return nil
	}
	switch d.Kind {
	case ast.DeclNamespace, ast.DeclNamespaceAlias, ast.DeclClass:
		return []ast.Node{ast.DeclNode(id)}
	case ast.DeclEnum:
		ed, _ := w.b.Decls.Enum(id)
		nodes := []ast.Node{ast.DeclNode(id)}
		for i := range ed.Enumerators {
			nodes = append(nodes, ast.EnumeratorNode(id, i))
		}
		return nodes
	case ast.DeclTypedef:
		td, _ := w.b.Decls.Typedef(id)
		return declaratorNodes(td.Declarators)
	case ast.DeclSimple:
		sd, _ := w.b.Decls.Simple(id)
		return declaratorNodes(sd.Declarators)
	case ast.DeclFunction:
		fd, _ := w.b.Decls.Function(id)
		return []ast.Node{ast.DeclaratorNode(fd.Declarator)}
	case ast.DeclTemplate:
		td, _ := w.b.Decls.Template(id)
		return w.declaredNodes(td.Decl)
	}
	return nil
}

func declaratorNodes(ids []ast.DeclaratorID) []ast.Node {
	nodes := make([]ast.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, ast.DeclaratorNode(id))
	}
	return nodes
}

// typeRefs reports the type names used by the declarators of id.
func (w *walker) typeRefs(id ast.DeclID) {
	d := w.b.Decls.Get(id)
	switch d.Kind {
	case ast.DeclTypedef:
		td, _ := w.b.Decls.Typedef(id)
		for _, did := range td.Declarators {
			w.declaratorTypes(did)
		}
	case ast.DeclSimple:
		sd, _ := w.b.Decls.Simple(id)
		for _, did := range sd.Declarators {
			w.declaratorTypes(did)
		}
	case ast.DeclFunction:
		fd, _ := w.b.Decls.Function(id)
		w.declaratorTypes(fd.Declarator)
	}
}

// targetRefs reports names that a declaration refers to rather than
// introduces.
func (w *walker) targetRefs(id ast.DeclID) {
	d := w.b.Decls.Get(id)
	switch d.Kind {
	case ast.DeclNamespaceAlias:
		na, _ := w.b.Decls.NamespaceAlias(id)
		w.lookup(RefNamespace, na.Target, ast.DeclNode(id), na.TargetSpan, symbols.LookupScope)
	case ast.DeclUsingDirective:
		ud, _ := w.b.Decls.UsingDirective(id)
		w.lookup(RefNamespace, ud.Name, ast.DeclNode(id), ud.NameSpan, symbols.LookupScope)
	case ast.DeclUsingDeclaration:
		ud, _ := w.b.Decls.UsingDeclaration(id)
		w.lookup(RefUsing, ud.Name, ast.DeclNode(id), ud.NameSpan, symbols.LookupDefault)
	}
}

func (w *walker) declaratorTypes(id ast.DeclaratorID) {
	d := w.b.Declarators.Get(id)
	if d == nil {
		return
	}
	w.typeName(d.TypeName, ast.DeclaratorNode(id), d.TypeNameSpan, d.TypeElaborated)
	for _, p := range d.Params {
		w.declaratorTypes(p)
	}
}

// typeName reports a named type and the names among its template
// arguments.
func (w *walker) typeName(name encoding.Encoding, node ast.Node, sp source.Span, elaborated bool) {
	if name.Empty() {
		return
	}
	ctx := symbols.LookupDefault
	if elaborated {
		ctx = symbols.LookupElaborate
	}
	ids := w.types(w.t.Lookup(name, ctx))
	if len(ids) == 0 && !elaborated {
		ids = w.types(w.t.Lookup(name, symbols.LookupElaborate))
	}
	w.reference(Reference{
		Kind:    RefType,
		Name:    name,
		Node:    node,
		Span:    sp,
		Scope:   w.t.CurrentScope(),
		Symbols: ids,
	})
	for _, arg := range name.BaseName().TemplateArgs() {
		if named := namedType(arg); !named.Empty() {
			w.typeName(named, node, sp, false)
		}
	}
}

// types keeps the symbols that can name a type.
func (w *walker) types(ids []symbols.SymbolID) []symbols.SymbolID {
	out := ids[:0:0]
	for _, id := range ids {
		if sym := w.t.Symbol(id); sym != nil && sym.Kind.IsType() {
			out = append(out, id)
		}
	}
	return out
}

// namedType strips cv, pointer, reference and array layers off t and
// returns the name underneath, or "" for builtin and function types.
func namedType(t encoding.Encoding) encoding.Encoding {
	for len(t) > 0 {
		switch t[0] {
		case 'C', 'V', 'S', 'U', 'P', 'R':
			t = t[1:]
			continue
		case 'A':
			i := 1
			for i < len(t) && t[i] != '_' {
				i++
			}
			if i == len(t) {
				return ""
			}
			t = t[i+1:]
			continue
		}
		break
	}
	if t.IsSimpleName() || t.IsQualified() || t.IsTemplate() {
		return t
	}
	return ""
}

// contents walks the scopes and expressions inside a declared entity.
func (w *walker) contents(id ast.DeclID) {
	d := w.b.Decls.Get(id)
	if d == nil {
		return
	}
	switch d.Kind {
	case ast.DeclNamespace:
		nd, _ := w.b.Decls.Namespace(id)
		w.t.EnterNamespace(id)
		w.decls(nd.Body)
		w.t.LeaveScope()
	case ast.DeclLinkage:
		ld, _ := w.b.Decls.Linkage(id)
		w.decls(ld.Body)
	case ast.DeclClass:
		w.class(id)
	case ast.DeclEnum:
		ed, _ := w.b.Decls.Enum(id)
		for _, en := range ed.Enumerators {
			w.expr(en.Value)
		}
	case ast.DeclTypedef:
		td, _ := w.b.Decls.Typedef(id)
		for _, did := range td.Declarators {
			w.declarator(did)
		}
	case ast.DeclSimple:
		sd, _ := w.b.Decls.Simple(id)
		for _, did := range sd.Declarators {
			w.declarator(did)
		}
	case ast.DeclFunction:
		w.function(id)
	case ast.DeclTemplate:
		w.template(id)
	}
}

// class walks base specifiers and, for a definition, the member scope.
// Member function bodies are walked after every member is declared.
func (w *walker) class(id ast.DeclID) {
	cd, _ := w.b.Decls.Class(id)
	for _, base := range cd.Bases {
		w.lookup(RefBase, base.Name, ast.DeclNode(id), base.Span, symbols.LookupScope)
	}
	if !cd.HasBody {
		return
	}
	w.t.EnterClass(id)
	defer w.t.LeaveScope()
	var bodies []ast.DeclID
	for _, m := range cd.Members {
		if w.stopped() {
			return
		}
		if w.hasBody(m) {
			w.declare(m)
			bodies = append(bodies, m)
			continue
		}
		w.decl(m)
	}
	for _, m := range bodies {
		if w.stopped() {
			return
		}
		w.contents(m)
	}
}

func (w *walker) hasBody(id ast.DeclID) bool {
	d := w.b.Decls.Get(id)
	if d == nil {
		return false
	}
	switch d.Kind {
	case ast.DeclFunction:
		return true
	case ast.DeclTemplate:
		td, _ := w.b.Decls.Template(id)
		return w.hasBody(td.Decl)
	}
	return false
}

// declarator walks default arguments inside a prototype scope, then array
// bounds, bit-field width and initializer.
func (w *walker) declarator(id ast.DeclaratorID) {
	d := w.b.Declarators.Get(id)
	if d == nil {
		return
	}
	if d.Function && d.DefaultArgs(w.b) > 0 {
		w.t.EnterPrototype(id)
		w.params(d.Params)
		w.t.LeaveScope()
	}
	for _, x := range d.ArrayBounds {
		w.expr(x)
	}
	w.expr(d.BitField)
	w.expr(d.Init)
}

func (w *walker) params(ids []ast.DeclaratorID) {
	for _, p := range ids {
		w.declared(ast.DeclaratorNode(p))
		if pd := w.b.Declarators.Get(p); pd != nil {
			w.expr(pd.Init)
		}
	}
}

// function walks a function definition: parameters, constructor
// initializers and the body, all in the function scope.
func (w *walker) function(id ast.DeclID) {
	fd, _ := w.b.Decls.Function(id)
	w.t.EnterFunction(id)
	defer w.t.LeaveScope()
	if d := w.b.Declarators.Get(fd.Declarator); d != nil {
		w.params(d.Params)
	}
	for _, x := range fd.MemInits {
		w.expr(x)
	}
	body := w.b.Stmts.Get(fd.Body)
	if body == nil {
		return
	}
	if body.Kind == ast.StmtBlock {
		w.stmts(body.Stmts)
		return
	}
	w.stmt(fd.Body)
}

// template opens the parameter scope around the templated entity, which
// DeclareTemplate has already declared.
func (w *walker) template(id ast.DeclID) {
	td, _ := w.b.Decls.Template(id)
	w.t.EnterTemplateParameters(id)
	defer w.t.LeaveScope()
	for i, p := range td.Params {
		node := ast.TemplateParamNode(id, i)
		w.declared(node)
		w.typeName(namedType(p.DefaultType), node, p.Span, false)
		w.expr(p.Default)
	}
	w.typeRefs(td.Decl)
	w.contents(td.Decl)
}
