package symbols

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/encoding"
)

// nested returns the live scope registered in outer for node.
func (t *Table) nested(outer ScopeID, node ast.Node) (ScopeID, bool) {
	o := t.Scope(outer)
	if o == nil {
		return NoScopeID, false
	}
	id, ok := o.Nested[node]
	if !ok || t.Scope(id) == nil {
		return NoScopeID, false
	}
	return id, true
}

// reenter pushes the scope already registered for node, if any.
func (t *Table) reenter(node ast.Node) (ScopeID, bool) {
	id, ok := t.nested(t.CurrentScope(), node)
	if ok {
		t.push(id)
	}
	return id, ok
}

// EnterNamespace pushes the scope of a namespace definition. A reopened
// namespace shares the scope of its first definition.
func (t *Table) EnterNamespace(id ast.DeclID) ScopeID {
	if !t.enabled() {
		return NoScopeID
	}
	sp := t.span("Table.EnterNamespace")
	defer sp.End("")
	node := ast.DeclNode(id)
	if s, ok := t.reenter(node); ok {
		return s
	}
	cur := t.CurrentScope()
	scope := NoScopeID
	if sym := t.Symbols.Get(t.byNode[node]); sym != nil && sym.Kind == SymbolNamespace {
		scope = sym.Inner
	}
	if t.Scope(scope) == nil {
		// the declaration failed; keep walking in a detached scope
		scope = t.newScope(ScopeNamespace, cur, node)
		if ns, ok := t.b.Decls.Namespace(id); ok {
			t.Scopes.Get(scope).Name = ns.Name
		}
	}
	t.register(cur, node, scope)
	t.push(scope)
	return scope
}

// EnterClass pushes the member scope of a class definition and records its
// bases. A class defined right inside a template parameter scope picks it
// up as its TemplateParams.
func (t *Table) EnterClass(id ast.DeclID) ScopeID {
	if !t.enabled() {
		return NoScopeID
	}
	cd, ok := t.b.Decls.Class(id)
	if !ok {
		return NoScopeID
	}
	sp := t.span("Table.EnterClass")
	defer sp.End("")
	node := ast.DeclNode(id)
	if s, ok := t.reenter(node); ok {
		return s
	}
	cur := t.CurrentScope()
	symID := t.byNode[node]
	outer := cur
	if sym := t.Symbols.Get(symID); sym != nil && cd.Name.IsQualified() {
		outer = sym.Scope
	}
	var bases []ScopeID
	for _, base := range cd.Bases {
		b := t.scopeOf(t.LookupFrom(cur, base.Name, LookupScope))
		if bs := t.Scope(b); bs != nil && bs.Kind == ScopeClass {
			bases = append(bases, b)
		}
	}
	scope := t.newScope(ScopeClass, outer, node)
	sc := t.Scopes.Get(scope)
	sc.Name = cd.Name.BaseName()
	sc.Bases = bases
	if top := t.Scope(cur); top != nil && top.Kind == ScopeTemplateParameter {
		sc.TemplateParams = cur
	}
	if sym := t.Symbols.Get(symID); sym != nil && !cd.Name.IsTemplate() && !sym.Inner.IsValid() {
		sym.Inner = scope
		sc.Symbol = symID
	}
	t.register(cur, node, scope)
	t.push(scope)
	return scope
}

// EnterPrototype pushes the parameter scope of a function declarator.
func (t *Table) EnterPrototype(id ast.DeclaratorID) ScopeID {
	if !t.enabled() {
		return NoScopeID
	}
	sp := t.span("Table.EnterPrototype")
	defer sp.End("")
	scope := t.prototype(t.CurrentScope(), id)
	if scope.IsValid() {
		t.push(scope)
	}
	return scope
}

// prototype creates, or finds, the parameter scope of a declarator and
// declares its named parameters.
func (t *Table) prototype(cur ScopeID, id ast.DeclaratorID) ScopeID {
	node := ast.DeclaratorNode(id)
	if s, ok := t.nested(cur, node); ok {
		return s
	}
	d := t.b.Declarators.Get(id)
	if d == nil {
		return NoScopeID
	}
	scope := t.newScope(ScopePrototype, cur, node)
	if top := t.Scope(cur); top != nil && top.Kind == ScopeTemplateParameter {
		t.Scopes.Get(scope).TemplateParams = cur
	}
	for _, p := range d.Params {
		pd := t.b.Declarators.Get(p)
		if pd == nil || pd.Name.Empty() {
			continue
		}
		pnode := ast.DeclaratorNode(p)
		// duplicate parameter names keep the first one
		_, _ = t.declareIn(scope, Symbol{
			Kind:         SymbolVariable,
			Name:         pd.Name,
			Type:         pd.Type,
			Decl:         pnode,
			Span:         t.b.NodeSpan(pnode),
			IsDefinition: true,
			Flags:        SymbolFlagParameter,
		})
	}
	t.register(cur, node, scope)
	return scope
}

// EnterFunction pushes the body scope of a function definition. The
// parameters live in a prototype scope searched right after the body.
// Out-of-line members look names up in their class after the body.
func (t *Table) EnterFunction(id ast.DeclID) ScopeID {
	if !t.enabled() {
		return NoScopeID
	}
	fd, ok := t.b.Decls.Function(id)
	if !ok {
		return NoScopeID
	}
	sp := t.span("Table.EnterFunction")
	defer sp.End("")
	node := ast.DeclNode(id)
	if s, ok := t.reenter(node); ok {
		return s
	}
	cur := t.CurrentScope()
	proto := t.prototype(cur, fd.Declarator)
	symID := t.byNode[ast.DeclaratorNode(fd.Declarator)]
	d := t.b.Declarators.Get(fd.Declarator)

	enclosing := NoScopeID
	if sym := t.Symbols.Get(symID); sym != nil {
		enclosing = sym.Scope
	} else if d != nil && d.Name.IsQualified() {
		enclosing = t.ResolveScope(qualifier(d.Name))
	}
	scope := t.newScope(ScopeFunction, cur, node)
	sc := t.Scopes.Get(scope)
	sc.Prototype = proto
	if d != nil {
		sc.Name = d.Name.BaseName()
	}
	if d != nil && d.Name.IsQualified() && enclosing.IsValid() {
		sc.Enclosing = enclosing
	}
	if es := t.Scope(enclosing); es != nil && es.Kind == ScopeClass {
		sc.Class = enclosing
	}
	if sym := t.Symbols.Get(symID); sym != nil && !sym.Inner.IsValid() {
		sym.Inner = scope
		sc.Symbol = symID
	}
	t.register(cur, node, scope)
	t.push(scope)
	return scope
}

// qualifier drops the last component of a qualified name.
func qualifier(name encoding.Encoding) encoding.Encoding {
	comps := name.Components()
	if len(comps) < 2 {
		return ""
	}
	if len(comps) == 2 && comps[0].IsGlobal() {
		return comps[0]
	}
	return encoding.Qualified(comps[:len(comps)-1]...)
}

// EnterBlock pushes a local scope for a statement that opens one.
func (t *Table) EnterBlock(id ast.StmtID) ScopeID {
	if !t.enabled() {
		return NoScopeID
	}
	node := ast.StmtNode(id)
	if s, ok := t.reenter(node); ok {
		return s
	}
	cur := t.CurrentScope()
	scope := t.newScope(ScopeLocal, cur, node)
	t.register(cur, node, scope)
	t.push(scope)
	return scope
}

// EnterTemplateParameters pushes the scope holding the parameters of a
// template declaration. Type parameters become dependent names.
func (t *Table) EnterTemplateParameters(id ast.DeclID) ScopeID {
	if !t.enabled() {
		return NoScopeID
	}
	td, ok := t.b.Decls.Template(id)
	if !ok {
		return NoScopeID
	}
	sp := t.span("Table.EnterTemplateParameters")
	defer sp.End("")
	node := ast.DeclNode(id)
	if s, ok := t.reenter(node); ok {
		return s
	}
	cur := t.CurrentScope()
	scope := t.newScope(ScopeTemplateParameter, cur, node)
	for i, p := range td.Params {
		if p.Name.Empty() {
			continue
		}
		sym := Symbol{
			Name:         p.Name,
			Decl:         ast.TemplateParamNode(id, i),
			Span:         p.Span,
			IsDefinition: true,
			Flags:        SymbolFlagTemplateParam,
		}
		switch p.Kind {
		case ast.TemplateTypeParam:
			sym.Kind = SymbolDependent
			sym.Type = encoding.Dependent
		case ast.TemplateValueParam:
			sym.Kind = SymbolConst
			sym.Type = p.Type
		case ast.TemplateTemplateParam:
			sym.Kind = SymbolType
			sym.Type = encoding.Dependent
		}
		_, _ = t.declareIn(scope, sym)
	}
	t.register(cur, node, scope)
	t.push(scope)
	return scope
}
