package walker

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/symbols"
)

func (w *walker) stmts(ids []ast.StmtID) {
	for _, id := range ids {
		if w.stopped() {
			return
		}
		w.stmt(id)
	}
}

func (w *walker) stmt(id ast.StmtID) {
	s := w.b.Stmts.Get(id)
	if s == nil {
		return
	}
	if s.Kind.OpensScope() {
		w.t.EnterBlock(id)
		defer w.t.LeaveScope()
	}
	switch s.Kind {
	case ast.StmtBlock:
		w.stmts(s.Stmts)
	case ast.StmtDecl:
		w.decls(s.Decls)
	case ast.StmtExpr, ast.StmtReturn, ast.StmtCase:
		w.expr(s.X)
	case ast.StmtIf:
		w.stmt(s.Init)
		w.expr(s.X)
		w.stmt(s.Then)
		w.stmt(s.Else)
	case ast.StmtWhile, ast.StmtFor, ast.StmtSwitch:
		w.stmt(s.Init)
		w.expr(s.X)
		w.expr(s.Post)
		w.stmt(s.Then)
	case ast.StmtDo:
		w.stmt(s.Then)
		w.expr(s.X)
	}
}

func (w *walker) exprs(ids []ast.ExprID) {
	for _, id := range ids {
		w.expr(id)
	}
}

func (w *walker) expr(id ast.ExprID) {
	if !id.IsValid() || w.stopped() {
		return
	}
	e := w.b.Exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprName:
		n, _ := w.b.Exprs.Name(id)
		w.lookup(RefName, n.Name, ast.ExprNode(id), e.Span, symbols.LookupDefault)
	case ast.ExprParen:
		x, _ := w.b.Exprs.Paren(id)
		w.expr(x)
	case ast.ExprUnary:
		u, _ := w.b.Exprs.Unary(id)
		w.expr(u.X)
	case ast.ExprBinary:
		bin, _ := w.b.Exprs.Binary(id)
		w.expr(bin.X)
		w.expr(bin.Y)
	case ast.ExprCond:
		c, _ := w.b.Exprs.Cond(id)
		w.expr(c.Cond)
		w.expr(c.Then)
		w.expr(c.Else)
	case ast.ExprSizeof:
		sz, _ := w.b.Exprs.Sizeof(id)
		w.typeName(namedType(sz.Type), ast.ExprNode(id), sz.TypeSpan, false)
		w.expr(sz.X)
	case ast.ExprCall:
		c, _ := w.b.Exprs.Call(id)
		w.callee(c.Fn)
		w.exprs(c.Args)
	case ast.ExprMember:
		m, _ := w.b.Exprs.Member(id)
		w.expr(m.X)
		w.member(id, m)
	case ast.ExprIndex:
		ix, _ := w.b.Exprs.Index(id)
		w.expr(ix.X)
		w.expr(ix.Index)
	case ast.ExprCast:
		c, _ := w.b.Exprs.Cast(id)
		w.castType(id, c)
		w.exprs(c.Args)
	case ast.ExprNew:
		n, _ := w.b.Exprs.New(id)
		name := n.TypeName
		if name.Empty() {
			name = namedType(n.Type)
		}
		w.typeName(name, ast.ExprNode(id), n.TypeSpan, false)
		w.exprs(n.Args)
	case ast.ExprInitList:
		l, _ := w.b.Exprs.InitList(id)
		w.exprs(l.Elems)
	}
}

func (w *walker) castType(id ast.ExprID, c *ast.CastData) {
	n := c.TypeName
	if n.Empty() {
		n = namedType(c.Type)
	}
	w.typeName(n, ast.ExprNode(id), c.TypeSpan, false)
}

// callee reports a named call target as a call rather than a plain name.
func (w *walker) callee(fn ast.ExprID) {
	e := w.b.Exprs.Get(fn)
	if e == nil || e.Kind != ast.ExprName {
		w.expr(fn)
		return
	}
	n, _ := w.b.Exprs.Name(fn)
	w.lookup(RefCall, n.Name, ast.ExprNode(fn), e.Span, symbols.LookupDefault)
}

// member resolves this->name against the enclosing class. Other member
// accesses need the object type and are not looked up.
func (w *walker) member(id ast.ExprID, m *ast.MemberData) {
	x := w.b.Exprs.Get(m.X)
	if x == nil || x.Kind != ast.ExprThis || !m.Arrow {
		return
	}
	class := w.t.EnclosingClass()
	if !class.IsValid() {
		return
	}
	w.reference(Reference{
		Kind:    RefMember,
		Name:    m.Name,
		Node:    ast.ExprNode(id),
		Span:    m.NameSpan,
		Scope:   class,
		Symbols: w.t.MemberLookup(class, m.Name, symbols.LookupDefault),
	})
}
