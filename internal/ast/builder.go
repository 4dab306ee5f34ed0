package ast

import "cxxscope/internal/source"

// Hints pre-sizes the arenas.
type Hints struct{ Files, Decls, Stmts, Exprs uint }

// Builder owns every arena of one syntax tree.
type Builder struct {
	Files       *Files
	Decls       *Decls
	Declarators *Declarators
	Stmts       *Stmts
	Exprs       *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Files:       NewFiles(hints.Files),
		Decls:       NewDecls(hints.Decls),
		Declarators: NewDeclarators(hints.Decls),
		Stmts:       NewStmts(hints.Stmts),
		Exprs:       NewExprs(hints.Exprs),
	}
}

// PushDecl appends a top-level declaration to file.
func (b *Builder) PushDecl(file FileID, decl DeclID) {
	f := b.Files.Get(file)
	f.Decls = append(f.Decls, decl)
}

// NodeSpan returns the source span of any node.
func (b *Builder) NodeSpan(n Node) (sp source.Span) {
	switch n.Kind {
	case NodeDecl:
		if d := b.Decls.Get(DeclID(n.ID)); d != nil {
			return d.Span
		}
	case NodeDeclarator:
		if d := b.Declarators.Get(DeclaratorID(n.ID)); d != nil {
			if !d.NameSpan.Empty() {
				return d.NameSpan
			}
			return d.Span
		}
	case NodeStmt:
		if s := b.Stmts.Get(StmtID(n.ID)); s != nil {
			return s.Span
		}
	case NodeExpr:
		if e := b.Exprs.Get(ExprID(n.ID)); e != nil {
			return e.Span
		}
	case NodeEnumerator:
		if en, ok := b.Decls.Enum(DeclID(n.ID)); ok && int(n.Index) < len(en.Enumerators) {
			return en.Enumerators[n.Index].Span
		}
	case NodeTemplateParam:
		if td, ok := b.Decls.Template(DeclID(n.ID)); ok && int(n.Index) < len(td.Params) {
			return td.Params[n.Index].Span
		}
	}
	return sp
}
