package diagfmt

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"cxxscope/internal/ast"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

type treeNode struct {
	Label    string      `json:"label"`
	Children []*treeNode `json:"children,omitempty"`
}

func (n *treeNode) add(children ...*treeNode) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

func leaf(format string, args ...any) *treeNode {
	return &treeNode{Label: fmt.Sprintf(format, args...)}
}

// formatSpan formats a source.Span into a string.
// If fs is non-nil, it resolves the span to start and end positions and returns "startLine:startCol-endLine:endCol".
// If fs is nil, it returns "span(start-end)".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

type treeBuilder struct {
	b  *ast.Builder
	fs *source.FileSet
}

// FormatASTTree prints the declarations of file as an indented tree.
func FormatASTTree(w io.Writer, b *ast.Builder, file ast.FileID, fs *source.FileSet) error {
	root := treeBuilder{b: b, fs: fs}.file(file)
	var sb strings.Builder
	writeTree(&sb, root, "", true, true)
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatASTJSON writes the same tree as nested label/children objects.
func FormatASTJSON(w io.Writer, b *ast.Builder, file ast.FileID, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(treeBuilder{b: b, fs: fs}.file(file))
}

func writeTree(sb *strings.Builder, n *treeNode, prefix string, last, root bool) {
	switch {
	case root:
		sb.WriteString(n.Label)
	case last:
		sb.WriteString(prefix + "└─ " + n.Label)
	default:
		sb.WriteString(prefix + "├─ " + n.Label)
	}
	sb.WriteByte('\n')
	childPrefix := prefix
	if !root {
		if last {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}
	for i, c := range n.Children {
		writeTree(sb, c, childPrefix, i == len(n.Children)-1, false)
	}
}

func (tb treeBuilder) file(id ast.FileID) *treeNode {
	f := tb.b.Files.Get(id)
	if f == nil {
		return leaf("File[%d]: <nil>", id)
	}
	header := "File"
	if tb.fs != nil {
		if sf := tb.fs.Get(f.Span.File); sf != nil {
			header = sf.Path
		}
	}
	root := leaf("%s (span: %s)", header, formatSpan(f.Span, tb.fs))
	for _, d := range f.Decls {
		root.add(tb.decl(d))
	}
	return root
}

func name(e encoding.Encoding) string {
	if e.Empty() {
		return "<unnamed>"
	}
	if e.IsAnonymous() {
		return "<anonymous>"
	}
	return e.Unmangled()
}

func (tb treeBuilder) decl(id ast.DeclID) *treeNode {
	d := tb.b.Decls.Get(id)
	if d == nil {
		return leaf("Decl[%d]: <nil>", id)
	}
	n := leaf("%s (span: %s)", d.Kind, formatSpan(d.Span, tb.fs))
	switch d.Kind {
	case ast.DeclNamespace:
		nd, _ := tb.b.Decls.Namespace(id)
		n.add(leaf("Name: %s", name(nd.Name)))
		for _, c := range nd.Body {
			n.add(tb.decl(c))
		}
	case ast.DeclNamespaceAlias:
		na, _ := tb.b.Decls.NamespaceAlias(id)
		n.add(leaf("Name: %s", name(na.Name)), leaf("Target: %s", name(na.Target)))
	case ast.DeclClass:
		cd, _ := tb.b.Decls.Class(id)
		n.add(leaf("%s %s", cd.Key, name(cd.Name)))
		for _, base := range cd.Bases {
			label := "Base: " + name(base.Name)
			if base.Access != token.Invalid {
				label += " " + base.Access.String()
			}
			if base.Virtual {
				label += " virtual"
			}
			n.add(leaf("%s", label))
		}
		if !cd.HasBody {
			n.add(leaf("Body: <none>"))
		}
		for _, m := range cd.Members {
			n.add(tb.decl(m))
		}
	case ast.DeclEnum:
		ed, _ := tb.b.Decls.Enum(id)
		n.add(leaf("Name: %s", name(ed.Name)))
		for _, en := range ed.Enumerators {
			e := leaf("Enumerator: %s", name(en.Name))
			if en.Value.IsValid() {
				e.add(tb.expr(en.Value))
			}
			n.add(e)
		}
	case ast.DeclTypedef:
		td, _ := tb.b.Decls.Typedef(id)
		for _, did := range td.Declarators {
			n.add(tb.declarator(did))
		}
	case ast.DeclSimple:
		sd, _ := tb.b.Decls.Simple(id)
		for _, did := range sd.Declarators {
			n.add(tb.declarator(did))
		}
	case ast.DeclFunction:
		fd, _ := tb.b.Decls.Function(id)
		n.add(tb.declarator(fd.Declarator))
		for _, x := range fd.MemInits {
			n.add(tb.expr(x))
		}
		if fd.Body.IsValid() {
			n.add(tb.stmt(fd.Body))
		}
	case ast.DeclTemplate:
		td, _ := tb.b.Decls.Template(id)
		params := leaf("Params")
		for _, p := range td.Params {
			params.add(leaf("%s %s", templateParamKind(p.Kind), name(p.Name)))
		}
		n.add(params, tb.decl(td.Decl))
	case ast.DeclUsingDirective:
		ud, _ := tb.b.Decls.UsingDirective(id)
		n.add(leaf("Namespace: %s", name(ud.Name)))
	case ast.DeclUsingDeclaration:
		ud, _ := tb.b.Decls.UsingDeclaration(id)
		n.add(leaf("Name: %s", name(ud.Name)))
	case ast.DeclLinkage:
		ld, _ := tb.b.Decls.Linkage(id)
		n.add(leaf("Language: %s", ld.Language))
		for _, c := range ld.Body {
			n.add(tb.decl(c))
		}
	case ast.DeclAccess:
		ad, _ := tb.b.Decls.Access(id)
		n.add(leaf("%s", ad.Access))
	}
	return n
}

func templateParamKind(k ast.TemplateParamKind) string {
	switch k {
	case ast.TemplateTypeParam:
		return "type"
	case ast.TemplateValueParam:
		return "value"
	}
	return "template"
}

func (tb treeBuilder) declarator(id ast.DeclaratorID) *treeNode {
	d := tb.b.Declarators.Get(id)
	if d == nil {
		return leaf("Declarator[%d]: <nil>", id)
	}
	n := leaf("Declarator %s : %s", name(d.Name), d.Type.Unmangled())
	if len(d.Params) > 0 {
		params := leaf("Params")
		for _, p := range d.Params {
			params.add(tb.declarator(p))
		}
		n.add(params)
	}
	if d.Init.IsValid() {
		init := leaf("Init")
		init.add(tb.expr(d.Init))
		n.add(init)
	}
	return n
}

func (tb treeBuilder) stmt(id ast.StmtID) *treeNode {
	s := tb.b.Stmts.Get(id)
	if s == nil {
		return nil
	}
	n := leaf("%s (span: %s)", stmtKind(s.Kind), formatSpan(s.Span, tb.fs))
	for _, c := range s.Stmts {
		n.add(tb.stmt(c))
	}
	for _, d := range s.Decls {
		n.add(tb.decl(d))
	}
	if s.Init.IsValid() {
		n.add(tb.stmt(s.Init))
	}
	if s.X.IsValid() {
		n.add(tb.expr(s.X))
	}
	if s.Post.IsValid() {
		n.add(tb.expr(s.Post))
	}
	if s.Then.IsValid() {
		n.add(tb.stmt(s.Then))
	}
	if s.Else.IsValid() {
		n.add(tb.stmt(s.Else))
	}
	return n
}

var stmtKindNames = [...]string{
	ast.StmtEmpty:    "Empty",
	ast.StmtBlock:    "Block",
	ast.StmtDecl:     "DeclStmt",
	ast.StmtExpr:     "ExprStmt",
	ast.StmtReturn:   "Return",
	ast.StmtIf:       "If",
	ast.StmtWhile:    "While",
	ast.StmtDo:       "Do",
	ast.StmtFor:      "For",
	ast.StmtSwitch:   "Switch",
	ast.StmtCase:     "Case",
	ast.StmtDefault:  "Default",
	ast.StmtBreak:    "Break",
	ast.StmtContinue: "Continue",
}

func stmtKind(k ast.StmtKind) string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return fmt.Sprintf("Stmt(%d)", k)
}

// expr renders an expression on one line.
func (tb treeBuilder) expr(id ast.ExprID) *treeNode {
	return leaf("Expr: %s", tb.exprText(id))
}

func (tb treeBuilder) exprText(id ast.ExprID) string {
	e := tb.b.Exprs.Get(id)
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ast.ExprName:
		n, _ := tb.b.Exprs.Name(id)
		return n.Name.Unmangled()
	case ast.ExprLiteral:
		l, _ := tb.b.Exprs.Literal(id)
		if l.Text == "" {
			return l.Kind.String()
		}
		return l.Text
	case ast.ExprParen:
		x, _ := tb.b.Exprs.Paren(id)
		return "(" + tb.exprText(x) + ")"
	case ast.ExprUnary:
		u, _ := tb.b.Exprs.Unary(id)
		if u.Postfix {
			return tb.exprText(u.X) + u.Op.String()
		}
		return u.Op.String() + tb.exprText(u.X)
	case ast.ExprBinary:
		bin, _ := tb.b.Exprs.Binary(id)
		return tb.exprText(bin.X) + " " + bin.Op.String() + " " + tb.exprText(bin.Y)
	case ast.ExprCond:
		c, _ := tb.b.Exprs.Cond(id)
		return tb.exprText(c.Cond) + " ? " + tb.exprText(c.Then) + " : " + tb.exprText(c.Else)
	case ast.ExprSizeof:
		sz, _ := tb.b.Exprs.Sizeof(id)
		if sz.X.IsValid() {
			return "sizeof " + tb.exprText(sz.X)
		}
		return "sizeof(" + sz.Type.Unmangled() + ")"
	case ast.ExprCall:
		c, _ := tb.b.Exprs.Call(id)
		return tb.exprText(c.Fn) + "(" + tb.exprList(c.Args) + ")"
	case ast.ExprMember:
		m, _ := tb.b.Exprs.Member(id)
		op := "."
		if m.Arrow {
			op = "->"
		}
		return tb.exprText(m.X) + op + m.Name.Unmangled()
	case ast.ExprIndex:
		ix, _ := tb.b.Exprs.Index(id)
		return tb.exprText(ix.X) + "[" + tb.exprText(ix.Index) + "]"
	case ast.ExprCast:
		c, _ := tb.b.Exprs.Cast(id)
		return "(" + c.Type.Unmangled() + ")(" + tb.exprList(c.Args) + ")"
	case ast.ExprThis:
		return "this"
	case ast.ExprNew:
		n, _ := tb.b.Exprs.New(id)
		return "new " + n.Type.Unmangled() + "(" + tb.exprList(n.Args) + ")"
	case ast.ExprInitList:
		l, _ := tb.b.Exprs.InitList(id)
		return "{" + tb.exprList(l.Elems) + "}"
	}
	return "<invalid>"
}

func (tb treeBuilder) exprList(ids []ast.ExprID) string {
	parts := make([]string, len(ids))
	for i, x := range ids {
		parts[i] = tb.exprText(x)
	}
	return strings.Join(parts, ", ")
}
