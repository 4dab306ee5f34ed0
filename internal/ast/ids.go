package ast

type (
	FileID       uint32
	DeclID       uint32
	DeclaratorID uint32
	StmtID       uint32
	ExprID       uint32
	PayloadID    uint32
)

const (
	NoFileID       FileID       = 0
	NoDeclID       DeclID       = 0
	NoDeclaratorID DeclaratorID = 0
	NoStmtID       StmtID       = 0
	NoExprID       ExprID       = 0
)

func (id FileID) IsValid() bool       { return id != NoFileID }
func (id DeclID) IsValid() bool       { return id != NoDeclID }
func (id DeclaratorID) IsValid() bool { return id != NoDeclaratorID }
func (id StmtID) IsValid() bool       { return id != NoStmtID }
func (id ExprID) IsValid() bool       { return id != NoExprID }

// NodeKind tags the family a Node belongs to.
type NodeKind uint8

const (
	NodeNone NodeKind = iota
	NodeDecl
	NodeDeclarator
	NodeStmt
	NodeExpr
	// NodeEnumerator addresses enumerator Index of enum Decl ID.
	NodeEnumerator
	// NodeTemplateParam addresses parameter Index of template Decl ID.
	NodeTemplateParam
)

// Node is a stable, comparable identity of a tree node. It is used as a map
// key for scope reuse and as the non-owning back-reference from symbols.
type Node struct {
	Kind  NodeKind
	ID    uint32
	Index uint32
}

var NoNode = Node{}

func (n Node) IsValid() bool { return n.Kind != NodeNone }

func DeclNode(id DeclID) Node             { return Node{Kind: NodeDecl, ID: uint32(id)} }
func DeclaratorNode(id DeclaratorID) Node { return Node{Kind: NodeDeclarator, ID: uint32(id)} }
func StmtNode(id StmtID) Node             { return Node{Kind: NodeStmt, ID: uint32(id)} }
func ExprNode(id ExprID) Node             { return Node{Kind: NodeExpr, ID: uint32(id)} }

func EnumeratorNode(enum DeclID, index int) Node {
	return Node{Kind: NodeEnumerator, ID: uint32(enum), Index: uint32(index)} //nolint:gosec // enumerator count fits
}

func TemplateParamNode(tmpl DeclID, index int) Node {
	return Node{Kind: NodeTemplateParam, ID: uint32(tmpl), Index: uint32(index)} //nolint:gosec // parameter count fits
}
