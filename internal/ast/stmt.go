package ast

import "cxxscope/internal/source"

type StmtKind uint8

const (
	StmtEmpty StmtKind = iota
	StmtBlock
	StmtDecl
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtDo
	StmtFor
	StmtSwitch
	StmtCase
	StmtDefault
	StmtBreak
	StmtContinue
)

// Stmt keeps all statement shapes in one record; unused fields stay zero.
//
//	Block:    Stmts
//	Decl:     Decls
//	Expr:     X
//	Return:   X (optional)
//	If:       Init (condition declaration), X (condition), Then, Else
//	While:    Init, X, Then (body)
//	Do:       Then (body), X
//	For:      Init, X, Post, Then (body)
//	Switch:   Init, X, Then (body)
//	Case:     X
type Stmt struct {
	Kind  StmtKind
	Span  source.Span
	Stmts []StmtID
	Decls []DeclID
	Init  StmtID
	X     ExprID
	Post  ExprID
	Then  StmtID
	Else  StmtID
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{Arena: NewArena[Stmt](capHint)}
}

func (s *Stmts) New(st Stmt) StmtID {
	return StmtID(s.Arena.Allocate(st))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// OpensScope reports statements that introduce a block scope of their own.
func (k StmtKind) OpensScope() bool {
	switch k {
	case StmtBlock, StmtIf, StmtWhile, StmtFor, StmtSwitch:
		return true
	}
	return false
}
