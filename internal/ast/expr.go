package ast

import (
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprName             // identifier, template-id or qualified name
	ExprLiteral
	ExprParen
	ExprUnary
	ExprBinary
	ExprCond
	ExprSizeof
	ExprCall
	ExprMember
	ExprIndex
	ExprCast
	ExprThis
	ExprNew
	ExprInitList
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type NameData struct {
	Name encoding.Encoding
}

type LiteralData struct {
	Kind token.Kind
	Text string
}

type UnaryData struct {
	Op      token.Kind
	X       ExprID
	Postfix bool
}

type BinaryData struct {
	Op   token.Kind
	X, Y ExprID
}

type CondData struct {
	Cond, Then, Else ExprID
}

// SizeofData holds either a type operand or an expression operand.
type SizeofData struct {
	Type     encoding.Encoding
	TypeSpan source.Span
	X        ExprID
}

type CallData struct {
	Fn   ExprID
	Args []ExprID
}

type MemberData struct {
	X        ExprID
	Arrow    bool
	Name     encoding.Encoding
	NameSpan source.Span
}

type IndexData struct {
	X, Index ExprID
}

// CastData covers (T)x, T(x) and the named casts.
type CastData struct {
	Type       encoding.Encoding
	TypeName   encoding.Encoding
	TypeSpan   source.Span
	Args       []ExprID
	Functional bool
}

type NewData struct {
	Type     encoding.Encoding
	TypeName encoding.Encoding
	TypeSpan source.Span
	Args     []ExprID
}

type ListData struct {
	Elems []ExprID
}

type Exprs struct {
	Arena    *Arena[Expr]
	Names    *Arena[NameData]
	Literals *Arena[LiteralData]
	Unaries  *Arena[UnaryData]
	Binaries *Arena[BinaryData]
	Conds    *Arena[CondData]
	Sizeofs  *Arena[SizeofData]
	Calls    *Arena[CallData]
	Members  *Arena[MemberData]
	Indices  *Arena[IndexData]
	Casts    *Arena[CastData]
	News     *Arena[NewData]
	Lists    *Arena[ListData]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Names:    NewArena[NameData](capHint / 2),
		Literals: NewArena[LiteralData](capHint / 2),
		Unaries:  NewArena[UnaryData](capHint / 8),
		Binaries: NewArena[BinaryData](capHint / 4),
		Conds:    NewArena[CondData](0),
		Sizeofs:  NewArena[SizeofData](0),
		Calls:    NewArena[CallData](capHint / 8),
		Members:  NewArena[MemberData](capHint / 8),
		Indices:  NewArena[IndexData](0),
		Casts:    NewArena[CastData](0),
		News:     NewArena[NewData](0),
		Lists:    NewArena[ListData](0),
	}
}

func (e *Exprs) new(kind ExprKind, sp source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != kind {
		return 0, false
	}
	return uint32(x.Payload), true
}

func (e *Exprs) NewName(sp source.Span, name encoding.Encoding) ExprID {
	return e.new(ExprName, sp, e.Names.Allocate(NameData{Name: name}))
}

func (e *Exprs) Name(id ExprID) (*NameData, bool) {
	p, ok := e.payload(id, ExprName)
	return e.Names.Get(p), ok
}

func (e *Exprs) NewLiteral(sp source.Span, kind token.Kind, text string) ExprID {
	return e.new(ExprLiteral, sp, e.Literals.Allocate(LiteralData{Kind: kind, Text: text}))
}

func (e *Exprs) Literal(id ExprID) (*LiteralData, bool) {
	p, ok := e.payload(id, ExprLiteral)
	return e.Literals.Get(p), ok
}

// NewParen reuses the unary payload with Op Invalid.
func (e *Exprs) NewParen(sp source.Span, x ExprID) ExprID {
	return e.new(ExprParen, sp, e.Unaries.Allocate(UnaryData{X: x}))
}

func (e *Exprs) Paren(id ExprID) (ExprID, bool) {
	p, ok := e.payload(id, ExprParen)
	if !ok {
		return NoExprID, false
	}
	return e.Unaries.Get(p).X, true
}

func (e *Exprs) NewUnary(sp source.Span, op token.Kind, x ExprID, postfix bool) ExprID {
	return e.new(ExprUnary, sp, e.Unaries.Allocate(UnaryData{Op: op, X: x, Postfix: postfix}))
}

func (e *Exprs) Unary(id ExprID) (*UnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	return e.Unaries.Get(p), ok
}

func (e *Exprs) NewBinary(sp source.Span, op token.Kind, x, y ExprID) ExprID {
	return e.new(ExprBinary, sp, e.Binaries.Allocate(BinaryData{Op: op, X: x, Y: y}))
}

func (e *Exprs) Binary(id ExprID) (*BinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	return e.Binaries.Get(p), ok
}

func (e *Exprs) NewCond(sp source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprCond, sp, e.Conds.Allocate(CondData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) Cond(id ExprID) (*CondData, bool) {
	p, ok := e.payload(id, ExprCond)
	return e.Conds.Get(p), ok
}

func (e *Exprs) NewSizeof(sp source.Span, data SizeofData) ExprID {
	return e.new(ExprSizeof, sp, e.Sizeofs.Allocate(data))
}

func (e *Exprs) Sizeof(id ExprID) (*SizeofData, bool) {
	p, ok := e.payload(id, ExprSizeof)
	return e.Sizeofs.Get(p), ok
}

func (e *Exprs) NewCall(sp source.Span, fn ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, sp, e.Calls.Allocate(CallData{Fn: fn, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	p, ok := e.payload(id, ExprCall)
	return e.Calls.Get(p), ok
}

func (e *Exprs) NewMember(sp source.Span, data MemberData) ExprID {
	return e.new(ExprMember, sp, e.Members.Allocate(data))
}

func (e *Exprs) Member(id ExprID) (*MemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	return e.Members.Get(p), ok
}

func (e *Exprs) NewIndex(sp source.Span, x, index ExprID) ExprID {
	return e.new(ExprIndex, sp, e.Indices.Allocate(IndexData{X: x, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*IndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	return e.Indices.Get(p), ok
}

func (e *Exprs) NewCast(sp source.Span, data CastData) ExprID {
	return e.new(ExprCast, sp, e.Casts.Allocate(data))
}

func (e *Exprs) Cast(id ExprID) (*CastData, bool) {
	p, ok := e.payload(id, ExprCast)
	return e.Casts.Get(p), ok
}

func (e *Exprs) NewThis(sp source.Span) ExprID { return e.new(ExprThis, sp, 0) }

func (e *Exprs) NewNew(sp source.Span, data NewData) ExprID {
	return e.new(ExprNew, sp, e.News.Allocate(data))
}

func (e *Exprs) New(id ExprID) (*NewData, bool) {
	p, ok := e.payload(id, ExprNew)
	return e.News.Get(p), ok
}

func (e *Exprs) NewInitList(sp source.Span, elems []ExprID) ExprID {
	return e.new(ExprInitList, sp, e.Lists.Allocate(ListData{Elems: elems}))
}

func (e *Exprs) InitList(id ExprID) (*ListData, bool) {
	p, ok := e.payload(id, ExprInitList)
	return e.Lists.Get(p), ok
}
