package ast

import (
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
)

// Declarator is one name introduced by a declaration, with its complete type.
// Function parameters are declarators too.
type Declarator struct {
	Span     source.Span
	Name     encoding.Encoding // empty for abstract declarators
	NameSpan source.Span
	Type     encoding.Encoding
	// TypeName is the named type in the decl-specifier (empty for builtins).
	TypeName       encoding.Encoding
	TypeNameSpan   source.Span
	TypeElaborated bool // "struct X x;"
	Params         []DeclaratorID
	Variadic       bool
	Function       bool // the outermost derived type is a function
	ConstMember    bool // trailing const on a member function
	PureVirtual    bool
	Init           ExprID
	ArrayBounds    []ExprID
	BitField       ExprID
}

// DefaultArgs counts parameters with a default argument.
func (d *Declarator) DefaultArgs(b *Builder) int {
	n := 0
	for _, p := range d.Params {
		if pd := b.Declarators.Get(p); pd != nil && pd.Init.IsValid() {
			n++
		}
	}
	return n
}

type Declarators struct {
	Arena *Arena[Declarator]
}

func NewDeclarators(capHint uint) *Declarators {
	return &Declarators{Arena: NewArena[Declarator](capHint)}
}

func (d *Declarators) New(decl Declarator) DeclaratorID {
	return DeclaratorID(d.Arena.Allocate(decl))
}

func (d *Declarators) Get(id DeclaratorID) *Declarator {
	return d.Arena.Get(uint32(id))
}
