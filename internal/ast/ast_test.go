package ast

import (
	"testing"

	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be empty")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("allocate returned %d", id)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range index should be nil")
	}
}

func TestPayloadAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{Start: 1, End: 5}
	ns := b.Decls.NewNamespace(sp, NamespaceDecl{Name: encoding.SimpleName("N")})
	if data, ok := b.Decls.Namespace(ns); !ok || data.Name != encoding.SimpleName("N") {
		t.Fatalf("namespace payload = %v %v", data, ok)
	}
	if _, ok := b.Decls.Class(ns); ok {
		t.Fatalf("class accessor accepted a namespace")
	}
	x := b.Exprs.NewLiteral(sp, token.IntLit, "1")
	p := b.Exprs.NewParen(sp, x)
	if inner, ok := b.Exprs.Paren(p); !ok || inner != x {
		t.Fatalf("paren inner = %d %v", inner, ok)
	}
	if _, ok := b.Exprs.Unary(p); ok {
		t.Fatalf("unary accessor accepted a paren")
	}
}

func TestNodeSpan(t *testing.T) {
	b := NewBuilder(Hints{})
	en := b.Decls.NewEnum(source.Span{Start: 0, End: 20}, EnumDecl{
		Enumerators: []Enumerator{{Name: encoding.SimpleName("A"), Span: source.Span{Start: 7, End: 8}}},
	})
	if got := b.NodeSpan(EnumeratorNode(en, 0)); got.Start != 7 {
		t.Fatalf("enumerator span = %v", got)
	}
	if got := b.NodeSpan(EnumeratorNode(en, 3)); !got.Empty() {
		t.Fatalf("missing enumerator span = %v", got)
	}
	d := b.Declarators.New(Declarator{Span: source.Span{Start: 2, End: 9}, NameSpan: source.Span{Start: 4, End: 5}})
	if got := b.NodeSpan(DeclaratorNode(d)); got.Start != 4 {
		t.Fatalf("declarator span = %v", got)
	}
}
