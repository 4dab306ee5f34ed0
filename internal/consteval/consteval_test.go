package consteval

import (
	"testing"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/parser"
	"cxxscope/internal/source"
)

type mapResolver struct {
	consts map[string]int64
	types  map[string]encoding.Encoding
}

func (m mapResolver) Constant(name encoding.Encoding) (int64, bool) {
	v, ok := m.consts[name.Unmangled()]
	return v, ok
}

func (m mapResolver) Type(name encoding.Encoding) (encoding.Encoding, bool) {
	t, ok := m.types[name.Unmangled()]
	return t, ok
}

// initExpr parses "int v = <src>;" and returns the initializer.
func initExpr(t *testing.T, src string) (*ast.Builder, ast.ExprID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("expr.cc", []byte("int v = "+src+";"))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, id, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("parse %q: %v", src, bag.Items())
	}
	file := b.Files.Get(res.File)
	sd, ok := b.Decls.Simple(file.Decls[len(file.Decls)-1])
	if !ok || len(sd.Declarators) != 1 {
		t.Fatalf("parse %q: expected one declarator", src)
	}
	return b, b.Declarators.Get(sd.Declarators[0]).Init
}

func TestEvaluate(t *testing.T) {
	r := mapResolver{
		consts: map[string]int64{"N": 41, "A::B": 7},
		types:  map[string]encoding.Encoding{"byte": encoding.Unsigned(encoding.Char)},
	}
	tests := []struct {
		src  string
		want int64
	}{
		{"1 + 2 * 3", 7},
		{"(1 << 4) | 3", 19},
		{"10 / 3", 3},
		{"-7 % 3", -1},
		{"!0", 1},
		{"~0", -1},
		{"1 ? 2 : 3", 2},
		{"0 ? 2 : 3", 3},
		{"1 && 0", 0},
		{"0 || 5", 1},
		{"3 > 2", 1},
		{"3 <= 2", 0},
		{"6 ^ 3", 5},
		{"0x1F", 31},
		{"017", 15},
		{"0b101", 5},
		{"1'000", 1000},
		{"10u", 10},
		{"'a'", 97},
		{`'\n'`, 10},
		{`'\x41'`, 65},
		{"true", 1},
		{"false", 0},
		{"N + 1", 42},
		{"A::B * 2", 14},
		{"sizeof(int)", 4},
		{"sizeof(long)", 8},
		{"sizeof(char*)", 8},
		{"sizeof(unsigned short)", 2},
		{"sizeof 'a'", 1},
		{"(unsigned char)300", 44},
		{"(char)255", -1},
		{"int(3) + 1", 4},
		{"byte(300)", 44},
		{"(bool)7", 1},
	}
	for _, tt := range tests {
		b, x := initExpr(t, tt.src)
		got, ok := Evaluate(b, x, r)
		if !ok {
			t.Errorf("%s: evaluation failed", tt.src)
			continue
		}
		if got != tt.want {
			t.Errorf("%s = %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestEvaluateFailures(t *testing.T) {
	r := mapResolver{}
	for _, src := range []string{
		"1 / 0",
		"1 % 0",
		"undefined_name",
		"1 << 64",
		"f(1)",
		"3.5",
		"\"text\"",
	} {
		b, x := initExpr(t, src)
		if v, ok := Evaluate(b, x, r); ok {
			t.Errorf("%s: expected failure, got %d", src, v)
		}
	}
}

func TestShortCircuitSkipsUnresolved(t *testing.T) {
	b, x := initExpr(t, "0 && missing")
	v, ok := Evaluate(b, x, mapResolver{})
	if !ok || v != 0 {
		t.Fatalf("0 && missing = %d, %v", v, ok)
	}
}

func TestSizeOf(t *testing.T) {
	r := mapResolver{types: map[string]encoding.Encoding{
		"size_t": encoding.Unsigned(encoding.Long),
		"loop":   encoding.SimpleName("loop"),
	}}
	tests := []struct {
		t    encoding.Encoding
		want int64
		ok   bool
	}{
		{encoding.Int, 4, true},
		{encoding.Const(encoding.Double), 8, true},
		{encoding.Pointer(encoding.Void), 8, true},
		{encoding.Array(3, encoding.Short), 6, true},
		{encoding.Reference(encoding.LongDouble), 16, true},
		{encoding.SimpleName("size_t"), 8, true},
		{encoding.Void, 0, false},
		{encoding.Array(-1, encoding.Int), 0, false},
		{encoding.Function(nil, encoding.Int), 0, false},
		{encoding.SimpleName("loop"), 0, false},
		{encoding.SimpleName("unknown"), 0, false},
	}
	for _, tt := range tests {
		got, ok := SizeOf(tt.t, r)
		if ok != tt.ok || got != tt.want {
			t.Errorf("SizeOf(%s) = %d, %v; want %d, %v", tt.t, got, ok, tt.want, tt.ok)
		}
	}
}
