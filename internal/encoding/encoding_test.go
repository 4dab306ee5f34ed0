package encoding

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSimpleNameRoundTrip(t *testing.T) {
	for _, name := range []string{"x", "vector", "operator_plus", strings.Repeat("n", 126), strings.Repeat("long", 100)} {
		e := SimpleName(name)
		if !e.IsSimpleName() || e.IsQualified() || e.IsFunction() {
			t.Fatalf("%q: unexpected predicates on %q", name, string(e))
		}
		if got := e.Unmangled(); got != name {
			t.Fatalf("unmangled = %q, want %q", got, name)
		}
		if id, ok := e.Identifier(); !ok || id != name {
			t.Fatalf("identifier = %q, %v", id, ok)
		}
	}
}

func TestLongNameUsesEscape(t *testing.T) {
	e := SimpleName(strings.Repeat("a", 300))
	if e[0] != longEscape || len(e) != 303 {
		t.Fatalf("prefix %x, len %d", e[0], len(e))
	}
}

func TestNameCutAtLimit(t *testing.T) {
	e := SimpleName(strings.Repeat("a", MaxNameLen+10))
	if len(e) != MaxNameLen+3 || e[1] != 0xFF || e[2] != 0xFF {
		t.Fatalf("len %d, prefix %x", len(e), []byte(e[:3]))
	}
}

func TestQualified(t *testing.T) {
	q := Qualified(SimpleName("std"), SimpleName("vector"), SimpleName("size"))
	if !q.IsQualified() {
		t.Fatalf("not qualified: %q", string(q))
	}
	if got := q.Unmangled(); got != "std::vector::size" {
		t.Fatalf("unmangled = %q", got)
	}
	if got := q.GetSymbol().Unmangled(); got != "vector::size" {
		t.Fatalf("GetSymbol = %q", got)
	}
	if got := q.GetSymbol().GetSymbol(); got != SimpleName("size") {
		t.Fatalf("second GetSymbol = %q", got.Unmangled())
	}
	if got := q.BaseName(); got != SimpleName("size") {
		t.Fatalf("BaseName = %q", got.Unmangled())
	}

	var seen []string
	base, ok := q.GetBaseName(func(c Encoding) bool {
		seen = append(seen, c.Unmangled())
		return true
	})
	if !ok || base != SimpleName("size") {
		t.Fatalf("GetBaseName = %q, %v", base.Unmangled(), ok)
	}
	if diff := cmp.Diff([]string{"std", "vector"}, seen); diff != "" {
		t.Fatalf("qualifiers (-want +got):\n%s", diff)
	}

	if got := Qualified(SimpleName("x")); got != SimpleName("x") {
		t.Fatalf("single component should stay simple")
	}
	nested := Qualified(SimpleName("a"), Qualified(SimpleName("b"), SimpleName("c")))
	if len(nested.Components()) != 3 {
		t.Fatalf("nested qualified not flattened: %d components", len(nested.Components()))
	}
}

func TestGlobalQualifier(t *testing.T) {
	q := Qualified(Global, SimpleName("x"))
	if got := q.Unmangled(); got != "::x" {
		t.Fatalf("unmangled = %q", got)
	}
	comps := q.Components()
	if !comps[0].IsGlobal() {
		t.Fatalf("first component %q is not global", string(comps[0]))
	}
	_, ok := q.GetBaseName(func(c Encoding) bool { return !c.IsGlobal() })
	if ok {
		t.Fatalf("visitor refusal should fail decomposition")
	}
}

func TestTemplate(t *testing.T) {
	e := Template("map", Int, Pointer(Const(Char)), ValueArg("3"))
	if !e.IsTemplate() {
		t.Fatalf("not a template id")
	}
	if got := e.Unmangled(); got != "map<int, const char*, 3>" {
		t.Fatalf("unmangled = %q", got)
	}
	if got := e.TemplateName(); got != SimpleName("map") {
		t.Fatalf("template name = %q", got.Unmangled())
	}
	if n := len(e.TemplateArgs()); n != 3 {
		t.Fatalf("args = %d", n)
	}
	q := Qualified(SimpleName("std"), e, SimpleName("iterator"))
	if got := q.Unmangled(); got != "std::map<int, const char*, 3>::iterator" {
		t.Fatalf("qualified template = %q", got)
	}
}

func TestFunctionTypes(t *testing.T) {
	f := Function([]Encoding{Int, Reference(Const(SimpleName("string"))), Ellipsis}, Void)
	if !f.IsFunction() || !Const(f).IsFunction() {
		t.Fatalf("function predicates failed for %q", string(f))
	}
	if Pointer(f).IsFunction() {
		t.Fatalf("pointer to function is not a function")
	}
	if got := f.Unmangled(); got != "void(int, const string&, ...)" {
		t.Fatalf("unmangled = %q", got)
	}
	params, ret, ok := f.FunctionSignature()
	if !ok || ret != Void || len(params) != 3 {
		t.Fatalf("signature = %v %v %v", params, ret, ok)
	}
	if got := Function(nil, Int).Unmangled(); got != "int()" {
		t.Fatalf("nullary = %q", got)
	}
}

func TestModifiers(t *testing.T) {
	cases := []struct {
		e    Encoding
		want string
	}{
		{Const(Pointer(Int)), "int* const"},
		{Pointer(Const(Int)), "const int*"},
		{Array(4, Unsigned(Char)), "unsigned char[4]"},
		{Array(-1, Double), "double[]"},
		{MemberPointer(SimpleName("A"), Int), "int A::*"},
		{Dependent, "<dependent>"},
		{Anonymous("class", 7), "{class#7}"},
	}
	for _, tc := range cases {
		if got := tc.e.Unmangled(); got != tc.want {
			t.Fatalf("%q: got %q want %q", string(tc.e), got, tc.want)
		}
	}
}

func TestAnonymousMarkers(t *testing.T) {
	if !AnonymousNamespace().IsAnonymous() || !Anonymous("enum", 3).IsAnonymous() {
		t.Fatalf("markers not recognised")
	}
	if SimpleName("anonymous").IsAnonymous() {
		t.Fatalf("plain identifier flagged as anonymous")
	}
	if AnonymousNamespace() != AnonymousNamespace() {
		t.Fatalf("anonymous namespaces must share one name")
	}
	if Anonymous("class", 1) == Anonymous("class", 2) {
		t.Fatalf("anonymous classes must not merge")
	}
	if !Qualified(SimpleName("N"), AnonymousNamespace()).IsAnonymous() {
		t.Fatalf("qualified marker not recognised")
	}
}

func TestMalformedInputDoesNotPanic(t *testing.T) {
	for _, raw := range []string{"Q", "Q\x83\x81a", "T\x82ab", "F", "Fi", "A12", "\x85ab", "M", "K\x85a"} {
		e := Encoding(raw)
		_ = e.Unmangled()
		_ = e.Components()
		_ = e.GetSymbol()
		_ = e.TemplateArgs()
		_, _, _ = e.FunctionSignature()
		_ = e.IsAnonymous()
	}
	if got := Encoding("Q").Components(); len(got) != 1 || got[0] != Unknown {
		t.Fatalf("malformed qualified decodes to %v", got)
	}
}

func TestCompareIsBytewise(t *testing.T) {
	a, b := SimpleName("a"), SimpleName("b")
	if Compare(a, b) >= 0 || Compare(b, a) <= 0 || Compare(a, SimpleName("a")) != 0 {
		t.Fatalf("compare is not a total byte order")
	}
}

func TestParseQualified(t *testing.T) {
	tests := map[string]Encoding{
		"x":         SimpleName("x"),
		" A::B::x ": Qualified(SimpleName("A"), SimpleName("B"), SimpleName("x")),
		"::x":       Qualified(Global, SimpleName("x")),
		"":          "",
	}
	for in, want := range tests {
		if got := ParseQualified(in); got != want {
			t.Fatalf("ParseQualified(%q) = %q, want %q", in, got, want)
		}
	}
	if got := ParseQualified("A::B::x").Unmangled(); got != "A::B::x" {
		t.Fatalf("Unmangled = %q", got)
	}
}
