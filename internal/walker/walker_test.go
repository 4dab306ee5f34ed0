package walker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/parser"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
)

// recorder renders events as "kind name -> qualified" strings.
type recorder struct {
	t        *symbols.Table
	declared []string
	refs     []string
	raw      []Reference
}

func (r *recorder) Declared(sym symbols.SymbolID, _ ast.Node) {
	r.declared = append(r.declared, fmt.Sprintf("%s %s", r.t.Symbol(sym).Kind, r.t.QualifiedName(sym)))
}

func (r *recorder) Referenced(ref Reference) {
	r.raw = append(r.raw, ref)
	target := "?"
	switch {
	case ref.Resolved():
		target = r.t.QualifiedName(ref.Symbols[0])
	case ref.Dependent:
		target = "dependent"
	}
	r.refs = append(r.refs, fmt.Sprintf("%s %s -> %s", ref.Kind, ref.Name.Unmangled(), target))
}

type unit struct {
	tb   *symbols.Table
	file ast.FileID
	bag  *diag.Bag
	rec  *recorder
}

func newUnit(t *testing.T, lang symbols.Language, src string) *unit {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cc", []byte(src))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, id, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}, C: lang == symbols.LanguageC})
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", bag.Items())
	}
	tb := symbols.NewTable(b, symbols.Options{Language: lang, Reporter: diag.BagReporter{Bag: bag}})
	return &unit{tb: tb, file: res.File, bag: bag, rec: &recorder{t: tb}}
}

func (u *unit) walk(opts Options) error {
	opts.Hooks = u.rec
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: u.bag}
	}
	return Walk(u.tb, u.file, opts)
}

func walkOK(t *testing.T, src string) *unit {
	t.Helper()
	u := newUnit(t, symbols.LanguageCXX, src)
	if err := u.walk(Options{StopOnError: true}); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if u.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", u.bag.Items())
	}
	if u.tb.Depth() != 1 {
		t.Fatalf("scope stack not restored: depth %d", u.tb.Depth())
	}
	if err := u.tb.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return u
}

func hasRef(refs []string, want string) bool {
	for _, r := range refs {
		if r == want {
			return true
		}
	}
	return false
}

func TestDeclarationEvents(t *testing.T) {
	u := walkOK(t, `
namespace N {
  struct A { int m; };
  enum E { X, Y };
  typedef int T;
}
`)
	want := []string{
		"namespace N",
		"class N::A",
		"variable N::A::m",
		"enum N::E",
		"const N::X",
		"const N::Y",
		"typedef N::T",
	}
	if diff := cmp.Diff(want, u.rec.declared); diff != "" {
		t.Fatalf("declared mismatch (-want +got):\n%s", diff)
	}
}

func TestMemberBodiesSeeLaterMembers(t *testing.T) {
	u := walkOK(t, `
struct S {
  int get() { return value; }
  int value;
};
`)
	if !hasRef(u.rec.refs, "name value -> S::value") {
		t.Fatalf("refs = %v", u.rec.refs)
	}
}

func TestBlockScopes(t *testing.T) {
	u := walkOK(t, `
int x;
void f(int x) {
  {
    int y = x;
  }
  y;
}
`)
	var inner, outer *Reference
	for i := range u.rec.raw {
		ref := &u.rec.raw[i]
		switch ref.Name.Unmangled() {
		case "x":
			inner = ref
		case "y":
			if ref.Kind == RefName {
				outer = ref
			}
		}
	}
	if inner == nil || !inner.Resolved() {
		t.Fatalf("x not resolved: %v", u.rec.refs)
	}
	if sym := u.tb.Symbol(inner.Symbols[0]); sym.Flags&symbols.SymbolFlagParameter == 0 {
		t.Fatalf("x resolved to %s, want the parameter", u.tb.QualifiedName(inner.Symbols[0]))
	}
	if outer == nil || outer.Resolved() {
		t.Fatalf("y must not be visible after its block: %v", u.rec.refs)
	}
}

func TestTypeAndScopeReferences(t *testing.T) {
	u := walkOK(t, `
namespace N { struct A {}; int f(); }
N::A a;
struct B : N::A {};
using namespace N;
using N::f;
A c;
`)
	for _, want := range []string{
		"type N::A -> N::A",
		"base N::A -> N::A",
		"namespace N -> N",
		"using N::f -> N::f",
		"type A -> N::A",
	} {
		if !hasRef(u.rec.refs, want) {
			t.Fatalf("missing %q in %v", want, u.rec.refs)
		}
	}
}

func TestCallsAndThisMembers(t *testing.T) {
	u := walkOK(t, `
int g(int);
struct S {
  int v;
  int get() { return g(this->v); }
};
`)
	for _, want := range []string{
		"call g -> g",
		"member v -> S::v",
	} {
		if !hasRef(u.rec.refs, want) {
			t.Fatalf("missing %q in %v", want, u.rec.refs)
		}
	}
}

func TestTemplateDependentNames(t *testing.T) {
	u := walkOK(t, `
template <class T> struct Box {
  T value;
  void run() { T::touch(); }
};
`)
	for _, want := range []string{
		"type T -> T",
		"call T::touch -> dependent",
	} {
		if !hasRef(u.rec.refs, want) {
			t.Fatalf("missing %q in %v", want, u.rec.refs)
		}
	}
}

func TestStopOnError(t *testing.T) {
	const src = `
int a;
namespace M { int a; int a; }
int b;
`
	u := newUnit(t, symbols.LanguageCXX, src)
	err := u.walk(Options{StopOnError: true})
	if !errors.Is(err, symbols.ErrMultiplyDefined) {
		t.Fatalf("walk error = %v, want multiply defined", err)
	}
	if u.tb.Depth() != 1 {
		t.Fatalf("aborted walk left depth %d", u.tb.Depth())
	}
	if got := u.tb.Lookup(encoding.SimpleName("b"), symbols.LookupDefault); len(got) != 0 {
		t.Fatalf("b declared after abort")
	}

	u = newUnit(t, symbols.LanguageCXX, src)
	if err := u.walk(Options{}); err != nil {
		t.Fatalf("walk without StopOnError returned %v", err)
	}
	if got := u.tb.Lookup(encoding.SimpleName("b"), symbols.LookupDefault); len(got) != 1 {
		t.Fatalf("b not declared after skipped error")
	}
	items := u.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaMultiplyDefined {
		t.Fatalf("diagnostics = %v", items)
	}
	if len(items[0].Notes) != 1 {
		t.Fatalf("expected a note for the previous declaration, got %v", items[0].Notes)
	}
}

func TestUndefinedUsingTarget(t *testing.T) {
	u := newUnit(t, symbols.LanguageCXX, "using namespace Missing;\n")
	if err := u.walk(Options{}); err != nil {
		t.Fatalf("walk: %v", err)
	}
	items := u.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUndefined {
		t.Fatalf("diagnostics = %v", items)
	}
	if !hasRef(u.rec.refs, "namespace Missing -> ?") {
		t.Fatalf("refs = %v", u.rec.refs)
	}
}

func TestWarnUnresolved(t *testing.T) {
	u := newUnit(t, symbols.LanguageCXX, "void f() { g(); }\n")
	if err := u.walk(Options{WarnUnresolved: true}); err != nil {
		t.Fatalf("walk: %v", err)
	}
	items := u.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnresolvedRef || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %v", items)
	}
}

func TestCElaboratedTypes(t *testing.T) {
	u := newUnit(t, symbols.LanguageC, `
struct P { int x; };
struct P p;
int n = sizeof(struct P);
`)
	if err := u.walk(Options{StopOnError: true}); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !hasRef(u.rec.refs, "type P -> P") {
		t.Fatalf("refs = %v", u.rec.refs)
	}
}

func TestNamedType(t *testing.T) {
	foo := encoding.SimpleName("Foo")
	tests := []struct {
		in, want encoding.Encoding
	}{
		{encoding.Int, ""},
		{encoding.Pointer(encoding.Const(encoding.Int)), ""},
		{encoding.Const(encoding.Pointer(foo)), foo},
		{encoding.Array(10, foo), foo},
		{encoding.Reference(foo), foo},
		{encoding.Function(nil, foo), ""},
	}
	for _, tt := range tests {
		if got := namedType(tt.in); got != tt.want {
			t.Errorf("namedType(%s) = %q, want %q", tt.in.Unmangled(), got, tt.want)
		}
	}
}
