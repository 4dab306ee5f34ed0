package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/testkit"
)

func parse(t *testing.T, src string, opts Options) (*ast.Builder, *ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cc", []byte(src))
	bag := diag.NewBag(0)
	opts.Reporter = diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(fs, id, b, opts)
	if bag.Len() == 0 {
		if err := testkit.CheckSpanInvariants(b, res.File, fs.Get(id)); err != nil {
			t.Fatalf("span invariants: %v", err)
		}
	}
	return b, b.Files.Get(res.File), bag
}

func mustParse(t *testing.T, src string) (*ast.Builder, *ast.File) {
	t.Helper()
	b, f, bag := parse(t, src, Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	return b, f
}

func declKinds(b *ast.Builder, ids []ast.DeclID) []ast.DeclKind {
	out := make([]ast.DeclKind, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.Decls.Get(id).Kind)
	}
	return out
}

func declarators(t *testing.T, b *ast.Builder, id ast.DeclID) []*ast.Declarator {
	t.Helper()
	var ids []ast.DeclaratorID
	if sd, ok := b.Decls.Simple(id); ok {
		ids = sd.Declarators
	} else if td, ok := b.Decls.Typedef(id); ok {
		ids = td.Declarators
	} else if fd, ok := b.Decls.Function(id); ok {
		ids = []ast.DeclaratorID{fd.Declarator}
	} else {
		t.Fatalf("decl %d is %s, not a declarator list", id, b.Decls.Get(id).Kind)
	}
	out := make([]*ast.Declarator, 0, len(ids))
	for _, d := range ids {
		out = append(out, b.Declarators.Get(d))
	}
	return out
}

func TestParseNamespaceAndClass(t *testing.T) {
	src := `
namespace N {
	int x;
	class A : public B {
	public:
		A(int v) : v_(v) {}
		~A();
		int get() const { return v_; }
	private:
		int v_;
	};
}`
	b, f := mustParse(t, src)
	if diff := cmp.Diff([]ast.DeclKind{ast.DeclNamespace}, declKinds(b, f.Decls)); diff != "" {
		t.Fatalf("top level (-want +got):\n%s", diff)
	}
	ns, _ := b.Decls.Namespace(f.Decls[0])
	if ns.Name != encoding.SimpleName("N") {
		t.Fatalf("namespace name = %q", ns.Name)
	}
	if diff := cmp.Diff([]ast.DeclKind{ast.DeclSimple, ast.DeclClass}, declKinds(b, ns.Body)); diff != "" {
		t.Fatalf("namespace body (-want +got):\n%s", diff)
	}
	cls, _ := b.Decls.Class(ns.Body[1])
	if len(cls.Bases) != 1 || cls.Bases[0].Name != encoding.SimpleName("B") {
		t.Fatalf("bases = %+v", cls.Bases)
	}
	want := []ast.DeclKind{ast.DeclAccess, ast.DeclFunction, ast.DeclSimple, ast.DeclFunction, ast.DeclAccess, ast.DeclSimple}
	if diff := cmp.Diff(want, declKinds(b, cls.Members)); diff != "" {
		t.Fatalf("members (-want +got):\n%s", diff)
	}

	ctor := declarators(t, b, cls.Members[1])[0]
	if ctor.Name != encoding.SimpleName("A") || ctor.Type != encoding.Function([]encoding.Encoding{encoding.Int}, encoding.Void) {
		t.Fatalf("constructor = %q %q", ctor.Name, ctor.Type)
	}
	fd, _ := b.Decls.Function(cls.Members[1])
	if len(fd.MemInits) != 1 {
		t.Fatalf("mem-inits = %d, want 1", len(fd.MemInits))
	}
	dtor := declarators(t, b, cls.Members[2])[0]
	if dtor.Name != encoding.SimpleName("~A") || dtor.Type != encoding.Function(nil, encoding.Void) {
		t.Fatalf("destructor = %q %q", dtor.Name, dtor.Type)
	}
	get := declarators(t, b, cls.Members[3])[0]
	if !get.ConstMember || get.Type != encoding.Const(encoding.Function(nil, encoding.Int)) {
		t.Fatalf("get = %q const=%v", get.Type, get.ConstMember)
	}
}

func TestDeclaratorTypes(t *testing.T) {
	src := `
int *p;
const char* s;
int a[4];
int (*fp)(int, char);
void f(int, ...);
int* const cp = 0;
unsigned long long n;
int A::* pm;
char (*rows)[8];
`
	b, f := mustParse(t, src)
	i, c := encoding.Int, encoding.Char
	want := map[string]encoding.Encoding{
		"p":    encoding.Pointer(i),
		"s":    encoding.Pointer(encoding.Const(c)),
		"a":    encoding.Array(4, i),
		"fp":   encoding.Pointer(encoding.Function([]encoding.Encoding{i, c}, i)),
		"f":    encoding.Function([]encoding.Encoding{i, encoding.Ellipsis}, encoding.Void),
		"cp":   encoding.Const(encoding.Pointer(i)),
		"n":    encoding.Unsigned(encoding.LongLong),
		"pm":   encoding.MemberPointer(encoding.SimpleName("A"), i),
		"rows": encoding.Pointer(encoding.Array(8, c)),
	}
	got := map[string]encoding.Encoding{}
	for _, id := range f.Decls {
		for _, d := range declarators(t, b, id) {
			name, _ := d.Name.Identifier()
			got[name] = d.Type
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("types (-want +got):\n%s", diff)
	}
	fn := declarators(t, b, f.Decls[4])[0]
	if !fn.Function || !fn.Variadic || len(fn.Params) != 1 {
		t.Fatalf("f: function=%v variadic=%v params=%d", fn.Function, fn.Variadic, len(fn.Params))
	}
	if declarators(t, b, f.Decls[3])[0].Function {
		t.Fatalf("pointer to function reported as a function")
	}
}

func TestDirectInitVersusFunctionDeclaration(t *testing.T) {
	src := `
int f(string s);
void g() { A a(b); int h(); }
`
	b, f := mustParse(t, src)
	if d := declarators(t, b, f.Decls[0])[0]; !d.Function {
		t.Fatalf("f should declare a function")
	}
	g, _ := b.Decls.Function(f.Decls[1])
	body := b.Stmts.Get(g.Body)
	if len(body.Stmts) != 2 {
		t.Fatalf("body has %d statements, want 2", len(body.Stmts))
	}
	first := b.Stmts.Get(body.Stmts[0])
	a := declarators(t, b, first.Decls[0])[0]
	if a.Function || !a.Init.IsValid() {
		t.Fatalf("a: function=%v init=%v", a.Function, a.Init.IsValid())
	}
	if a.TypeName != encoding.SimpleName("A") {
		t.Fatalf("a type name = %q", a.TypeName)
	}
	second := b.Stmts.Get(body.Stmts[1])
	if h := declarators(t, b, second.Decls[0])[0]; !h.Function {
		t.Fatalf("h should declare a function")
	}
}

func TestTemplatesAndNestedArgumentLists(t *testing.T) {
	src := `
template <class T, int N = 4> class V { T* data; };
V<V<int>> x;
template <typename T> T max(T a, T b);
`
	b, f := mustParse(t, src)
	if diff := cmp.Diff([]ast.DeclKind{ast.DeclTemplate, ast.DeclSimple, ast.DeclTemplate}, declKinds(b, f.Decls)); diff != "" {
		t.Fatalf("top level (-want +got):\n%s", diff)
	}
	td, _ := b.Decls.Template(f.Decls[0])
	if len(td.Params) != 2 || td.Params[0].Kind != ast.TemplateTypeParam || td.Params[1].Kind != ast.TemplateValueParam {
		t.Fatalf("params = %+v", td.Params)
	}
	if !td.Params[1].Default.IsValid() {
		t.Fatalf("value parameter lost its default")
	}
	x := declarators(t, b, f.Decls[1])[0]
	want := encoding.Template("V", encoding.Template("V", encoding.Int))
	if x.TypeName != want {
		t.Fatalf("x type = %s, want %s", x.TypeName, want)
	}
	fn, _ := b.Decls.Template(f.Decls[2])
	maxDecl := declarators(t, b, fn.Decl)[0]
	if maxDecl.Name != encoding.SimpleName("max") || len(maxDecl.Params) != 2 {
		t.Fatalf("max = %q with %d params", maxDecl.Name, len(maxDecl.Params))
	}
}

func TestEnumerators(t *testing.T) {
	b, f := mustParse(t, "enum Color { Red, Green = 5, Blue, }; enum { Anon };")
	en, ok := b.Decls.Enum(f.Decls[0])
	if !ok || len(en.Enumerators) != 3 {
		t.Fatalf("enum = %+v", en)
	}
	if en.Enumerators[0].Value.IsValid() || !en.Enumerators[1].Value.IsValid() {
		t.Fatalf("only Green has an explicit value")
	}
	anon, _ := b.Decls.Enum(f.Decls[1])
	if !anon.Anonymous || !anon.Name.IsAnonymous() {
		t.Fatalf("unnamed enum should get an anonymous name, got %q", anon.Name)
	}
}

func TestUsingForms(t *testing.T) {
	src := `
namespace N { int v; }
namespace M = N;
using namespace N;
using N::v;
using I = int;
I i;
`
	b, f := mustParse(t, src)
	want := []ast.DeclKind{
		ast.DeclNamespace, ast.DeclNamespaceAlias, ast.DeclUsingDirective,
		ast.DeclUsingDeclaration, ast.DeclTypedef, ast.DeclSimple,
	}
	if diff := cmp.Diff(want, declKinds(b, f.Decls)); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	ud, _ := b.Decls.UsingDeclaration(f.Decls[3])
	if ud.Name != encoding.Qualified(encoding.SimpleName("N"), encoding.SimpleName("v")) {
		t.Fatalf("using-declaration name = %s", ud.Name)
	}
}

func TestForwardDeclarationsAndElaboratedTypes(t *testing.T) {
	b, f := mustParse(t, "struct S; struct S *p; struct T { int a; } t;")
	want := []ast.DeclKind{ast.DeclClass, ast.DeclSimple, ast.DeclClass, ast.DeclSimple}
	if diff := cmp.Diff(want, declKinds(b, f.Decls)); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	fwd, _ := b.Decls.Class(f.Decls[0])
	if fwd.HasBody {
		t.Fatalf("forward declaration has a body")
	}
	p := declarators(t, b, f.Decls[1])[0]
	if !p.TypeElaborated || p.Type != encoding.Pointer(encoding.SimpleName("S")) {
		t.Fatalf("p = %q elaborated=%v", p.Type, p.TypeElaborated)
	}
}

func TestTryCatchBecomesNestedBlocks(t *testing.T) {
	b, f := mustParse(t, "void f() { try { g(); } catch (E& e) { h(e); } catch (...) {} }")
	fd, _ := b.Decls.Function(f.Decls[0])
	body := b.Stmts.Get(fd.Body)
	wrapper := b.Stmts.Get(body.Stmts[0])
	if wrapper.Kind != ast.StmtBlock || len(wrapper.Stmts) != 3 {
		t.Fatalf("try wrapper = %+v", wrapper)
	}
	handler := b.Stmts.Get(wrapper.Stmts[1])
	param := b.Stmts.Get(handler.Stmts[0])
	if param.Kind != ast.StmtDecl {
		t.Fatalf("handler should start with its parameter declaration, got %v", param.Kind)
	}
	e := declarators(t, b, param.Decls[0])[0]
	if e.Name != encoding.SimpleName("e") || e.Type != encoding.Reference(encoding.SimpleName("E")) {
		t.Fatalf("catch parameter = %q %q", e.Name, e.Type)
	}
}

func TestStatementsAndExpressions(t *testing.T) {
	src := `
int f(int n) {
	for (int i = 0, j = 1; i < n; ++i) { n += i * j; }
	if (int k = n) return k;
	while (n > 0) n--;
	switch (n) { case 1: break; default: ; }
	return sizeof(int) + (n ? 1 : 2);
}`
	b, f := mustParse(t, src)
	fd, _ := b.Decls.Function(f.Decls[0])
	body := b.Stmts.Get(fd.Body)
	var kinds []ast.StmtKind
	for _, s := range body.Stmts {
		kinds = append(kinds, b.Stmts.Get(s).Kind)
	}
	want := []ast.StmtKind{ast.StmtFor, ast.StmtIf, ast.StmtWhile, ast.StmtSwitch, ast.StmtReturn}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("statements (-want +got):\n%s", diff)
	}
	forStmt := b.Stmts.Get(body.Stmts[0])
	init := b.Stmts.Get(forStmt.Init)
	if got := len(declarators(t, b, init.Decls[0])); got != 2 {
		t.Fatalf("for-init declares %d names, want 2", got)
	}
	ifStmt := b.Stmts.Get(body.Stmts[1])
	if !ifStmt.Init.IsValid() || ifStmt.X.IsValid() {
		t.Fatalf("if condition should be a declaration")
	}
	ret := b.Stmts.Get(body.Stmts[4])
	bin, ok := b.Exprs.Binary(ret.X)
	if !ok {
		t.Fatalf("return value is %v, want binary", b.Exprs.Get(ret.X).Kind)
	}
	if sz, ok := b.Exprs.Sizeof(bin.X); !ok || sz.Type != encoding.Int {
		t.Fatalf("sizeof operand = %+v", sz)
	}
}

func TestCastsAndTemplateCalls(t *testing.T) {
	src := `
typedef int T;
template <class U> U conv(int);
void f() { long x = (T)3 + static_cast<long>(x) + conv<int>(1); }
`
	b, f := mustParse(t, src)
	fd, _ := b.Decls.Function(f.Decls[2])
	stmt := b.Stmts.Get(b.Stmts.Get(fd.Body).Stmts[0])
	x := declarators(t, b, stmt.Decls[0])[0]
	sum, _ := b.Exprs.Binary(x.Init)
	left, _ := b.Exprs.Binary(sum.X)
	if c, ok := b.Exprs.Cast(left.X); !ok || c.Type != encoding.SimpleName("T") {
		t.Fatalf("(T)3 not parsed as a cast")
	}
	if _, ok := b.Exprs.Cast(left.Y); !ok {
		t.Fatalf("static_cast not parsed as a cast")
	}
	call, ok := b.Exprs.Call(sum.Y)
	if !ok {
		t.Fatalf("conv<int>(1) not parsed as a call")
	}
	fn, _ := b.Exprs.Name(call.Fn)
	if fn.Name != encoding.Template("conv", encoding.Int) {
		t.Fatalf("callee = %s", fn.Name)
	}
}

func TestSyntaxErrorRecovery(t *testing.T) {
	b, f, bag := parse(t, "int x = ; int y;\nclass { int z }; int w;", Options{})
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics")
	}
	if bag.Items()[0].Code != diag.SynExpectExpression {
		t.Fatalf("first diagnostic = %v", bag.Items()[0].Code)
	}
	last := f.Decls[len(f.Decls)-1]
	if d := declarators(t, b, last)[0]; d.Name != encoding.SimpleName("w") {
		t.Fatalf("parsing did not recover; last declaration is %q", d.Name)
	}
}

func TestCModeTreatsCxxKeywordsAsIdentifiers(t *testing.T) {
	b, f, bag := parse(t, "struct S { int class; }; int new = 1;", Options{C: true})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if diff := cmp.Diff([]ast.DeclKind{ast.DeclClass, ast.DeclSimple}, declKinds(b, f.Decls)); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
}
