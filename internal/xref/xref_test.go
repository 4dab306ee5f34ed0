package xref

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/parser"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
	"cxxscope/internal/walker"
)

func collect(t *testing.T, src string) *Index {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.cc", []byte(src))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, id, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("parse diagnostics: %v", bag.Items())
	}
	tb := symbols.NewTable(b, symbols.Options{Language: symbols.LanguageCXX})
	defer tb.Close()
	c := NewCollector(tb, fs)
	if err := walker.Walk(tb, res.File, walker.Options{Hooks: c, StopOnError: true}); err != nil {
		t.Fatalf("walk: %v", err)
	}
	return c.Index()
}

func TestReferencesAreAttached(t *testing.T) {
	ix := collect(t, `namespace N { int v; }
int use() { return N::v + N::v; }
`)
	got := ix.Find("N::v")
	if len(got) != 1 {
		t.Fatalf("Find(N::v) = %v", got)
	}
	e := got[0]
	if e.Kind != "variable" || !e.Definition || e.Local {
		t.Fatalf("entry = %+v", e)
	}
	if e.Declared != "x.cc:1:19" {
		t.Fatalf("declared at %s", e.Declared)
	}
	want := []Location{
		{Position: "x.cc:2:20", Kind: "name"},
		{Position: "x.cc:2:27", Kind: "name"},
	}
	if diff := cmp.Diff(want, e.References); diff != "" {
		t.Fatalf("references (-want +got):\n%s", diff)
	}
}

func TestUnresolvedNames(t *testing.T) {
	ix := collect(t, "int f() { return missing; }\n")
	want := []Unresolved{{Name: "missing", Kind: "name", Position: "x.cc:1:18"}}
	if diff := cmp.Diff(want, ix.Unresolved); diff != "" {
		t.Fatalf("unresolved (-want +got):\n%s", diff)
	}
}

func TestNaturalOrder(t *testing.T) {
	ix := collect(t, "int x10; int x9; int x1;\n")
	var names []string
	for _, e := range ix.Entries {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"x1", "x9", "x10"}, names); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestDefinitionKeepsDeclarationHistory(t *testing.T) {
	ix := collect(t, `namespace A { void f(); }
void A::f() {}
`)
	got := ix.Find("f")
	if len(got) != 1 {
		t.Fatalf("Find(f) = %v", got)
	}
	if !got[0].Definition || len(got[0].Declarations) != 2 {
		t.Fatalf("entry = %+v", got[0])
	}
}

func TestLocalsAreMarked(t *testing.T) {
	ix := collect(t, "void f(int p) { int q = p; }\n")
	for _, name := range []string{"p", "q"} {
		got := ix.Find(name)
		if len(got) != 1 || !got[0].Local {
			t.Fatalf("Find(%s) = %+v", name, got)
		}
	}
	if got := ix.Find("f"); len(got) != 1 || got[0].Local {
		t.Fatalf("Find(f) = %+v", got)
	}
}
