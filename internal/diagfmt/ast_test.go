package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/parser"
	"cxxscope/internal/source"
)

func TestFormatASTTree(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.cc", []byte("namespace N { int f(int a) { return a + 1; } }\n"))
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs, id, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("parse: %v", bag.Items())
	}
	var buf bytes.Buffer
	if err := FormatASTTree(&buf, b, res.File, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"t.cc (span:", "├─ Name: N", "Declarator f", "Expr: a + 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tree lacks %q:\n%s", want, out)
		}
	}
}
