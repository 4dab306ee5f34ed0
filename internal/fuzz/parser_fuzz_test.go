package fuzztests

import (
	"context"
	"testing"
	"time"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/parser"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
	"cxxscope/internal/walker"
)

// parseTimeout is the maximum time allowed for one input.
// If analysis takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.cc", input)

		bag := diag.NewBag(128)
		builder := ast.NewBuilder(ast.Hints{})
		res := parser.ParseFile(fs, fileID, builder, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if builder.Files.Get(res.File) == nil {
			t.Fatalf("parser returned no file node")
		}
	})
}

// FuzzWalkNoHang declares and resolves every input with a deadline. The
// scope stack must be back at its starting depth afterwards, whatever
// errors were reported.
func FuzzWalkNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("namespace { namespace { namespace {"))
	f.Add([]byte("struct A : A { A::A::A x; };"))
	f.Add([]byte("template <template <class> class T> struct X : T<X> {};"))
	f.Add([]byte("void f( { int x; }"))
	f.Add([]byte("class C { void g() { class D { int h() { return this->h(); } }; } };"))
	f.Add([]byte("enum E : ; enum class F { x = F::x };"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		var depthBefore, depthAfter int
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			fileID := fs.AddVirtual("fuzz.cc", input)
			bag := diag.NewBag(128)
			reporter := diag.BagReporter{Bag: bag}
			builder := ast.NewBuilder(ast.Hints{})
			res := parser.ParseFile(fs, fileID, builder, parser.Options{Reporter: reporter, MaxErrors: 128})

			tb := symbols.NewTable(builder, symbols.Options{Language: symbols.LanguageCXX, Reporter: reporter})
			defer tb.Close()
			depthBefore = tb.Depth()
			_ = walker.Walk(tb, res.File, walker.Options{Reporter: reporter})
			depthAfter = tb.Depth()
		}()

		select {
		case <-done:
			if depthAfter != depthBefore {
				t.Fatalf("scope depth %d after walk, want %d\ninput: %q", depthAfter, depthBefore, input)
			}
		case <-ctx.Done():
			t.Fatalf("analysis timed out after %v, possible infinite loop\ninput: %q", parseTimeout, input)
		}
	})
}
