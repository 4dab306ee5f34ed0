package fuzztests

import (
	"testing"

	"cxxscope/internal/diag"
	"cxxscope/internal/lexer"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.cc", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		// каждый токен продвигает курсор, поэтому len(input)+1 шагов достаточно
		for i := 0; i <= len(file.Content)+1; i++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				return
			}
			if int(tok.Span.End) > len(file.Content) || tok.Span.Start > tok.Span.End {
				t.Fatalf("token %v has span %v outside input of %d bytes", tok.Kind, tok.Span, len(file.Content))
			}
		}
		t.Fatalf("lexer did not reach EOF")
	})
}
