package dialect

import (
	"cxxscope/internal/lexer"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

// Collect gathers every kind of evidence for f. The file is lexed in C++
// mode without a reporter.
func Collect(f *source.File) *Evidence {
	e := NewEvidence()
	if f == nil {
		return e
	}
	ObservePath(e, f.Path)
	ObserveIncludes(e, f)
	lx := lexer.New(f, lexer.Options{})
	var prev token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		RecordToken(e, tok)
		ObserveTokenPair(e, prev, tok)
		prev = tok
	}
	return e
}

// Detect classifies f.
func Detect(f *source.File) Classification {
	return Classifier{}.Classify(Collect(f))
}
