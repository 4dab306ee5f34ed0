package driver

import (
	"cxxscope/internal/diag"
	"cxxscope/internal/lexer"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
	"cxxscope/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file with the language and diagnostic limit of opts.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.MaxDiagnostics)
	tokens := lexer.All(file, lexer.Options{
		Reporter: diag.BagReporter{Bag: bag},
		C:        opts.languageFor(file) == symbols.LanguageC,
	})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
