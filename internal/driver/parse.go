package driver

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/parser"
	"cxxscope/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse builds the declaration tree of one file without declaring names.
func Parse(filePath string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}

	opts.Language = opts.languageFor(fs.Get(fileID))
	bag := diag.NewBag(opts.MaxDiagnostics)
	popts, err := opts.parserOptions(diag.BagReporter{Bag: bag})
	if err != nil {
		return nil, err
	}
	builder := ast.NewBuilder(ast.Hints{})
	result := parser.ParseFile(fs, fileID, builder, popts)

	return &ParseResult{
		FileSet: fs,
		File:    fs.Get(fileID),
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
	}, nil
}
