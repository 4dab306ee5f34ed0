package lexer

import (
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token
	// lineStart is true while only whitespace has been seen on the current line;
	// a '#' there opens a preprocessor directive.
	lineStart bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts, lineStart: true}
}

// Next returns the next significant token. After the end it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}
	lx.lineStart = false

	ch := lx.cursor.Peek()
	switch {
	case isIdentStart(ch):
		if tok, ok := lx.scanPrefixedLiteral(); ok {
			return tok
		}
		return lx.scanIdentOrKeyword()
	case isDec(ch), ch == '.' && isDec(lx.cursor.At(1)):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString(lx.cursor.Mark())
	case ch == '\'':
		return lx.scanChar(lx.cursor.Mark())
	default:
		return lx.scanPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the whole file; the last element is always EOF.
func All(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
