package lexer

import (
	"cxxscope/internal/diag"
	"cxxscope/internal/token"
)

// scanString lexes "..." starting at the opening quote; start may include a prefix.
func (lx *Lexer) scanString(start Mark) token.Token {
	ok := lx.scanQuoted('"')
	sp := lx.cursor.SpanFrom(start)
	if !ok {
		lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	}
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.cursor.Text(start)}
}

func (lx *Lexer) scanChar(start Mark) token.Token {
	ok := lx.scanQuoted('\'')
	sp := lx.cursor.SpanFrom(start)
	if !ok {
		lx.report(diag.LexUnterminatedChar, sp, "unterminated character literal")
	}
	return token.Token{Kind: token.CharLit, Span: sp, Text: lx.cursor.Text(start)}
}

// scanQuoted stops at the closing quote or before a raw newline.
func (lx *Lexer) scanQuoted(quote byte) bool {
	c := &lx.cursor
	c.Bump()
	for !c.EOF() {
		switch ch := c.Peek(); ch {
		case quote:
			c.Bump()
			return true
		case '\\':
			c.Bump()
			c.Bump()
		case '\n':
			return false
		default:
			c.Bump()
		}
	}
	return false
}
