package lexer

import "cxxscope/internal/diag"

// skipTrivia consumes whitespace, comments and preprocessor lines.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == '\n':
			lx.cursor.Bump()
			lx.lineStart = true
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			lx.cursor.Bump()
		case ch == '\\' && lx.cursor.At(1) == '\n':
			lx.cursor.Off += 2
		case ch == '/' && lx.cursor.At(1) == '/':
			lx.skipLine()
		case ch == '/' && lx.cursor.At(1) == '*':
			lx.skipBlockComment()
		case ch == '#' && lx.lineStart:
			lx.skipLine()
		default:
			return
		}
	}
}

// skipLine stops before the newline; backslash-newline continues the line.
func (lx *Lexer) skipLine() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\\' && lx.cursor.At(1) == '\n' {
			lx.cursor.Off += 2
			continue
		}
		if ch == '\n' {
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.At(1) == '/' {
			lx.cursor.Off += 2
			return
		}
		lx.cursor.Bump()
	}
	lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}
