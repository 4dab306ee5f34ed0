package lexer

import (
	"cxxscope/internal/diag"
	"cxxscope/internal/token"
)

// scanNumber accepts decimal, octal, hex and binary integers with ' separators
// and u/l suffixes, and decimal floats with exponents and f/l suffixes.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	c := &lx.cursor

	digits := isDec
	if c.Peek() == '0' && (c.At(1) == 'x' || c.At(1) == 'X') {
		c.Off += 2
		digits = isHex
	} else if c.Peek() == '0' && (c.At(1) == 'b' || c.At(1) == 'B') {
		c.Off += 2
		digits = isBin
	}
	lx.eatDigits(digits)

	if kindAllowsFraction(digits) && c.Peek() == '.' {
		kind = token.FloatLit
		c.Bump()
		lx.eatDigits(isDec)
	}
	if kindAllowsFraction(digits) && (c.Peek() == 'e' || c.Peek() == 'E') {
		save := c.Off
		c.Bump()
		if c.Peek() == '+' || c.Peek() == '-' {
			c.Bump()
		}
		if isDec(c.Peek()) {
			kind = token.FloatLit
			lx.eatDigits(isDec)
		} else {
			c.Off = save
		}
	}

	for isIdentContinue(c.Peek()) {
		ch := c.Bump()
		ok := false
		switch kind {
		case token.IntLit:
			ok = ch == 'u' || ch == 'U' || ch == 'l' || ch == 'L'
		case token.FloatLit:
			ok = ch == 'f' || ch == 'F' || ch == 'l' || ch == 'L'
		}
		if !ok {
			for isIdentContinue(c.Peek()) {
				c.Bump()
			}
			lx.report(diag.LexBadNumber, c.SpanFrom(start), "invalid suffix on numeric literal")
			break
		}
	}
	return token.Token{Kind: kind, Span: c.SpanFrom(start), Text: c.Text(start)}
}

func (lx *Lexer) eatDigits(digits func(byte) bool) {
	for {
		ch := lx.cursor.Peek()
		if digits(ch) || (ch == '\'' && digits(lx.cursor.At(1))) {
			lx.cursor.Bump()
			continue
		}
		return
	}
}

// hex and binary literals have no fractional part in the accepted subset.
func kindAllowsFraction(digits func(byte) bool) bool {
	return digits('9') && !digits('a')
}
