package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch < utf8.RuneSelf {
			if !isIdentContinue(ch) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		if r == utf8.RuneError || !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)) {
			break
		}
		ascii = false
		lx.cursor.Off += uint32(size) //nolint:gosec // size <= 4
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.cursor.Text(start)
	if !ascii {
		// одинаковые имена в разных нормальных формах должны совпадать
		text = norm.NFC.String(text)
	}
	if kind, ok := token.LookupKeyword(text, !lx.opts.C); ok {
		return token.Token{Kind: kind, Span: sp, Text: text}
	}
	if len(text) > encoding.MaxNameLen {
		lx.report(diag.LexNameTooLong, sp, fmt.Sprintf("identifier is %d bytes long, names are limited to %d", len(text), encoding.MaxNameLen))
	}
	if in := lx.opts.Interner; in != nil {
		text = in.MustLookup(in.Intern(text))
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanUnicode handles a non-ASCII byte outside an identifier.
func (lx *Lexer) scanUnicode() (token.Token, bool) {
	r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	if r != utf8.RuneError && unicode.IsLetter(r) {
		return lx.scanIdentOrKeyword(), true
	}
	start := lx.cursor.Mark()
	if size == 0 {
		size = 1
	}
	lx.cursor.Off += uint32(size) //nolint:gosec // size <= 4
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnknownChar, sp, "unexpected character in source")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Text(start)}, false
}

// scanPrefixedLiteral recognises L"..", u8"..", u'..' and friends.
func (lx *Lexer) scanPrefixedLiteral() (token.Token, bool) {
	start := lx.cursor.Mark()
	n := uint32(0)
	switch lx.cursor.Peek() {
	case 'L', 'U':
		n = 1
	case 'u':
		n = 1
		if lx.cursor.At(1) == '8' {
			n = 2
		}
	default:
		return token.Token{}, false
	}
	switch lx.cursor.At(n) {
	case '"':
		lx.cursor.Off += n
		return lx.scanString(start), true
	case '\'':
		lx.cursor.Off += n
		return lx.scanChar(start), true
	}
	return token.Token{}, false
}
