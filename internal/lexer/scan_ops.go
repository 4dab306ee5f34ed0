package lexer

import (
	"unicode/utf8"

	"cxxscope/internal/diag"
	"cxxscope/internal/token"
)

// longest spellings first
var puncts = []struct {
	text string
	kind token.Kind
}{
	{"->*", token.ArrowStar}, {"<<=", token.ShlAssign}, {">>=", token.ShrAssign}, {"...", token.Ellipsis},
	{"::", token.ColonColon}, {"->", token.Arrow}, {".*", token.DotStar},
	{"++", token.PlusPlus}, {"--", token.MinusMinus}, {"<<", token.Shl}, {">>", token.Shr},
	{"<=", token.LtEq}, {">=", token.GtEq}, {"==", token.EqEq}, {"!=", token.BangEq},
	{"&&", token.AndAnd}, {"||", token.OrOr}, {"+=", token.PlusAssign}, {"-=", token.MinusAssign},
	{"*=", token.StarAssign}, {"/=", token.SlashAssign}, {"%=", token.PercentAssign},
	{"&=", token.AmpAssign}, {"|=", token.PipeAssign}, {"^=", token.CaretAssign},
	{"+", token.Plus}, {"-", token.Minus}, {"*", token.Star}, {"/", token.Slash}, {"%", token.Percent},
	{"=", token.Assign}, {"!", token.Bang}, {"<", token.Lt}, {">", token.Gt}, {"&", token.Amp},
	{"|", token.Pipe}, {"^", token.Caret}, {"~", token.Tilde}, {"?", token.Question},
	{":", token.Colon}, {";", token.Semicolon}, {",", token.Comma}, {".", token.Dot},
	{"(", token.LParen}, {")", token.RParen}, {"{", token.LBrace}, {"}", token.RBrace},
	{"[", token.LBracket}, {"]", token.RBracket},
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	rest := lx.file.Content[lx.cursor.Off:]
	for _, p := range puncts {
		if len(rest) >= len(p.text) && string(rest[:len(p.text)]) == p.text {
			lx.cursor.Off += uint32(len(p.text)) //nolint:gosec // at most 3
			return token.Token{Kind: p.kind, Span: lx.cursor.SpanFrom(start), Text: p.text}
		}
	}
	if rest[0] >= utf8.RuneSelf {
		tok, _ := lx.scanUnicode()
		return tok
	}
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnknownChar, sp, "unexpected character '"+lx.cursor.Text(start)+"'")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Text(start)}
}
