package parser

import (
	"strings"

	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

// name is a parsed, possibly qualified, id-expression.
type name struct {
	enc  encoding.Encoding
	span source.Span
	// last is the spelling of the final identifier ("~A" for destructors).
	last  string
	parts int
}

func (n name) prev() string {
	comps := n.enc.Components()
	if len(comps) < 2 {
		return ""
	}
	s, _ := comps[len(comps)-2].Identifier()
	return s
}

func (p *Parser) atNameStart() bool {
	switch p.peek().Kind {
	case token.Ident, token.ColonColon, token.KwOperator:
		return true
	case token.Tilde:
		return p.peekN(1).Kind == token.Ident
	}
	return false
}

// parseName parses [::] component {:: component}. In a type context '<'
// after an identifier always opens template arguments; elsewhere only for
// names known to be templates.
func (p *Parser) parseName(typeCtx bool) (name, bool) {
	start := p.peek().Span
	var comps []encoding.Encoding
	var last string
	if p.eat(token.ColonColon) {
		comps = append(comps, encoding.Global)
	}
	for {
		p.eat(token.KwTemplate) // A::template B<T>
		comp, spelling, ok := p.parseNameComponent(typeCtx)
		if !ok {
			p.err(diag.SynExpectIdentifier, "expected name")
			return name{}, false
		}
		comps = append(comps, comp)
		last = spelling
		if !p.at(token.ColonColon) {
			break
		}
		switch p.peekN(1).Kind {
		case token.Ident, token.Tilde, token.KwOperator, token.KwTemplate:
			p.advance()
			continue
		}
		break
	}
	return name{enc: encoding.Qualified(comps...), span: p.spanFrom(start), last: last, parts: len(comps)}, true
}

func (p *Parser) parseNameComponent(typeCtx bool) (encoding.Encoding, string, bool) {
	switch tok := p.peek(); tok.Kind {
	case token.Ident:
		p.advance()
		if p.at(token.Lt) && (typeCtx || p.templates[tok.Text]) {
			args := p.parseTemplateArgs()
			return encoding.Template(tok.Text, args...), tok.Text, true
		}
		return encoding.SimpleName(tok.Text), tok.Text, true
	case token.Tilde:
		p.advance()
		id, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected class name after '~'")
		if !ok {
			return "", "", false
		}
		return encoding.SimpleName("~" + id.Text), "~" + id.Text, true
	case token.KwOperator:
		p.advance()
		op := p.parseOperatorName()
		return encoding.SimpleName(op), op, true
	}
	return "", "", false
}

func (p *Parser) parseOperatorName() string {
	tok := p.peek()
	switch {
	case tok.Kind == token.LParen && p.peekN(1).Kind == token.RParen:
		p.pos += 2
		return "operator()"
	case tok.Kind == token.LBracket && p.peekN(1).Kind == token.RBracket:
		p.pos += 2
		return "operator[]"
	case tok.Kind == token.KwNew || tok.Kind == token.KwDelete:
		p.advance()
		if p.at(token.LBracket) && p.peekN(1).Kind == token.RBracket {
			p.pos += 2
			return "operator " + tok.Text + "[]"
		}
		return "operator " + tok.Text
	case tok.Kind.IsPunct():
		p.advance()
		return "operator" + tok.Text
	}
	// conversion function
	t := p.parseTypeID()
	return "operator " + t.typ.Unmangled()
}

// parseTemplateArgs parses <arg, ...>; the current token is '<'.
func (p *Parser) parseTemplateArgs() []encoding.Encoding {
	p.advance()
	var args []encoding.Encoding
	p.noGreater++
	defer func() { p.noGreater-- }()
	for !p.atAny(token.Gt, token.Shr, token.GtEq, token.ShrAssign, token.EOF, token.Semicolon) {
		before := p.pos
		if p.looksLikeTypeID(true) {
			t := p.parseTypeID()
			args = append(args, t.typ)
		} else {
			startPos := p.pos
			p.parseAssignment()
			args = append(args, encoding.ValueArg(p.textFrom(startPos)))
		}
		if p.pos == before {
			p.advance()
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectClosingAngle()
	return args
}

// textFrom joins the spellings of tokens consumed since startPos.
func (p *Parser) textFrom(startPos int) string {
	var sb strings.Builder
	for i := startPos; i < p.pos && i < len(p.toks); i++ {
		if i > startPos && needsSpace(p.toks[i-1], p.toks[i]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.toks[i].Text)
	}
	return sb.String()
}

func needsSpace(a, b token.Token) bool {
	word := func(k token.Kind) bool {
		return k == token.Ident || k.IsKeyword() || k == token.IntLit || k == token.FloatLit
	}
	return word(a.Kind) && word(b.Kind)
}
