package parser

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/token"
)

var binaryPrec = map[token.Kind]int{
	token.OrOr:      1,
	token.AndAnd:    2,
	token.Pipe:      3,
	token.Caret:     4,
	token.Amp:       5,
	token.EqEq:      6,
	token.BangEq:    6,
	token.Lt:        7,
	token.LtEq:      7,
	token.Gt:        7,
	token.GtEq:      7,
	token.Shl:       8,
	token.Shr:       8,
	token.Plus:      9,
	token.Minus:     9,
	token.Star:      10,
	token.Slash:     10,
	token.Percent:   10,
	token.DotStar:   11,
	token.ArrowStar: 11,
}

func isAssignOp(k token.Kind) bool {
	switch k {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign,
		token.PercentAssign, token.AmpAssign, token.PipeAssign, token.CaretAssign, token.ShlAssign, token.ShrAssign:
		return true
	}
	return false
}

// parseExpr parses a full expression including the comma operator.
func (p *Parser) parseExpr() ast.ExprID {
	start := p.peek().Span
	x := p.parseAssignment()
	for p.noGreater == 0 && p.at(token.Comma) && x.IsValid() {
		p.advance()
		y := p.parseAssignment()
		x = p.b.Exprs.NewBinary(p.spanFrom(start), token.Comma, x, y)
	}
	return x
}

// parseExprOrList accepts a braced list where a value is expected.
func (p *Parser) parseExprOrList() ast.ExprID {
	if p.at(token.LBrace) {
		return p.parseBracedList()
	}
	return p.parseExpr()
}

func (p *Parser) parseAssignment() ast.ExprID {
	start := p.peek().Span
	if p.at(token.KwThrow) {
		p.advance()
		var x ast.ExprID
		if !p.atAny(token.Semicolon, token.RParen, token.Comma, token.Colon) {
			x = p.parseAssignment()
		}
		return p.b.Exprs.NewUnary(p.spanFrom(start), token.KwThrow, x, false)
	}
	x := p.parseConditional()
	if op := p.peek().Kind; isAssignOp(op) && !(p.noGreater > 0 && op == token.ShrAssign) {
		p.advance()
		y := p.parseInitializer()
		return p.b.Exprs.NewBinary(p.spanFrom(start), op, x, y)
	}
	return x
}

func (p *Parser) parseConditional() ast.ExprID {
	start := p.peek().Span
	c := p.parseBinary(1)
	if !p.at(token.Question) {
		return c
	}
	p.advance()
	saved := p.noGreater
	p.noGreater = 0
	then := p.parseExpr()
	p.noGreater = saved
	p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression")
	els := p.parseAssignment()
	return p.b.Exprs.NewCond(p.spanFrom(start), c, then, els)
}

func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	start := p.peek().Span
	x := p.parseUnary()
	for {
		op := p.peek().Kind
		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			return x
		}
		if p.noGreater > 0 && (op == token.Gt || op == token.Shr) {
			return x
		}
		p.advance()
		y := p.parseBinary(prec + 1)
		x = p.b.Exprs.NewBinary(p.spanFrom(start), op, x, y)
	}
}

func (p *Parser) parseUnary() ast.ExprID {
	tok := p.peek()
	start := tok.Span
	switch tok.Kind {
	case token.Plus, token.Minus, token.Bang, token.Tilde, token.Star, token.Amp,
		token.PlusPlus, token.MinusMinus:
		p.advance()
		x := p.parseUnary()
		return p.b.Exprs.NewUnary(p.spanFrom(start), tok.Kind, x, false)
	case token.KwSizeof:
		return p.parseSizeof()
	case token.KwNew:
		return p.parseNew()
	case token.ColonColon:
		if k := p.peekN(1).Kind; k == token.KwNew {
			p.advance()
			return p.parseNew()
		} else if k == token.KwDelete {
			p.advance()
			return p.parseUnary()
		}
	case token.KwDelete:
		p.advance()
		if p.at(token.LBracket) && p.peekN(1).Kind == token.RBracket {
			p.advance()
			p.advance()
		}
		x := p.parseUnary()
		return p.b.Exprs.NewUnary(p.spanFrom(start), token.KwDelete, x, false)
	case token.LParen:
		if cast, ok := p.tryCast(); ok {
			return cast
		}
	}
	return p.parsePostfix()
}

// tryCast parses "(type-id) unary-expression" when the parenthesised
// tokens are a known type.
func (p *Parser) tryCast() (ast.ExprID, bool) {
	start := p.peek().Span
	var t typeID
	ok := p.tentative(func() bool {
		p.advance()
		if !p.looksLikeTypeID(false) {
			return false
		}
		t = p.parseTypeID()
		if !p.eat(token.RParen) {
			return false
		}
		return p.startsOperand()
	})
	if !ok {
		return ast.NoExprID, false
	}
	var arg ast.ExprID
	if p.at(token.LBrace) {
		arg = p.parseBracedList()
	} else {
		arg = p.parseUnary()
	}
	return p.b.Exprs.NewCast(p.spanFrom(start), ast.CastData{
		Type:     t.typ,
		TypeName: t.typeName,
		TypeSpan: t.span,
		Args:     []ast.ExprID{arg},
	}), true
}

// startsOperand reports tokens that can begin a unary expression.
func (p *Parser) startsOperand() bool {
	switch k := p.peek().Kind; {
	case k.IsLiteral(), k == token.Ident, k == token.ColonColon, k == token.LParen,
		k == token.KwThis, k == token.KwSizeof, k == token.KwNew, k == token.KwDelete,
		k == token.Bang, k == token.Tilde, k == token.Minus, k == token.Plus, k == token.Star,
		k == token.Amp, k == token.PlusPlus, k == token.MinusMinus, k == token.LBrace,
		k.IsBuiltinType():
		return true
	}
	return false
}

func (p *Parser) parseSizeof() ast.ExprID {
	start := p.advance().Span // sizeof
	if p.eat(token.Ellipsis) {
		// sizeof...(Pack)
		p.skipBalanced()
		return p.b.Exprs.NewSizeof(p.spanFrom(start), ast.SizeofData{})
	}
	var t typeID
	if p.tentative(func() bool {
		if !p.eat(token.LParen) || !p.looksLikeTypeID(false) {
			return false
		}
		t = p.parseTypeID()
		return p.eat(token.RParen)
	}) {
		return p.b.Exprs.NewSizeof(p.spanFrom(start), ast.SizeofData{Type: t.typ, TypeSpan: t.span})
	}
	x := p.parseUnary()
	return p.b.Exprs.NewSizeof(p.spanFrom(start), ast.SizeofData{X: x})
}

func (p *Parser) parseNew() ast.ExprID {
	start := p.advance().Span // new
	var args []ast.ExprID
	if p.at(token.LParen) && !p.parenTypeAhead() {
		// placement arguments
		p.advance()
		args = p.parseExprList(token.RParen)
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after placement arguments")
	}
	var t typeID
	if p.at(token.LParen) {
		p.advance()
		t = p.parseTypeID()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	} else {
		tstart := p.peek().Span
		s := p.parseDeclSpecifiers(ctxType)
		ops := p.parsePtrOps()
		d := declInfo{ops: ops}
		for p.at(token.LBracket) {
			op := p.parseArraySuffix()
			if op.boundExpr.IsValid() {
				args = append(args, op.boundExpr)
			}
			d.ops = append(d.ops, typeOp{kind: opPointer})
		}
		t = typeID{typ: d.apply(p, s.typ), typeName: s.typeName, span: p.spanFrom(tstart)}
	}
	switch {
	case p.at(token.LParen):
		p.advance()
		args = append(args, p.parseExprList(token.RParen)...)
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after new initializer")
	case p.at(token.LBrace):
		args = append(args, p.parseBracedList())
	}
	return p.b.Exprs.NewNew(p.spanFrom(start), ast.NewData{
		Type:     t.typ,
		TypeName: t.typeName,
		TypeSpan: t.span,
		Args:     args,
	})
}

// parenTypeAhead reports "(type-id)" at the current token.
func (p *Parser) parenTypeAhead() bool {
	return p.lookahead(func() bool {
		p.advance()
		if !p.looksLikeTypeID(false) {
			return false
		}
		p.parseTypeID()
		return p.at(token.RParen)
	})
}

func (p *Parser) parsePostfix() ast.ExprID {
	start := p.peek().Span
	x := p.parsePrimary()
	if !x.IsValid() {
		return x
	}
	for {
		switch tok := p.peek(); tok.Kind {
		case token.LParen:
			p.advance()
			args := p.parseExprList(token.RParen)
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments")
			x = p.b.Exprs.NewCall(p.spanFrom(start), x, args)
		case token.LBracket:
			p.advance()
			saved := p.noGreater
			p.noGreater = 0
			idx := p.parseExpr()
			p.noGreater = saved
			p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
			x = p.b.Exprs.NewIndex(p.spanFrom(start), x, idx)
		case token.Dot, token.Arrow:
			p.advance()
			p.eat(token.KwTemplate)
			n, ok := p.parseName(false)
			if !ok {
				return x
			}
			x = p.b.Exprs.NewMember(p.spanFrom(start), ast.MemberData{
				X:        x,
				Arrow:    tok.Kind == token.Arrow,
				Name:     n.enc,
				NameSpan: n.span,
			})
		case token.PlusPlus, token.MinusMinus:
			p.advance()
			x = p.b.Exprs.NewUnary(p.spanFrom(start), tok.Kind, x, true)
		default:
			return x
		}
	}
}

var namedCasts = map[string]bool{
	"static_cast":      true,
	"dynamic_cast":     true,
	"const_cast":       true,
	"reinterpret_cast": true,
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.peek()
	start := tok.Span
	switch {
	case tok.Kind == token.StringLit:
		text := tok.Text
		p.advance()
		for p.at(token.StringLit) {
			text += p.advance().Text
		}
		return p.b.Exprs.NewLiteral(p.spanFrom(start), token.StringLit, text)
	case tok.Kind.IsLiteral():
		p.advance()
		return p.b.Exprs.NewLiteral(start, tok.Kind, tok.Text)
	case tok.Kind == token.KwThis:
		p.advance()
		return p.b.Exprs.NewThis(start)
	case tok.Kind == token.LParen:
		p.advance()
		saved := p.noGreater
		p.noGreater = 0
		x := p.parseExprOrList()
		p.noGreater = saved
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		return p.b.Exprs.NewParen(p.spanFrom(start), x)
	case tok.Kind == token.LBrace:
		return p.parseBracedList()
	case tok.Kind.IsBuiltinType() || tok.Kind == token.KwTypename:
		return p.parseFunctionalCast()
	case tok.Kind == token.Ident && namedCasts[tok.Text] && p.peekN(1).Kind == token.Lt:
		p.advance()
		p.advance()
		p.noGreater++
		t := p.parseTypeID()
		p.noGreater--
		p.expectClosingAngle()
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after cast type")
		x := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		return p.b.Exprs.NewCast(p.spanFrom(start), ast.CastData{
			Type:     t.typ,
			TypeName: t.typeName,
			TypeSpan: t.span,
			Args:     []ast.ExprID{x},
		})
	case p.atNameStart():
		n, ok := p.parseName(false)
		if !ok {
			return ast.NoExprID
		}
		return p.b.Exprs.NewName(n.span, n.enc)
	case tok.Kind == token.LBracket:
		return p.skipLambda()
	}
	p.err(diag.SynExpectExpression, "expected expression")
	return ast.NoExprID
}

// parseFunctionalCast parses int(x), unsigned{x} and typename T::type(x).
func (p *Parser) parseFunctionalCast() ast.ExprID {
	start := p.peek().Span
	s := p.parseDeclSpecifiers(ctxType)
	data := ast.CastData{Type: s.typ, TypeName: s.typeName, TypeSpan: p.spanFrom(start), Functional: true}
	switch {
	case p.eat(token.LParen):
		data.Args = p.parseExprList(token.RParen)
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	case p.at(token.LBrace):
		data.Args = []ast.ExprID{p.parseBracedList()}
	default:
		p.err(diag.SynUnexpectedToken, "expected '(' after type in expression")
	}
	return p.b.Exprs.NewCast(p.spanFrom(start), data)
}

// skipLambda consumes a lambda expression; its body introduces no names
// visible outside.
func (p *Parser) skipLambda() ast.ExprID {
	start := p.peek().Span
	p.skipBalanced()
	if p.at(token.LParen) {
		p.skipBalanced()
	}
	var op typeOp
	p.parseFunctionQualifiers(&op)
	if p.at(token.LBrace) {
		p.skipBalanced()
	}
	return p.b.Exprs.NewLiteral(p.spanFrom(start), token.Invalid, "<lambda>")
}

func (p *Parser) parseBracedList() ast.ExprID {
	start := p.advance().Span // {
	saved := p.noGreater
	p.noGreater = 0
	elems := p.parseExprList(token.RBrace)
	p.noGreater = saved
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close initializer list")
	return p.b.Exprs.NewInitList(p.spanFrom(start), elems)
}

// parseExprList parses comma-separated initializer clauses up to closer,
// which is left for the caller.
func (p *Parser) parseExprList(closer token.Kind) []ast.ExprID {
	var out []ast.ExprID
	saved := p.noGreater
	p.noGreater = 0
	defer func() { p.noGreater = saved }()
	for !p.at(closer) && !p.at(token.EOF) {
		if p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
			// designated initializer
			p.advance()
			p.advance()
			p.eat(token.Assign)
		}
		before := p.pos
		x := p.parseInitializer()
		p.eat(token.Ellipsis)
		if x.IsValid() {
			out = append(out, x)
		}
		if p.pos == before {
			p.skipBalanced()
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return out
}
