package parser

import "cxxscope/internal/token"

func (p *Parser) tok(i int) token.Token {
	if i < 0 || i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// scanName returns the index just past the name starting at i, or -1.
// lastIdent is the final identifier spelling.
func (p *Parser) scanName(i int, typeCtx bool) (end int, lastIdent string) {
	if p.tok(i).Kind == token.ColonColon {
		i++
	}
	for {
		if p.tok(i).Kind == token.KwTemplate {
			i++
		}
		switch t := p.tok(i); t.Kind {
		case token.Ident:
			lastIdent = t.Text
			i++
			if p.tok(i).Kind == token.Lt && (typeCtx || p.templates[t.Text]) {
				j := p.skipAngles(i)
				if j < 0 {
					return -1, ""
				}
				i = j
			}
		case token.Tilde:
			if p.tok(i+1).Kind != token.Ident {
				return -1, ""
			}
			lastIdent = "~" + p.tok(i+1).Text
			i += 2
		default:
			return -1, ""
		}
		if p.tok(i).Kind == token.ColonColon {
			switch p.tok(i + 1).Kind {
			case token.Ident, token.Tilde, token.KwTemplate:
				i++
				continue
			}
		}
		return i, lastIdent
	}
}

// skipAngles returns the index after the '>' matching the '<' at i, or -1.
func (p *Parser) skipAngles(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		case token.Shr:
			depth -= 2
		case token.LParen, token.LBracket:
			j := p.skipParens(i)
			if j < 0 {
				return -1
			}
			i = j - 1
		case token.Semicolon, token.LBrace, token.RBrace, token.EOF, token.AndAnd, token.OrOr:
			return -1
		}
		if depth <= 0 {
			if depth < 0 {
				// '>>' closed an outer list as well; treat the inner list as complete
				return i
			}
			return i + 1
		}
	}
	return -1
}

// skipParens returns the index after the bracket group opened at i.
func (p *Parser) skipParens(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
			if depth == 0 {
				return i + 1
			}
		case token.Semicolon, token.LBrace, token.RBrace, token.EOF:
			return -1
		}
	}
	return -1
}

func (p *Parser) isTypeName(ident string) bool {
	return p.types[ident] || p.templates[ident]
}

func startsTypeSpecifier(k token.Kind) bool {
	switch k {
	case token.KwClass, token.KwStruct, token.KwUnion, token.KwEnum, token.KwTypename:
		return true
	}
	return k.IsBuiltinType() || k.IsCVQualifier()
}

// looksLikeTypeID guesses whether a type-id starts at the current token.
// Unknown single names in template arguments are taken as types.
func (p *Parser) looksLikeTypeID(templateArg bool) bool {
	t := p.peek()
	if startsTypeSpecifier(t.Kind) {
		return true
	}
	if t.Kind != token.Ident && t.Kind != token.ColonColon {
		return false
	}
	end, last := p.scanName(p.pos, templateArg)
	if end < 0 {
		return false
	}
	if p.isTypeName(last) {
		return true
	}
	if !templateArg {
		return false
	}
	switch p.tok(end).Kind {
	case token.Comma, token.Gt, token.Shr, token.Star, token.Amp, token.AndAnd:
		return true
	}
	return false
}

// isDeclarationStart decides between a declaration and an expression statement.
func (p *Parser) isDeclarationStart() bool {
	t := p.peek()
	switch t.Kind {
	case token.KwTypedef, token.KwUsing, token.KwNamespace, token.KwTemplate, token.KwStaticAssert,
		token.KwStatic, token.KwExtern, token.KwInline, token.KwRegister, token.KwMutable,
		token.KwConstexpr, token.KwVirtual, token.KwFriend, token.KwExplicit:
		return true
	}
	if startsTypeSpecifier(t.Kind) {
		return true
	}
	if t.Kind != token.Ident && t.Kind != token.ColonColon {
		return false
	}
	if p.peekN(1).Kind == token.Colon {
		return false // label
	}
	end, last := p.scanName(p.pos, false)
	if end < 0 {
		return false
	}
	if p.tok(end).Kind == token.Lt && !p.templates[last] {
		// vector<int> v;
		j := p.skipAngles(end)
		if j < 0 {
			return false
		}
		switch p.tok(j).Kind {
		case token.Ident:
			return true
		case token.ColonColon:
			if e2, _ := p.scanName(j+1, true); e2 > 0 && p.tok(e2).Kind == token.Ident {
				return true
			}
		case token.Star, token.Amp:
			return p.tok(j+1).Kind == token.Ident
		}
		return false
	}
	next := p.tok(end)
	if p.isTypeName(last) {
		switch next.Kind {
		case token.Ident, token.Star, token.Amp, token.AndAnd, token.KwConst, token.KwVolatile:
			return true
		case token.LParen:
			// T (*fp)(int);
			k := p.tok(end + 1).Kind
			return k == token.Star || k == token.Amp
		}
		return false
	}
	switch next.Kind {
	case token.Ident, token.KwConst, token.KwVolatile:
		return true
	case token.Star, token.Amp, token.AndAnd:
		if p.tok(end+1).Kind != token.Ident {
			return false
		}
		switch p.tok(end + 2).Kind {
		case token.Semicolon, token.Assign, token.Comma, token.LBracket:
			return true
		}
	}
	return false
}

// looksLikeParams decides whether the '(' at the current token opens a
// parameter list rather than a direct initializer.
func (p *Parser) looksLikeParams(ctx declCtx) bool {
	t := p.peekN(1)
	switch t.Kind {
	case token.RParen, token.Ellipsis:
		return true
	case token.KwRegister, token.KwConst, token.KwVolatile:
		return true
	}
	if startsTypeSpecifier(t.Kind) {
		return true
	}
	if t.Kind != token.Ident && t.Kind != token.ColonColon {
		return false
	}
	end, last := p.scanName(p.pos+1, true)
	if end < 0 {
		return false
	}
	if p.isTypeName(last) {
		return true
	}
	next := p.tok(end)
	if next.Kind == token.Ident {
		return true
	}
	if ctx == ctxBlock {
		return false
	}
	switch next.Kind {
	case token.Comma, token.RParen:
		return true
	case token.Star, token.Amp, token.AndAnd:
		switch p.tok(end + 1).Kind {
		case token.Ident, token.Comma, token.RParen:
			return true
		}
	}
	return false
}
