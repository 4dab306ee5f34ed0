package parser

import (
	"strings"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

// parseDeclaration parses one declaration. It may produce several decls
// ("struct A {} a;" yields the class and the variable) or none.
func (p *Parser) parseDeclaration(ctx declCtx) []ast.DeclID {
	tok := p.peek()
	switch tok.Kind {
	case token.Semicolon:
		p.advance()
		return nil
	case token.KwNamespace:
		if !p.opts.C {
			return p.parseNamespace()
		}
	case token.KwInline:
		if p.peekN(1).Kind == token.KwNamespace {
			p.advance()
			return p.parseNamespace()
		}
	case token.KwUsing:
		return p.parseUsing()
	case token.KwTemplate:
		return p.parseTemplate(ctx)
	case token.KwExtern:
		if p.peekN(1).Kind == token.StringLit {
			return p.parseLinkage(ctx)
		}
	case token.KwPublic, token.KwProtected, token.KwPrivate:
		if ctx == ctxClass && p.peekN(1).Kind == token.Colon {
			p.advance()
			p.advance()
			return []ast.DeclID{p.b.Decls.NewAccess(p.spanFrom(tok.Span), tok.Kind)}
		}
	case token.KwStaticAssert:
		p.resync()
		return nil
	case token.RBrace:
		p.err(diag.SynUnexpectedTopLevel, "unexpected '}'")
		p.advance()
		return nil
	}
	return p.parseSimpleDeclaration(ctx)
}

func (p *Parser) parseSimpleDeclaration(ctx declCtx) []ast.DeclID {
	start := p.peek().Span
	s := p.parseDeclSpecifiers(ctx)
	out := s.decls

	if p.at(token.Semicolon) {
		p.advance()
		if s.elabKey != token.Invalid && s.elabKey != token.KwEnum && !s.friend && !s.typedef {
			out = append(out, p.b.Decls.NewClass(p.spanFrom(start), ast.ClassDecl{
				Key:      s.elabKey,
				Name:     s.elabName.enc,
				NameSpan: s.elabName.span,
			}))
		}
		return out
	}
	if s.friend {
		// friends do not declare names in the enclosing scope
		p.skipFriend()
		return out
	}
	if !s.hasType && !s.ctorLike && !p.atNameStart() && !p.atAny(token.Star, token.Amp, token.LParen) {
		p.err(diag.SynExpectType, "expected declaration")
		p.resync()
		return out
	}

	first := p.parseDeclarator(ctx, false)
	if !first.hasName {
		p.resync()
		return out
	}
	if _, isFn := first.function(); isFn && !s.typedef && p.atAny(token.LBrace, token.Colon, token.KwTry) {
		return append(out, p.parseFunctionDefinition(start, s, &first))
	}

	var decls []ast.DeclaratorID
	decls = append(decls, p.finishInitDeclarator(ctx, s, &first))
	for p.eat(token.Comma) {
		d := p.parseDeclarator(ctx, false)
		if !d.hasName {
			break
		}
		decls = append(decls, p.finishInitDeclarator(ctx, s, &d))
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration"); !ok {
		p.resync()
	}
	sp := p.spanFrom(start)
	if s.typedef {
		return append(out, p.b.Decls.NewTypedef(sp, ast.TypedefDecl{Declarators: decls}))
	}
	return append(out, p.b.Decls.NewSimple(sp, ast.SimpleDecl{Storage: s.storage, Declarators: decls}))
}

func (p *Parser) skipFriend() {
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.LBrace:
			p.skipBalanced()
			p.eat(token.Semicolon)
			return
		default:
			p.skipBalanced()
		}
	}
}

// finishInitDeclarator parses what follows a declarator: a bit-field
// width, an initializer or a pure-specifier.
func (p *Parser) finishInitDeclarator(ctx declCtx, s specs, d *declInfo) ast.DeclaratorID {
	decl := p.declaratorFrom(s, d)
	if s.typedef && d.hasName {
		p.types[d.name.last] = true
	}
	switch {
	case ctx == ctxClass && p.at(token.Colon) && !decl.Function:
		p.advance()
		decl.BitField = p.parseConditional()
	case p.at(token.Assign):
		p.advance()
		switch tok := p.peek(); {
		case decl.Function && tok.Kind == token.IntLit && tok.Text == "0":
			p.advance()
			decl.PureVirtual = true
		case decl.Function && (tok.Kind == token.KwDefault || tok.Kind == token.KwDelete):
			p.advance()
		default:
			decl.Init = p.parseInitializer()
		}
	case p.at(token.LParen) && !decl.Function:
		lp := p.advance().Span
		args := p.parseExprList(token.RParen)
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after initializer")
		decl.Init = p.b.Exprs.NewInitList(p.spanFrom(lp), args)
	case p.at(token.LBrace) && !decl.Function:
		decl.Init = p.parseInitializer()
	}
	decl.Span = p.spanFrom(d.span)
	return p.b.Declarators.New(decl)
}

func (p *Parser) parseInitializer() ast.ExprID {
	if p.at(token.LBrace) {
		return p.parseBracedList()
	}
	return p.parseAssignment()
}

func (p *Parser) parseFunctionDefinition(start source.Span, s specs, d *declInfo) ast.DeclID {
	decl := p.declaratorFrom(s, d)
	decl.Span = d.span
	id := p.b.Declarators.New(decl)

	var inits []ast.ExprID
	tryBlock := p.eat(token.KwTry)
	if p.eat(token.Colon) {
		inits = p.parseMemInits()
	}
	body := p.parseBlock()
	if tryBlock {
		body = p.parseHandlers(body)
	}
	return p.b.Decls.NewFunction(p.spanFrom(start), ast.FunctionDecl{
		Storage:    s.storage,
		Declarator: id,
		MemInits:   inits,
		Body:       body,
	})
}

// parseMemInits parses "a(x), B<int>(y), c{z}" up to the function body.
func (p *Parser) parseMemInits() []ast.ExprID {
	var inits []ast.ExprID
	for p.atNameStart() {
		n, ok := p.parseName(true)
		if !ok {
			break
		}
		fn := p.b.Exprs.NewName(n.span, n.enc)
		var args []ast.ExprID
		switch {
		case p.eat(token.LParen):
			args = p.parseExprList(token.RParen)
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after member initializer")
		case p.at(token.LBrace):
			args = []ast.ExprID{p.parseBracedList()}
		default:
			p.err(diag.SynUnexpectedToken, "expected '(' in member initializer")
		}
		p.eat(token.Ellipsis)
		inits = append(inits, p.b.Exprs.NewCall(p.spanFrom(n.span), fn, args))
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.at(token.LBrace) {
		p.skipTo(token.LBrace)
	}
	return inits
}

func (p *Parser) parseNamespace() []ast.DeclID {
	start := p.advance().Span // namespace
	data := ast.NamespaceDecl{}
	if tok := p.peek(); tok.Kind == token.Ident {
		p.advance()
		if p.at(token.Assign) {
			return p.parseNamespaceAlias(start, tok)
		}
		data.Name = encoding.SimpleName(tok.Text)
		data.NameSpan = tok.Span
		// namespace a::b { }
		for p.at(token.ColonColon) && p.peekN(1).Kind == token.Ident {
			p.advance()
			inner := p.advance()
			data.Name = encoding.Qualified(data.Name, encoding.SimpleName(inner.Text))
			data.NameSpan = data.NameSpan.Cover(inner.Span)
		}
	} else {
		data.Name = encoding.AnonymousNamespace()
		data.NameSpan = start
		data.Anonymous = true
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after namespace name"); !ok {
		p.resync()
		return nil
	}
	data.Body = p.parseDeclarationsUntilBrace(ctxNamespace)
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close namespace")
	return []ast.DeclID{p.b.Decls.NewNamespace(p.spanFrom(start), data)}
}

func (p *Parser) parseDeclarationsUntilBrace(ctx declCtx) []ast.DeclID {
	var out []ast.DeclID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		out = append(out, p.parseDeclaration(ctx)...)
		if p.pos == before {
			p.advance()
		}
	}
	return out
}

func (p *Parser) parseNamespaceAlias(start source.Span, nameTok token.Token) []ast.DeclID {
	p.advance() // =
	target, ok := p.parseName(true)
	if !ok {
		p.resync()
		return nil
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after namespace alias")
	return []ast.DeclID{p.b.Decls.NewNamespaceAlias(p.spanFrom(start), ast.NamespaceAliasDecl{
		Name:       encoding.SimpleName(nameTok.Text),
		NameSpan:   nameTok.Span,
		Target:     target.enc,
		TargetSpan: target.span,
	})}
}

// parseUsing handles using-directives, using-declarations and alias declarations.
func (p *Parser) parseUsing() []ast.DeclID {
	start := p.advance().Span // using
	if p.eat(token.KwNamespace) {
		n, ok := p.parseName(true)
		if !ok {
			p.resync()
			return nil
		}
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after using-directive")
		return []ast.DeclID{p.b.Decls.NewUsingDirective(p.spanFrom(start), ast.UsingDirectiveDecl{Name: n.enc, NameSpan: n.span})}
	}
	if tok := p.peek(); tok.Kind == token.Ident && p.peekN(1).Kind == token.Assign {
		p.advance()
		p.advance()
		t := p.parseTypeID()
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after alias declaration")
		p.types[tok.Text] = true
		d := p.b.Declarators.New(ast.Declarator{
			Span:         tok.Span.Cover(t.span),
			Name:         encoding.SimpleName(tok.Text),
			NameSpan:     tok.Span,
			Type:         t.typ,
			TypeName:     t.typeName,
			TypeNameSpan: t.span,
		})
		return []ast.DeclID{p.b.Decls.NewTypedef(p.spanFrom(start), ast.TypedefDecl{Declarators: []ast.DeclaratorID{d}})}
	}
	typename := p.eat(token.KwTypename)
	n, ok := p.parseName(false)
	if !ok {
		p.resync()
		return nil
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after using-declaration")
	return []ast.DeclID{p.b.Decls.NewUsingDeclaration(p.spanFrom(start), ast.UsingDeclarationDecl{
		Name:     n.enc,
		NameSpan: n.span,
		Typename: typename,
	})}
}

func (p *Parser) parseLinkage(ctx declCtx) []ast.DeclID {
	start := p.advance().Span // extern
	lang := strings.Trim(p.advance().Text, `"`)
	data := ast.LinkageDecl{Language: lang}
	if p.eat(token.LBrace) {
		data.Body = p.parseDeclarationsUntilBrace(ctx)
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close linkage specification")
	} else {
		data.Body = p.parseDeclaration(ctx)
	}
	return []ast.DeclID{p.b.Decls.NewLinkage(p.spanFrom(start), data)}
}

// parseTemplate parses a template declaration. Explicit instantiations
// and specializations of class templates declare no new names.
func (p *Parser) parseTemplate(ctx declCtx) []ast.DeclID {
	start := p.advance().Span // template
	if !p.at(token.Lt) {
		// explicit instantiation
		p.parseDeclaration(ctx)
		return nil
	}
	p.advance()
	var params []ast.TemplateParam
	p.noGreater++
	for !p.atAny(token.Gt, token.Shr, token.EOF, token.LBrace, token.Semicolon) {
		before := p.pos
		params = append(params, p.parseTemplateParam())
		if p.pos == before {
			p.advance()
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.noGreater--
	p.expectClosingAngle()

	inner := p.parseDeclaration(ctx)
	if len(inner) == 0 {
		return nil
	}
	p.registerTemplate(inner[0])
	td := p.b.Decls.NewTemplate(p.spanFrom(start), ast.TemplateDecl{Params: params, Decl: inner[0]})
	return append([]ast.DeclID{td}, inner[1:]...)
}

func (p *Parser) registerTemplate(id ast.DeclID) {
	switch d := p.b.Decls.Get(id); d.Kind {
	case ast.DeclClass:
		c, _ := p.b.Decls.Class(id)
		if s, ok := c.Name.GetSymbol().Identifier(); ok {
			p.templates[s] = true
		}
	case ast.DeclSimple, ast.DeclFunction, ast.DeclTypedef:
		var decls []ast.DeclaratorID
		if fn, ok := p.b.Decls.Function(id); ok {
			decls = []ast.DeclaratorID{fn.Declarator}
		} else if sd, ok := p.b.Decls.Simple(id); ok {
			decls = sd.Declarators
		} else if td, ok := p.b.Decls.Typedef(id); ok {
			decls = td.Declarators
		}
		for _, di := range decls {
			if s, ok := p.b.Declarators.Get(di).Name.GetSymbol().Identifier(); ok {
				p.templates[s] = true
			}
		}
	}
}

func (p *Parser) parseTemplateParam() ast.TemplateParam {
	tok := p.peek()
	switch {
	case tok.Kind == token.KwTemplate:
		p.advance()
		if p.at(token.Lt) {
			p.advance()
			p.noGreater++
			for !p.atAny(token.Gt, token.Shr, token.EOF, token.LBrace, token.Semicolon) {
				before := p.pos
				p.parseTemplateParam()
				if p.pos == before {
					p.advance()
				}
				if !p.eat(token.Comma) {
					break
				}
			}
			p.noGreater--
			p.expectClosingAngle()
		}
		if p.at(token.KwClass) || p.at(token.KwTypename) {
			p.advance()
		}
		p.eat(token.Ellipsis)
		param := ast.TemplateParam{Kind: ast.TemplateTemplateParam, Span: tok.Span}
		if id := p.peek(); id.Kind == token.Ident {
			p.advance()
			param.Name = encoding.SimpleName(id.Text)
			param.Span = id.Span
			p.templates[id.Text] = true
			p.types[id.Text] = true
		}
		if p.eat(token.Assign) {
			if n, ok := p.parseName(true); ok {
				param.DefaultType = n.enc
			}
		}
		return param
	case (tok.Kind == token.KwClass || tok.Kind == token.KwTypename) &&
		(p.peekN(1).Kind == token.Ident || p.peekN(1).Kind == token.Comma ||
			p.peekN(1).Kind == token.Gt || p.peekN(1).Kind == token.Assign || p.peekN(1).Kind == token.Ellipsis) &&
		!(p.peekN(1).Kind == token.Ident && p.peekN(2).Kind == token.ColonColon):
		p.advance()
		p.eat(token.Ellipsis)
		param := ast.TemplateParam{Kind: ast.TemplateTypeParam, Span: tok.Span}
		if id := p.peek(); id.Kind == token.Ident {
			p.advance()
			param.Name = encoding.SimpleName(id.Text)
			param.Span = id.Span
			p.types[id.Text] = true
		}
		if p.eat(token.Assign) {
			param.DefaultType = p.parseTypeID().typ
		}
		return param
	}
	s := p.parseDeclSpecifiers(ctxParam)
	d := p.parseDeclarator(ctxParam, true)
	param := ast.TemplateParam{Kind: ast.TemplateValueParam, Span: d.span, Type: d.apply(p, s.typ)}
	if d.hasName {
		param.Name = d.name.enc
		param.Span = d.name.span
	}
	if p.eat(token.Assign) {
		param.Default = p.parseConditional()
	}
	return param
}
