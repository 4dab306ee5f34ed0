package parser

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/token"
)

func (p *Parser) parseBlock() ast.StmtID {
	start := p.peek().Span
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		p.resync()
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtBlock, Span: start})
	}
	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		if st := p.parseStatement(); st.IsValid() {
			stmts = append(stmts, st)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtBlock, Span: p.spanFrom(start), Stmts: stmts})
}

func (p *Parser) parseStatement() ast.StmtID {
	tok := p.peek()
	start := tok.Span
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtEmpty, Span: start})
	case token.KwIf:
		p.advance()
		st := ast.Stmt{Kind: ast.StmtIf}
		st.Init, st.X = p.parseParenCondition()
		st.Then = p.parseStatement()
		if p.eat(token.KwElse) {
			st.Else = p.parseStatement()
		}
		st.Span = p.spanFrom(start)
		return p.b.Stmts.New(st)
	case token.KwWhile:
		p.advance()
		st := ast.Stmt{Kind: ast.StmtWhile}
		st.Init, st.X = p.parseParenCondition()
		st.Then = p.parseStatement()
		st.Span = p.spanFrom(start)
		return p.b.Stmts.New(st)
	case token.KwSwitch:
		p.advance()
		st := ast.Stmt{Kind: ast.StmtSwitch}
		st.Init, st.X = p.parseParenCondition()
		st.Then = p.parseStatement()
		st.Span = p.spanFrom(start)
		return p.b.Stmts.New(st)
	case token.KwDo:
		p.advance()
		st := ast.Stmt{Kind: ast.StmtDo}
		st.Then = p.parseStatement()
		p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body")
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
		st.X = p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		p.expectSemicolon()
		st.Span = p.spanFrom(start)
		return p.b.Stmts.New(st)
	case token.KwFor:
		return p.parseFor()
	case token.KwCase:
		p.advance()
		x := p.parseConditional()
		p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case value")
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtCase, Span: p.spanFrom(start), X: x})
	case token.KwDefault:
		p.advance()
		p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after default")
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtDefault, Span: p.spanFrom(start)})
	case token.KwBreak, token.KwContinue:
		p.advance()
		p.expectSemicolon()
		kind := ast.StmtBreak
		if tok.Kind == token.KwContinue {
			kind = ast.StmtContinue
		}
		return p.b.Stmts.New(ast.Stmt{Kind: kind, Span: p.spanFrom(start)})
	case token.KwReturn:
		p.advance()
		st := ast.Stmt{Kind: ast.StmtReturn}
		if !p.at(token.Semicolon) {
			st.X = p.parseExprOrList()
		}
		p.expectSemicolon()
		st.Span = p.spanFrom(start)
		return p.b.Stmts.New(st)
	case token.KwGoto:
		p.advance()
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected label")
		p.expectSemicolon()
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtEmpty, Span: p.spanFrom(start)})
	case token.KwTry:
		p.advance()
		return p.parseHandlers(p.parseBlock())
	case token.Ident:
		if p.peekN(1).Kind == token.Colon {
			// label
			p.advance()
			p.advance()
			return p.parseStatement()
		}
	}
	if p.isDeclarationStart() {
		decls := p.parseDeclaration(ctxBlock)
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtDecl, Span: p.spanFrom(start), Decls: decls})
	}
	x := p.parseExpr()
	if !x.IsValid() {
		p.resync()
		return ast.NoStmtID
	}
	p.expectSemicolon()
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtExpr, Span: p.spanFrom(start), X: x})
}

func (p *Parser) expectSemicolon() {
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'"); !ok {
		p.resync()
	}
}

// parseParenCondition parses "( condition )" where the condition may declare
// a variable: if (T* x = f()).
func (p *Parser) parseParenCondition() (ast.StmtID, ast.ExprID) {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	var init ast.StmtID
	var x ast.ExprID
	if p.isDeclarationStart() {
		init = p.parseConditionDecl(false)
	} else {
		x = p.parseExpr()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after condition"); !ok {
		p.skipTo(token.RParen)
		p.eat(token.RParen)
	}
	return init, x
}

// parseConditionDecl parses a declaration without the trailing ';'. Only a
// for-init takes several declarators.
func (p *Parser) parseConditionDecl(multi bool) ast.StmtID {
	start := p.peek().Span
	s := p.parseDeclSpecifiers(ctxBlock)
	var ids []ast.DeclaratorID
	for {
		d := p.parseDeclarator(ctxBlock, false)
		decl := p.declaratorFrom(s, &d)
		if p.eat(token.Assign) {
			decl.Init = p.parseInitializer()
		} else if p.at(token.LBrace) {
			decl.Init = p.parseBracedList()
		}
		decl.Span = p.spanFrom(d.span)
		ids = append(ids, p.b.Declarators.New(decl))
		if !multi || !p.eat(token.Comma) {
			break
		}
	}
	decls := append([]ast.DeclID(nil), s.decls...)
	decls = append(decls, p.b.Decls.NewSimple(p.spanFrom(start), ast.SimpleDecl{Storage: s.storage, Declarators: ids}))
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtDecl, Span: p.spanFrom(start), Decls: decls})
}

func (p *Parser) parseFor() ast.StmtID {
	start := p.advance().Span // for
	st := ast.Stmt{Kind: ast.StmtFor}
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after for")
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.isDeclarationStart():
		st.Init = p.parseConditionDecl(true)
		if p.eat(token.Colon) {
			// range-based for
			st.X = p.parseExprOrList()
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
			st.Then = p.parseStatement()
			st.Span = p.spanFrom(start)
			return p.b.Stmts.New(st)
		}
		p.expectSemicolon()
	default:
		xstart := p.peek().Span
		x := p.parseExpr()
		st.Init = p.b.Stmts.New(ast.Stmt{Kind: ast.StmtExpr, Span: p.spanFrom(xstart), X: x})
		p.expectSemicolon()
	}
	if !p.at(token.Semicolon) {
		st.X = p.parseExpr()
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for header")
	if !p.at(token.RParen) {
		st.Post = p.parseExpr()
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after for header")
	st.Then = p.parseStatement()
	st.Span = p.spanFrom(start)
	return p.b.Stmts.New(st)
}

// parseHandlers attaches catch clauses to a try block. The result is a
// block holding the try body and one block per handler; a handler's
// parameter becomes a declaration at the start of its block.
func (p *Parser) parseHandlers(body ast.StmtID) ast.StmtID {
	start := p.b.Stmts.Get(body).Span
	stmts := []ast.StmtID{body}
	for p.at(token.KwCatch) {
		cstart := p.advance().Span
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after catch")
		var param ast.StmtID
		if !p.eat(token.Ellipsis) {
			pstart := p.peek().Span
			s := p.parseDeclSpecifiers(ctxParam)
			d := p.parseDeclarator(ctxParam, true)
			decl := p.declaratorFrom(s, &d)
			decl.Span = p.spanFrom(pstart)
			if d.hasName {
				id := p.b.Declarators.New(decl)
				sd := p.b.Decls.NewSimple(decl.Span, ast.SimpleDecl{Declarators: []ast.DeclaratorID{id}})
				param = p.b.Stmts.New(ast.Stmt{Kind: ast.StmtDecl, Span: decl.Span, Decls: []ast.DeclID{sd}})
			}
		}
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after catch parameter")
		handler := p.parseBlock()
		if param.IsValid() {
			hb := p.b.Stmts.Get(handler)
			hb.Stmts = append([]ast.StmtID{param}, hb.Stmts...)
			hb.Span = cstart.Cover(hb.Span)
		}
		stmts = append(stmts, handler)
	}
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtBlock, Span: p.spanFrom(start), Stmts: stmts})
}
