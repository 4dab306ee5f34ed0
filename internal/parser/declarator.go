package parser

import (
	"slices"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

type opKind uint8

const (
	opPointer opKind = iota
	opReference
	opConst
	opVolatile
	opArray
	opFunction
	opMemberPointer
)

// typeOp is one derivation step; ops apply to the base type in order.
type typeOp struct {
	kind        opKind
	bound       int64
	boundExpr   ast.ExprID
	params      []ast.DeclaratorID
	variadic    bool
	constMember bool
	class       encoding.Encoding
}

type declInfo struct {
	span    source.Span
	name    name
	hasName bool
	ops     []typeOp
}

func (d *declInfo) apply(p *Parser, base encoding.Encoding) encoding.Encoding {
	t := base
	for _, op := range d.ops {
		switch op.kind {
		case opPointer:
			t = encoding.Pointer(t)
		case opReference:
			t = encoding.Reference(t)
		case opConst:
			t = encoding.Const(t)
		case opVolatile:
			t = encoding.Volatile(t)
		case opArray:
			t = encoding.Array(op.bound, t)
		case opMemberPointer:
			t = encoding.MemberPointer(op.class, t)
		case opFunction:
			params := make([]encoding.Encoding, 0, len(op.params)+1)
			for _, id := range op.params {
				params = append(params, p.b.Declarators.Get(id).Type)
			}
			if op.variadic {
				params = append(params, encoding.Ellipsis)
			}
			t = encoding.Function(params, t)
			if op.constMember {
				t = encoding.Const(t)
			}
		}
	}
	return t
}

// function returns the outermost function op, if the declarator declares one.
func (d *declInfo) function() (typeOp, bool) {
	if len(d.ops) == 0 || d.ops[len(d.ops)-1].kind != opFunction {
		return typeOp{}, false
	}
	return d.ops[len(d.ops)-1], true
}

// parseDeclarator parses ptr-operators, the declarator-id or a nested
// declarator, then array and function suffixes. abstract allows a missing
// name; ctx == ctxType forbids one.
func (p *Parser) parseDeclarator(ctx declCtx, abstract bool) declInfo {
	d := declInfo{span: p.peek().Span}
	d.ops = p.parsePtrOps()

	var inner *declInfo
	switch {
	case p.at(token.LParen) && p.nestedDeclaratorAhead():
		p.advance()
		in := p.parseDeclarator(ctx, abstract)
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' in declarator")
		inner = &in
	case ctx != ctxType && p.atNameStart() && !(p.at(token.Tilde) && ctx == ctxParam):
		n, ok := p.parseName(false)
		if ok {
			d.name = n
			d.hasName = true
		}
	case !abstract:
		p.err(diag.SynExpectIdentifier, "expected declarator name")
	}

	var suffixes []typeOp
	for {
		if p.at(token.LParen) {
			if !p.looksLikeParams(ctx) && !(ctx == ctxType || ctx == ctxParam || inner != nil) {
				break
			}
			suffixes = append(suffixes, p.parseFunctionSuffix())
			continue
		}
		if p.at(token.LBracket) && p.peekN(1).Kind != token.LBracket {
			suffixes = append(suffixes, p.parseArraySuffix())
			continue
		}
		break
	}
	slices.Reverse(suffixes)
	d.ops = append(d.ops, suffixes...)
	if inner != nil {
		d.ops = append(d.ops, inner.ops...)
		d.name = inner.name
		d.hasName = inner.hasName
	}
	d.span = p.spanFrom(d.span)
	return d
}

func (p *Parser) parsePtrOps() []typeOp {
	var ops []typeOp
	for {
		switch p.peek().Kind {
		case token.Star:
			p.advance()
			ops = append(ops, typeOp{kind: opPointer})
		case token.Amp, token.AndAnd:
			p.advance()
			ops = append(ops, typeOp{kind: opReference})
			continue
		case token.Ident, token.ColonColon:
			end, _ := p.scanName(p.pos, true)
			if end < 0 || p.tok(end).Kind != token.ColonColon || p.tok(end+1).Kind != token.Star {
				return ops
			}
			n, _ := p.parseName(true)
			p.advance() // ::
			p.advance() // *
			ops = append(ops, typeOp{kind: opMemberPointer, class: n.enc})
		default:
			return ops
		}
		ops = p.parseCVOps(ops)
	}
}

func (p *Parser) parseCVOps(ops []typeOp) []typeOp {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.KwConst:
			ops = append(ops, typeOp{kind: opConst})
		case tok.Kind == token.KwVolatile:
			ops = append(ops, typeOp{kind: opVolatile})
		case tok.Kind == token.Ident && isAttributeMacro(tok.Text):
		default:
			return ops
		}
		p.advance()
	}
}

// nestedDeclaratorAhead distinguishes "(*fp)" and "(name)" from a parameter list.
func (p *Parser) nestedDeclaratorAhead() bool {
	switch p.peekN(1).Kind {
	case token.Star, token.Amp, token.AndAnd:
		return true
	case token.Ident, token.ColonColon:
		end, last := p.scanName(p.pos+1, false)
		if end < 0 {
			return false
		}
		if p.tok(end).Kind == token.ColonColon && p.tok(end+1).Kind == token.Star {
			return true // (C::*pm)
		}
		return !p.isTypeName(last) && p.tok(end).Kind == token.RParen && p.tok(end+1).Kind == token.LParen
	}
	return false
}

func (p *Parser) parseFunctionSuffix() typeOp {
	op := typeOp{kind: opFunction}
	p.advance() // (
	if p.at(token.KwVoid) && p.peekN(1).Kind == token.RParen {
		p.advance()
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.eat(token.Ellipsis) {
			op.variadic = true
			break
		}
		before := p.pos
		op.params = append(op.params, p.parseParameter())
		if p.pos == before {
			p.skipBalanced()
		}
		if p.eat(token.Ellipsis) {
			op.variadic = true
			break
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter list"); !ok {
		p.skipTo(token.RParen)
		p.eat(token.RParen)
	}
	p.parseFunctionQualifiers(&op)
	return op
}

// parseFunctionQualifiers consumes cv, ref-qualifiers, exception
// specifications, virt-specifiers and a trailing return type.
func (p *Parser) parseFunctionQualifiers(op *typeOp) {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.KwConst:
			p.advance()
			op.constMember = true
		case tok.Kind == token.KwVolatile:
			p.advance()
		case tok.Kind == token.Amp || tok.Kind == token.AndAnd:
			if k := p.peekN(1).Kind; k != token.Semicolon && k != token.LBrace && k != token.Assign {
				return
			}
			p.advance()
		case tok.Kind == token.KwThrow:
			p.advance()
			if p.at(token.LParen) {
				p.skipBalanced()
			}
		case tok.Kind == token.Ident && (tok.Text == "noexcept" || tok.Text == "override" || tok.Text == "final"):
			p.advance()
			if tok.Text == "noexcept" && p.at(token.LParen) {
				p.skipBalanced()
			}
		case tok.Kind == token.Ident && isAttributeMacro(tok.Text):
			p.advance()
			if p.at(token.LParen) {
				p.skipBalanced()
			}
		case tok.Kind == token.Arrow:
			p.advance()
			p.parseTypeID()
		default:
			return
		}
	}
}

func (p *Parser) parseArraySuffix() typeOp {
	p.advance() // [
	op := typeOp{kind: opArray, bound: -1}
	if !p.at(token.RBracket) {
		if tok := p.peek(); tok.Kind == token.IntLit && p.peekN(1).Kind == token.RBracket {
			if v, ok := parseIntLiteral(tok.Text); ok {
				op.bound = v
			}
		}
		op.boundExpr = p.parseExpr()
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	return op
}

// parseIntLiteral reads a decimal, octal, hex or binary literal and drops
// its suffix.
func parseIntLiteral(text string) (int64, bool) {
	v, ok := token.IntValue(text)
	return int64(v), ok //nolint:gosec // unsigned bounds wrap
}

func (p *Parser) parseParameter() ast.DeclaratorID {
	s := p.parseDeclSpecifiers(ctxParam)
	d := p.parseDeclarator(ctxParam, true)
	decl := p.declaratorFrom(s, &d)
	if p.eat(token.Assign) {
		decl.Init = p.parseAssignment()
	}
	decl.Span = p.spanFrom(s.span)
	return p.b.Declarators.New(decl)
}

// declaratorFrom combines specifiers and a declarator into an AST record.
func (p *Parser) declaratorFrom(s specs, d *declInfo) ast.Declarator {
	out := ast.Declarator{
		Span:           d.span,
		Type:           d.apply(p, s.typ),
		TypeName:       s.typeName,
		TypeNameSpan:   s.typeNameSpan,
		TypeElaborated: s.elaborated,
	}
	if d.hasName {
		out.Name = d.name.enc
		out.NameSpan = d.name.span
	}
	if fn, ok := d.function(); ok {
		out.Function = true
		out.Params = fn.params
		out.Variadic = fn.variadic
		out.ConstMember = fn.constMember
	}
	for _, op := range d.ops {
		if op.kind == opArray && op.boundExpr.IsValid() {
			out.ArrayBounds = append(out.ArrayBounds, op.boundExpr)
		}
	}
	return out
}

// typeID is a parsed type-id.
type typeID struct {
	typ      encoding.Encoding
	typeName encoding.Encoding
	span     source.Span
}

func (p *Parser) parseTypeID() typeID {
	start := p.peek().Span
	s := p.parseDeclSpecifiers(ctxType)
	d := p.parseDeclarator(ctxType, true)
	p.eat(token.Ellipsis)
	return typeID{typ: d.apply(p, s.typ), typeName: s.typeName, span: p.spanFrom(start)}
}
