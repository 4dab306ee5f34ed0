package parser

import (
	"strings"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

type declCtx uint8

const (
	ctxNamespace declCtx = iota
	ctxClass
	ctxBlock
	ctxParam
	ctxType // type-id: no storage, no definitions of names
)

// specs is the parsed decl-specifier-seq of one declaration.
type specs struct {
	span     source.Span
	storage  ast.Storage
	typedef  bool
	friend   bool
	typ      encoding.Encoding // base type with cv applied
	hasType  bool
	ctorLike bool // no type, the declarator names a constructor or destructor

	typeName     encoding.Encoding
	typeNameSpan source.Span
	elaborated   bool

	// elabKey/elabName describe "class X" without a body; "class X;" is a
	// forward declaration.
	elabKey  token.Kind
	elabName name

	decls []ast.DeclID // class and enum definitions made in the specifiers
}

// builtinSpec counts builtin type keywords; "unsigned long long int" is legal.
type builtinSpec struct {
	void, boolean, char, wchar, short, int_, long, float, double, signed, unsigned, auto int
}

func (b builtinSpec) any() bool {
	return b.void+b.boolean+b.char+b.wchar+b.short+b.int_+b.long+b.float+b.double+b.signed+b.unsigned+b.auto > 0
}

func (b builtinSpec) encode() encoding.Encoding {
	var t encoding.Encoding
	switch {
	case b.void > 0:
		return encoding.Void
	case b.boolean > 0:
		return encoding.Bool
	case b.wchar > 0:
		return encoding.WChar
	case b.auto > 0:
		return encoding.Dependent
	case b.char > 0:
		t = encoding.Char
	case b.short > 0:
		t = encoding.Short
	case b.double > 0 && b.long > 0:
		return encoding.LongDouble
	case b.double > 0:
		return encoding.Double
	case b.float > 0:
		return encoding.Float
	case b.long >= 2:
		t = encoding.LongLong
	case b.long == 1:
		t = encoding.Long
	default:
		t = encoding.Int
	}
	switch {
	case b.unsigned > 0:
		return encoding.Unsigned(t)
	case b.signed > 0 && t == encoding.Char:
		return encoding.Signed(t)
	}
	return t
}

var storageKinds = map[token.Kind]ast.Storage{
	token.KwStatic:    ast.StorageStatic,
	token.KwExtern:    ast.StorageExtern,
	token.KwInline:    ast.StorageInline,
	token.KwVirtual:   ast.StorageVirtual,
	token.KwExplicit:  ast.StorageExplicit,
	token.KwFriend:    ast.StorageFriend,
	token.KwMutable:   ast.StorageMutable,
	token.KwRegister:  ast.StorageRegister,
	token.KwConstexpr: ast.StorageConstexpr,
}

func (p *Parser) parseDeclSpecifiers(ctx declCtx) specs {
	s := specs{span: p.peek().Span}
	var bt builtinSpec
	var isConst, isVolatile bool
loop:
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.KwTypedef:
			p.advance()
			s.typedef = true
		case storageKinds[tok.Kind] != 0:
			p.advance()
			s.storage |= storageKinds[tok.Kind]
			if tok.Kind == token.KwFriend {
				s.friend = true
			}
		case tok.Kind == token.KwConst:
			p.advance()
			isConst = true
		case tok.Kind == token.KwVolatile:
			p.advance()
			isVolatile = true
		case tok.Kind.IsBuiltinType():
			if s.hasType && !bt.any() {
				break loop
			}
			p.advance()
			s.hasType = true
			switch tok.Kind {
			case token.KwVoid:
				bt.void++
			case token.KwBool:
				bt.boolean++
			case token.KwChar:
				bt.char++
			case token.KwWcharT:
				bt.wchar++
			case token.KwShort:
				bt.short++
			case token.KwInt:
				bt.int_++
			case token.KwLong:
				bt.long++
			case token.KwFloat:
				bt.float++
			case token.KwDouble:
				bt.double++
			case token.KwSigned:
				bt.signed++
			case token.KwUnsigned:
				bt.unsigned++
			case token.KwAuto:
				bt.auto++
			}
		case tok.Kind == token.KwClass || tok.Kind == token.KwStruct || tok.Kind == token.KwUnion:
			if s.hasType {
				break loop
			}
			p.parseClassSpecifier(&s, ctx)
		case tok.Kind == token.KwEnum:
			if s.hasType {
				break loop
			}
			p.parseEnumSpecifier(&s, ctx)
		case tok.Kind == token.KwTypename:
			if s.hasType {
				break loop
			}
			p.advance()
			n, ok := p.parseName(true)
			if !ok {
				break loop
			}
			s.setNamedType(n)
		case tok.Kind == token.Tilde:
			s.ctorLike = !s.hasType
			break loop
		case tok.Kind == token.LBracket && p.peekN(1).Kind == token.LBracket:
			p.skipBalanced() // [[attribute]]
		case tok.Kind == token.Ident && isAttributeMacro(tok.Text):
			p.advance()
			if p.at(token.LParen) {
				p.skipBalanced()
			}
		case tok.Kind == token.Ident || tok.Kind == token.ColonColon:
			if s.hasType {
				break loop
			}
			if p.atConstructor(ctx) {
				s.ctorLike = true
				break loop
			}
			if tok.Kind == token.Ident && p.opts.C && !p.types[tok.Text] && p.peekN(1).Kind != token.Ident &&
				p.peekN(1).Kind != token.Star {
				break loop
			}
			n, ok := p.parseName(true)
			if !ok {
				break loop
			}
			s.setNamedType(n)
		default:
			break loop
		}
	}
	switch {
	case bt.any():
		s.typ = bt.encode()
	case !s.hasType && s.ctorLike:
		s.typ = encoding.Void
	case !s.hasType:
		s.typ = encoding.Int // implicit int
	}
	if isConst {
		s.typ = encoding.Const(s.typ)
	}
	if isVolatile {
		s.typ = encoding.Volatile(s.typ)
	}
	s.span = p.spanFrom(s.span)
	return s
}

func (s *specs) setNamedType(n name) {
	s.hasType = true
	s.typ = n.enc
	s.typeName = n.enc
	s.typeNameSpan = n.span
}

func isAttributeMacro(ident string) bool {
	return strings.HasPrefix(ident, "__attribute") || strings.HasPrefix(ident, "__declspec") ||
		ident == "__extension__" || ident == "__restrict" || ident == "__restrict__"
}

// atConstructor reports a name followed by '(' that declares a constructor,
// destructor or conversion function: A(), A::A(), ~A(), X::operator int().
func (p *Parser) atConstructor(ctx declCtx) bool {
	if ctx == ctxParam || ctx == ctxType || p.opts.C {
		return false
	}
	var n name
	ok := p.lookahead(func() bool {
		var parsed bool
		n, parsed = p.parseName(false)
		return parsed && p.at(token.LParen)
	})
	if !ok {
		return false
	}
	last := n.last
	switch {
	case strings.HasPrefix(last, "~"), strings.HasPrefix(last, "operator "):
		return true
	case n.parts >= 2 && last == n.prev():
		return true
	case n.parts == 1 && len(p.classes) > 0 && last == p.classes[len(p.classes)-1]:
		return true
	}
	return false
}

func (p *Parser) parseClassSpecifier(s *specs, ctx declCtx) {
	keyTok := p.advance()
	start := keyTok.Span
	for p.at(token.LBracket) && p.peekN(1).Kind == token.LBracket {
		p.skipBalanced()
	}
	var n name
	hasName := false
	if p.at(token.Ident) || p.at(token.ColonColon) {
		var ok bool
		n, ok = p.parseName(true)
		if !ok {
			return
		}
		hasName = true
		p.types[n.last] = true
	}
	if t := p.peek(); t.Kind == token.Ident && t.Text == "final" {
		if k := p.peekN(1).Kind; k == token.LBrace || k == token.Colon {
			p.advance()
		}
	}
	s.hasType = true
	if !p.at(token.LBrace) && !p.at(token.Colon) {
		if !hasName {
			p.err(diag.SynExpectIdentifier, "expected class name")
			return
		}
		s.typ = n.enc
		s.typeName = n.enc
		s.typeNameSpan = n.span
		s.elaborated = true
		s.elabKey = keyTok.Kind
		s.elabName = n
		return
	}
	data := ast.ClassDecl{Key: keyTok.Kind, HasBody: true}
	if hasName {
		data.Name = n.enc
		data.NameSpan = n.span
	} else {
		kind := "class"
		if keyTok.Kind == token.KwUnion {
			kind = "union"
		}
		data.Name = encoding.Anonymous(kind, p.nextAnonymous())
		data.NameSpan = keyTok.Span
		data.Anonymous = true
	}
	if p.eat(token.Colon) {
		data.Bases = p.parseBaseClause()
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to begin class body"); !ok {
		p.resync()
		return
	}
	p.classes = append(p.classes, n.last)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		data.Members = append(data.Members, p.parseDeclaration(ctxClass)...)
		if p.pos == before {
			p.advance()
		}
	}
	p.classes = p.classes[:len(p.classes)-1]
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close class body")
	s.decls = append(s.decls, p.b.Decls.NewClass(p.spanFrom(start), data))
	s.typ = data.Name
	s.typeName = data.Name
	s.typeNameSpan = data.NameSpan
}

func (p *Parser) parseBaseClause() []ast.BaseSpec {
	var bases []ast.BaseSpec
	for {
		var base ast.BaseSpec
		for {
			switch p.peek().Kind {
			case token.KwVirtual:
				p.advance()
				base.Virtual = true
				continue
			case token.KwPublic, token.KwProtected, token.KwPrivate:
				base.Access = p.advance().Kind
				continue
			}
			break
		}
		n, ok := p.parseName(true)
		if !ok {
			p.skipTo(token.LBrace)
			return bases
		}
		p.eat(token.Ellipsis)
		base.Name = n.enc
		base.Span = n.span
		bases = append(bases, base)
		if !p.eat(token.Comma) {
			return bases
		}
	}
}

// skipTo advances until the next k at the current nesting level.
func (p *Parser) skipTo(k token.Kind) {
	for !p.at(k) && !p.at(token.EOF) && !p.at(token.Semicolon) {
		p.skipBalanced()
	}
}

func (p *Parser) parseEnumSpecifier(s *specs, ctx declCtx) {
	start := p.advance().Span
	if p.at(token.KwClass) || p.at(token.KwStruct) {
		p.advance()
	}
	var n name
	hasName := false
	if p.at(token.Ident) || p.at(token.ColonColon) {
		var ok bool
		n, ok = p.parseName(true)
		if !ok {
			return
		}
		hasName = true
		p.types[n.last] = true
	}
	if p.at(token.Colon) {
		p.advance()
		p.parseTypeID()
	}
	s.hasType = true
	if !p.at(token.LBrace) {
		if !hasName {
			p.err(diag.SynExpectIdentifier, "expected enum name")
			return
		}
		s.typ = n.enc
		s.typeName = n.enc
		s.typeNameSpan = n.span
		s.elaborated = true
		s.elabKey = token.KwEnum
		s.elabName = n
		return
	}
	data := ast.EnumDecl{HasBody: true}
	if hasName {
		data.Name = n.enc
		data.NameSpan = n.span
	} else {
		data.Name = encoding.Anonymous("enum", p.nextAnonymous())
		data.NameSpan = start
		data.Anonymous = true
	}
	p.advance()
	for p.at(token.Ident) {
		tok := p.advance()
		en := ast.Enumerator{Name: encoding.SimpleName(tok.Text), Span: tok.Span}
		if p.eat(token.Assign) {
			en.Value = p.parseConditional()
		}
		data.Enumerators = append(data.Enumerators, en)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close enumerator list"); !ok {
		p.skipTo(token.RBrace)
		p.eat(token.RBrace)
	}
	s.decls = append(s.decls, p.b.Decls.NewEnum(p.spanFrom(start), data))
	s.typ = data.Name
	s.typeName = data.Name
	s.typeNameSpan = data.NameSpan
}
