package parser

import (
	"slices"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/lexer"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint
	// C parses the C subset: no namespaces, classes, templates or references.
	C bool
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser holds the state for one translation unit.
type Parser struct {
	toks     []token.Token
	pos      int
	b        *ast.Builder
	file     ast.FileID
	opts     Options
	errors   uint
	lastSpan source.Span

	// имена, которые встречались как типы или шаблоны; грамматика C++
	// без этого неоднозначна
	types     map[string]bool
	templates map[string]bool
	anonymous uint32
	classes   []string // enclosing class names, for constructor detection
	noGreater int      // inside template arguments '>' closes the list
	quiet     int      // tentative parsing suppresses diagnostics
	splits    []split  // '>>' tokens split in place, undone on rewind
}

type split struct {
	pos int
	tok token.Token
}

// ParseFile lexes and parses one file of fs into b.
func ParseFile(fs *source.FileSet, id source.FileID, b *ast.Builder, opts Options) Result {
	f := fs.Get(id)
	toks := lexer.All(f, lexer.Options{Reporter: opts.Reporter, C: opts.C})
	return ParseTokens(toks, b, opts)
}

// ParseTokens parses an already lexed stream that ends with EOF.
func ParseTokens(toks []token.Token, b *ast.Builder, opts Options) Result {
	toks = slices.Clone(toks)
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}
	p := &Parser{
		toks:      toks,
		b:         b,
		opts:      opts,
		types:     make(map[string]bool),
		templates: make(map[string]bool),
	}
	start := toks[0].Span
	p.file = b.Files.New(start)
	for !p.at(token.EOF) {
		before := p.pos
		for _, d := range p.parseDeclaration(ctxNamespace) {
			b.PushDecl(p.file, d)
		}
		if p.pos == before {
			p.advance()
		}
	}
	b.Files.Get(p.file).Span = start.Cover(p.peek().Span)
	return Result{File: p.file, Errors: p.errors}
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

// peekN looks n tokens ahead; past the end it returns EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect reports and returns false when the next token is not k.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return p.peek(), false
}

// expectClosingAngle accepts '>' and splits '>>' so nested template lists close.
func (p *Parser) expectClosingAngle() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.Gt:
		p.advance()
		return true
	case token.Shr, token.GtEq, token.ShrAssign:
		rest := map[token.Kind]token.Kind{token.Shr: token.Gt, token.GtEq: token.Assign, token.ShrAssign: token.GtEq}[tok.Kind]
		first := tok.Span
		first.End = first.Start + 1
		p.lastSpan = first
		p.splits = append(p.splits, split{pos: p.pos, tok: tok})
		p.toks[p.pos] = token.Token{
			Kind: rest,
			Span: source.Span{File: tok.Span.File, Start: tok.Span.Start + 1, End: tok.Span.End},
			Text: tok.Text[1:],
		}
		return true
	}
	p.err(diag.SynUnclosedAngle, "expected '>' to close template argument list")
	return false
}

func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.quiet > 0 {
		return
	}
	if sev == diag.SevError {
		p.errors++
	}
	if p.opts.Reporter == nil {
		return
	}
	if p.opts.MaxErrors > 0 && p.errors > p.opts.MaxErrors {
		return
	}
	diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg).Emit()
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

// skipBalanced consumes one token, or a whole bracketed group when at an opener.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

// resync skips to the end of the current declaration or statement.
func (p *Parser) resync() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace:
			return
		case token.LBrace, token.LParen, token.LBracket:
			p.skipBalanced()
			if p.at(token.Semicolon) {
				p.advance()
			}
			return
		default:
			p.advance()
		}
	}
}

func (p *Parser) nextAnonymous() uint32 {
	p.anonymous++
	return p.anonymous
}

// tentative runs fn with diagnostics suppressed and rewinds when it fails.
func (p *Parser) tentative(fn func() bool) bool {
	return p.speculate(fn, false)
}

// lookahead runs fn without consuming input or reporting.
func (p *Parser) lookahead(fn func() bool) bool {
	return p.speculate(fn, true)
}

func (p *Parser) speculate(fn func() bool, alwaysRewind bool) bool {
	save, saveLast, saveSplits := p.pos, p.lastSpan, len(p.splits)
	p.quiet++
	ok := fn()
	p.quiet--
	if ok && !alwaysRewind {
		return true
	}
	for i := len(p.splits) - 1; i >= saveSplits; i-- {
		p.toks[p.splits[i].pos] = p.splits[i].tok
	}
	p.splits = p.splits[:saveSplits]
	p.pos, p.lastSpan = save, saveLast
	return ok
}
