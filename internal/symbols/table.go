package symbols

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/trace"
)

// Language selects the declaration and lookup rules. LanguageNone turns
// every table operation into a no-op.
type Language uint8

const (
	LanguageNone Language = iota
	LanguageC
	LanguageCXX
)

func (l Language) String() string {
	switch l {
	case LanguageNone:
		return "none"
	case LanguageC:
		return "c"
	case LanguageCXX:
		return "c++"
	}
	return "unknown"
}

// ParseLanguage accepts none, c, c99, c++, cxx and cpp.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(s) {
	case "none", "off":
		return LanguageNone, nil
	case "c", "c99":
		return LanguageC, nil
	case "c++", "cxx", "cpp", "":
		return LanguageCXX, nil
	}
	return LanguageNone, fmt.Errorf("invalid language: %q (expected: none|c|c++)", s)
}

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Options configures a table.
type Options struct {
	Language Language
	Reporter diag.Reporter
	Tracer   trace.Tracer
	Hints    Hints
}

// Table is the facade used during one traversal of one syntax tree. It owns
// every scope and symbol; the tree must outlive it.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols

	b        *ast.Builder
	lang     Language
	reporter diag.Reporter
	tracer   trace.Tracer
	global   ScopeID
	stack    []ScopeID
	byNode   map[ast.Node]SymbolID
	closed   bool

	// const variables whose initializer is being folded
	evaluating map[SymbolID]bool
}

// NewTable builds a table over the tree in b with the global scope pushed.
func NewTable(b *ast.Builder, opts Options) *Table {
	scopeCap, err := safecast.Conv[uint32](opts.Hints.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](opts.Hints.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	t := &Table{
		Scopes:   NewScopes(scopeCap),
		Symbols:  NewSymbols(symCap),
		b:        b,
		lang:     opts.Language,
		reporter: opts.Reporter,
		tracer:   tracer,
		byNode:   make(map[ast.Node]SymbolID),
		stack:    make([]ScopeID, 0, 16),
	}
	t.global = t.Scopes.New(ScopeNamespace, NoScopeID, ast.NoNode, b.NodeSpan(ast.NoNode))
	t.Scopes.Get(t.global).refs = 1
	t.push(t.global)
	return t
}

func (t *Table) Language() Language { return t.lang }

func (t *Table) enabled() bool { return t.lang != LanguageNone && !t.closed }

// Builder returns the tree the table refers to.
func (t *Table) Builder() *ast.Builder { return t.b }

// Global returns the global namespace scope.
func (t *Table) Global() ScopeID { return t.global }

// CurrentScope returns the scope at the top of the stack.
func (t *Table) CurrentScope() ScopeID {
	if len(t.stack) == 0 {
		return NoScopeID
	}
	return t.stack[len(t.stack)-1]
}

// Depth reports the number of open scopes including the global one.
func (t *Table) Depth() int { return len(t.stack) }

// Scope returns a live scope or nil.
func (t *Table) Scope(id ScopeID) *Scope {
	s := t.Scopes.Get(id)
	if s == nil || s.Retired {
		return nil
	}
	return s
}

// Symbol returns a symbol whose owning scope is still alive, or nil.
func (t *Table) Symbol(id SymbolID) *Symbol {
	sym := t.Symbols.Get(id)
	if sym == nil || t.Scope(sym.Scope) == nil {
		return nil
	}
	return sym
}

// SymbolOf returns the symbol declared for a node, following upgrades.
func (t *Table) SymbolOf(node ast.Node) SymbolID {
	return t.byNode[node]
}

func (t *Table) push(id ScopeID) {
	if s := t.Scopes.Get(id); s != nil {
		s.refs++
	}
	t.stack = append(t.stack, id)
}

// LeaveScope pops the innermost scope. The global scope is never popped.
func (t *Table) LeaveScope() {
	if len(t.stack) <= 1 {
		return
	}
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.unref(top)
}

// Guard restores the stack depth it was created at.
type Guard struct {
	t     *Table
	depth int
}

// Guard records the current depth; Close pops every scope entered since.
func (t *Table) Guard() Guard { return Guard{t: t, depth: len(t.stack)} }

func (g Guard) Close() {
	if g.t == nil {
		return
	}
	for len(g.t.stack) > g.depth && len(g.t.stack) > 1 {
		g.t.LeaveScope()
	}
}

// register links nested to outer under node and takes a reference for it.
func (t *Table) register(outer ScopeID, node ast.Node, nested ScopeID) {
	o := t.Scopes.Get(outer)
	n := t.Scopes.Get(nested)
	if o == nil || n == nil {
		return
	}
	if o.Nested == nil {
		o.Nested = make(map[ast.Node]ScopeID)
	}
	if prev, ok := o.Nested[node]; ok {
		if prev == nested {
			return
		}
		t.unref(prev)
	}
	o.Nested[node] = nested
	n.refs++
}

func (t *Table) unref(id ScopeID) {
	s := t.Scopes.Get(id)
	if s == nil || s.Retired {
		return
	}
	s.refs--
	if s.refs > 0 {
		return
	}
	t.retire(id)
}

// retire releases a scope whose count dropped to zero. Nested
// registrations are released with it.
func (t *Table) retire(id ScopeID) {
	s := t.Scopes.Get(id)
	s.Retired = true
	s.refs = 0
	nested := s.Nested
	s.Nested = nil
	s.NameIndex = nil
	for _, n := range nested {
		t.unref(n)
	}
}

// Close unwinds the stack and drops the global reference, releasing every
// scope. The table answers nothing afterwards.
func (t *Table) Close() {
	if t.closed {
		return
	}
	for len(t.stack) > 1 {
		t.LeaveScope()
	}
	t.stack = t.stack[:0]
	t.unref(t.global) // stack entry
	t.unref(t.global) // table reference
	t.closed = true
}

func (t *Table) newScope(kind ScopeKind, outer ScopeID, owner ast.Node) ScopeID {
	return t.Scopes.New(kind, outer, owner, t.b.NodeSpan(owner))
}

// insert adds sym to scope without conflict checks.
func (t *Table) insert(scopeID ScopeID, sym Symbol) SymbolID {
	scope := t.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID
	}
	sym.Scope = scopeID
	id := t.Symbols.New(&sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[sym.Name] = append(scope.NameIndex[sym.Name], id)
	if sym.Decl.IsValid() {
		t.byNode[sym.Decl] = id
	}
	return id
}

// remove tombstones a symbol and drops it from its scope's name map.
func (t *Table) remove(id SymbolID) {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return
	}
	sym.Flags |= SymbolFlagRemoved
	scope := t.Scopes.Get(sym.Scope)
	if scope == nil || scope.NameIndex == nil {
		return
	}
	bucket := scope.NameIndex[sym.Name]
	for i, other := range bucket {
		if other == id {
			bucket = append(bucket[:i:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(scope.NameIndex, sym.Name)
		return
	}
	scope.NameIndex[sym.Name] = bucket
}

// QualifiedName renders the full name of a symbol, e.g. "N::A::f".
func (t *Table) QualifiedName(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	parts := []string{displayName(sym.Name)}
	for sc := t.Scopes.Get(sym.Scope); sc != nil && sc.Outer.IsValid(); sc = t.Scopes.Get(sc.Outer) {
		if sc.Name.Empty() {
			continue
		}
		parts = append(parts, displayName(sc.Name))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

func (t *Table) span(name string) *trace.Span {
	return trace.Begin(t.tracer, trace.ScopeTable, name, 0)
}

// displayName returns the spelling used in messages.
func displayName(e encoding.Encoding) string {
	if e.IsAnonymous() {
		return "<anonymous>"
	}
	return e.Unmangled()
}
