// Package xref collects declarations and references reported by the walker
// into a cross-reference index.
package xref

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"cxxscope/internal/ast"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
	"cxxscope/internal/walker"
)

// Location is a rendered source position.
type Location struct {
	Position string `json:"position" yaml:"position" msgpack:"position"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty" msgpack:"kind,omitempty"`
}

// Entry describes one symbol with every place it was declared and used.
type Entry struct {
	Name         string     `json:"name" yaml:"name" msgpack:"name"`
	Kind         string     `json:"kind" yaml:"kind" msgpack:"kind"`
	Type         string     `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Declared     string     `json:"declared" yaml:"declared" msgpack:"declared"`
	Definition   bool       `json:"definition" yaml:"definition" msgpack:"definition"`
	Local        bool       `json:"local,omitempty" yaml:"local,omitempty" msgpack:"local,omitempty"`
	Declarations []Location `json:"declarations,omitempty" yaml:"declarations,omitempty" msgpack:"declarations,omitempty"`
	References   []Location `json:"references,omitempty" yaml:"references,omitempty" msgpack:"references,omitempty"`
}

// Unresolved is a name whose lookup found nothing.
type Unresolved struct {
	Name      string `json:"name" yaml:"name" msgpack:"name"`
	Kind      string `json:"kind" yaml:"kind" msgpack:"kind"`
	Position  string `json:"position" yaml:"position" msgpack:"position"`
	Dependent bool   `json:"dependent,omitempty" yaml:"dependent,omitempty" msgpack:"dependent,omitempty"`
}

// Index is the sorted result of a collection.
type Index struct {
	Entries    []Entry      `json:"entries" yaml:"entries" msgpack:"entries"`
	Unresolved []Unresolved `json:"unresolved,omitempty" yaml:"unresolved,omitempty" msgpack:"unresolved,omitempty"`
}

// Collector implements walker.Hooks.
type Collector struct {
	t          *symbols.Table
	fs         *source.FileSet
	entries    map[symbols.SymbolID]*Entry
	unresolved []Unresolved
}

var _ walker.Hooks = (*Collector)(nil)

// NewCollector records events for t. Positions are rendered through fs
// when it is non-nil.
func NewCollector(t *symbols.Table, fs *source.FileSet) *Collector {
	return &Collector{
		t:       t,
		fs:      fs,
		entries: make(map[symbols.SymbolID]*Entry),
	}
}

func (c *Collector) position(sp source.Span) string {
	if c.fs == nil {
		return sp.String()
	}
	return c.fs.Position(sp)
}

func (c *Collector) entry(id symbols.SymbolID) *Entry {
	if e, ok := c.entries[id]; ok {
		return e
	}
	sym := c.t.Symbol(id)
	if sym == nil {
		return nil
	}
	e := &Entry{
		Name:       c.t.QualifiedName(id),
		Kind:       sym.Kind.String(),
		Declared:   c.position(sym.Span),
		Definition: sym.IsDefinition,
		Local:      c.local(sym.Scope),
	}
	if !sym.Type.Empty() && sym.Type != sym.Name {
		e.Type = sym.Type.Unmangled()
	}
	// a definition that replaced an earlier declaration keeps its history
	if prev, ok := c.entries[sym.Previous]; ok && sym.Previous.IsValid() {
		e.Declarations = prev.Declarations
		e.References = prev.References
		delete(c.entries, sym.Previous)
	}
	c.entries[id] = e
	return e
}

func (c *Collector) local(id symbols.ScopeID) bool {
	scope := c.t.Scope(id)
	if scope == nil {
		return false
	}
	switch scope.Kind {
	case symbols.ScopeLocal, symbols.ScopeFunction, symbols.ScopePrototype:
		return true
	}
	return false
}

// Declared records a declaration site of sym.
func (c *Collector) Declared(sym symbols.SymbolID, node ast.Node) {
	e := c.entry(sym)
	if e == nil {
		return
	}
	s := c.t.Symbol(sym)
	e.Definition = s.IsDefinition
	e.Declared = c.position(s.Span)
	e.Declarations = append(e.Declarations, Location{Position: c.position(c.t.Builder().NodeSpan(node))})
}

// Referenced records a use, or an unresolved name.
func (c *Collector) Referenced(ref walker.Reference) {
	if !ref.Resolved() {
		c.unresolved = append(c.unresolved, Unresolved{
			Name:      ref.Name.Unmangled(),
			Kind:      ref.Kind.String(),
			Position:  c.position(ref.Span),
			Dependent: ref.Dependent,
		})
		return
	}
	loc := Location{Position: c.position(ref.Span), Kind: ref.Kind.String()}
	for _, id := range ref.Symbols {
		if e := c.entry(id); e != nil {
			e.References = append(e.References, loc)
		}
	}
}

// Index returns the entries in natural name order. Entries with the same
// name are ordered by kind and declaration position.
func (c *Collector) Index() *Index {
	out := &Index{
		Entries:    make([]Entry, 0, len(c.entries)),
		Unresolved: append([]Unresolved(nil), c.unresolved...),
	}
	ids := make([]symbols.SymbolID, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := c.entries[ids[i]], c.entries[ids[j]]
		switch {
		case a.Name != b.Name:
			return natural.Less(a.Name, b.Name)
		case a.Kind != b.Kind:
			return a.Kind < b.Kind
		case a.Declared != b.Declared:
			return natural.Less(a.Declared, b.Declared)
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		out.Entries = append(out.Entries, *c.entries[id])
	}
	sort.SliceStable(out.Unresolved, func(i, j int) bool {
		return natural.Less(out.Unresolved[i].Position, out.Unresolved[j].Position)
	})
	return out
}

// Find returns the entries named name, or whose last component is name.
func (ix *Index) Find(name string) []Entry {
	var out []Entry
	for _, e := range ix.Entries {
		if e.Name == name || strings.HasSuffix(e.Name, "::"+name) {
			out = append(out, e)
		}
	}
	return out
}

// Merge appends other's entries and re-sorts.
func (ix *Index) Merge(other *Index) {
	if other == nil {
		return
	}
	ix.Entries = append(ix.Entries, other.Entries...)
	ix.Unresolved = append(ix.Unresolved, other.Unresolved...)
	sort.SliceStable(ix.Entries, func(i, j int) bool {
		return natural.Less(ix.Entries[i].Name, ix.Entries[j].Name)
	})
	sort.SliceStable(ix.Unresolved, func(i, j int) bool {
		return natural.Less(ix.Unresolved[i].Position, ix.Unresolved[j].Position)
	})
}
