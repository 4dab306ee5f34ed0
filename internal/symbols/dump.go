package symbols

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"

	"cxxscope/internal/source"
)

// Snapshot is a serialisable view of the live scopes and symbols of a table.
type Snapshot struct {
	Language string       `json:"language" yaml:"language" msgpack:"language"`
	Scopes   []ScopeDump  `json:"scopes" yaml:"scopes" msgpack:"scopes"`
	Symbols  []SymbolDump `json:"symbols" yaml:"symbols" msgpack:"symbols"`
}

type ScopeDump struct {
	ID       uint32   `json:"id" yaml:"id" msgpack:"id"`
	Kind     string   `json:"kind" yaml:"kind" msgpack:"kind"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Outer    uint32   `json:"outer,omitempty" yaml:"outer,omitempty" msgpack:"outer,omitempty"`
	Span     string   `json:"span,omitempty" yaml:"span,omitempty" msgpack:"span,omitempty"`
	Usings   []uint32 `json:"usings,omitempty" yaml:"usings,omitempty" msgpack:"usings,omitempty"`
	Bases    []uint32 `json:"bases,omitempty" yaml:"bases,omitempty" msgpack:"bases,omitempty"`
	Imported []uint32 `json:"imported,omitempty" yaml:"imported,omitempty" msgpack:"imported,omitempty"`
}

type SymbolDump struct {
	ID         uint32   `json:"id" yaml:"id" msgpack:"id"`
	Kind       string   `json:"kind" yaml:"kind" msgpack:"kind"`
	Name       string   `json:"name" yaml:"name" msgpack:"name"`
	Qualified  string   `json:"qualified" yaml:"qualified" msgpack:"qualified"`
	Type       string   `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Scope      uint32   `json:"scope" yaml:"scope" msgpack:"scope"`
	Inner      uint32   `json:"inner,omitempty" yaml:"inner,omitempty" msgpack:"inner,omitempty"`
	Definition bool     `json:"definition" yaml:"definition" msgpack:"definition"`
	Value      *int64   `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Span       string   `json:"span,omitempty" yaml:"span,omitempty" msgpack:"span,omitempty"`
	Flags      []string `json:"flags,omitempty" yaml:"flags,omitempty" msgpack:"flags,omitempty"`
}

// Snapshot collects live scopes and symbols in creation order. Spans are
// rendered through fs when it is non-nil.
func (t *Table) Snapshot(fs *source.FileSet) (*Snapshot, error) {
	out := &Snapshot{
		Language: t.lang.String(),
		Scopes:   make([]ScopeDump, 0, t.Scopes.Len()),
		Symbols:  make([]SymbolDump, 0, t.Symbols.Len()),
	}
	position := func(sp source.Span) string {
		if fs == nil || sp.Empty() {
			return sp.String()
		}
		return fs.Position(sp)
	}
	// Scopes are stored with sentinel at index 0.
	for idx, scope := range t.Scopes.Data() {
		id, err := safecast.Conv[uint32](idx + 1)
		if err != nil {
			return nil, fmt.Errorf("snapshot: scope id overflow: %w", err)
		}
		if scope.Retired {
			continue
		}
		d := ScopeDump{
			ID:    id,
			Kind:  scope.Kind.String(),
			Outer: uint32(scope.Outer),
		}
		if !scope.Name.Empty() {
			d.Name = displayName(scope.Name)
		}
		if scope.Owner.IsValid() {
			d.Span = position(scope.Span)
		}
		d.Usings = scopeIDs(scope.Usings)
		d.Bases = scopeIDs(scope.Bases)
		for _, sid := range scope.Imported {
			d.Imported = append(d.Imported, uint32(sid))
		}
		out.Scopes = append(out.Scopes, d)
	}
	// Symbols stored with sentinel at index 0.
	for idx, sym := range t.Symbols.Data() {
		id, err := safecast.Conv[uint32](idx + 1)
		if err != nil {
			return nil, fmt.Errorf("snapshot: symbol id overflow: %w", err)
		}
		if sym.Removed() || t.Scope(sym.Scope) == nil {
			continue
		}
		d := SymbolDump{
			ID:         id,
			Kind:       sym.Kind.String(),
			Name:       displayName(sym.Name),
			Qualified:  t.QualifiedName(SymbolID(id)),
			Scope:      uint32(sym.Scope),
			Inner:      uint32(sym.Inner),
			Definition: sym.IsDefinition,
			Span:       position(sym.Span),
			Flags:      sym.Flags.Strings(),
		}
		if !sym.Type.Empty() {
			d.Type = sym.Type.Unmangled()
		}
		if sym.Kind == SymbolConst && sym.Defined {
			v := sym.Value
			d.Value = &v
		}
		out.Symbols = append(out.Symbols, d)
	}
	return out, nil
}

func scopeIDs(ids []ScopeID) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

// Dump writes the live scope tree as indented text.
func (t *Table) Dump(w io.Writer) error {
	var sb strings.Builder
	t.dumpScope(&sb, t.global, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Table) dumpScope(sb *strings.Builder, id ScopeID, depth int) {
	scope := t.Scope(id)
	if scope == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	name := "<global>"
	if id != t.global {
		name = displayName(scope.Name)
		if scope.Name.Empty() {
			name = "-"
		}
	}
	fmt.Fprintf(sb, "%s%s %s #%d", indent, scope.Kind, name, id)
	if len(scope.Usings) > 0 {
		fmt.Fprintf(sb, " using%v", scope.Usings)
	}
	if len(scope.Bases) > 0 {
		fmt.Fprintf(sb, " bases%v", scope.Bases)
	}
	sb.WriteByte('\n')
	for _, sid := range scope.Symbols {
		sym := t.Symbols.Get(sid)
		if sym == nil || sym.Removed() {
			continue
		}
		fmt.Fprintf(sb, "%s  %s %s", indent, sym.Kind, displayName(sym.Name))
		if !sym.Type.Empty() && sym.Type != sym.Name {
			fmt.Fprintf(sb, " : %s", sym.Type.Unmangled())
		}
		if sym.Kind == SymbolConst && sym.Defined {
			fmt.Fprintf(sb, " = %d", sym.Value)
		}
		if !sym.IsDefinition {
			sb.WriteString(" (declaration)")
		}
		if flags := sym.Flags.Strings(); len(flags) > 0 {
			fmt.Fprintf(sb, " [%s]", strings.Join(flags, ","))
		}
		sb.WriteByte('\n')
	}
	for _, child := range scope.Children {
		t.dumpScope(sb, child, depth+1)
	}
}
