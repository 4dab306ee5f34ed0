// Package export writes symbol snapshots and cross-reference indexes in
// the supported output formats.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"cxxscope/internal/symbols"
	"cxxscope/internal/xref"
)

type Format uint8

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	}
	return "unknown"
}

// ParseFormat accepts text, json, yaml/yml and msgpack/mp.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	}
	return FormatText, fmt.Errorf("unknown output format %q (expected: text|json|yaml|msgpack)", s)
}

// Binary reports formats that should not be written to a terminal.
func (f Format) Binary() bool { return f == FormatMsgpack }

// Unit is the exported result of one translation unit.
type Unit struct {
	Path        string            `json:"path" yaml:"path" msgpack:"path"`
	Symbols     *symbols.Snapshot `json:"symbols,omitempty" yaml:"symbols,omitempty" msgpack:"symbols,omitempty"`
	Index       *xref.Index       `json:"xref,omitempty" yaml:"xref,omitempty" msgpack:"xref,omitempty"`
	Diagnostics int               `json:"diagnostics" yaml:"diagnostics" msgpack:"diagnostics"`
	Errors      int               `json:"errors" yaml:"errors" msgpack:"errors"`
}

// Report is the document written by the symbols and xref commands.
type Report struct {
	Tool  string `json:"tool" yaml:"tool" msgpack:"tool"`
	Units []Unit `json:"units" yaml:"units" msgpack:"units"`
}

// Write encodes r in format f.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(r)
	case FormatText:
		return writeText(w, r)
	}
	return fmt.Errorf("unsupported format %s", f)
}

// Read decodes a report previously written in a structured format.
func Read(rd io.Reader, f Format) (*Report, error) {
	var r Report
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(rd).Decode(&r); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
			return nil, fmt.Errorf("msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot read %s reports", f)
	}
	return &r, nil
}

func writeText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	for i, u := range r.Units {
		if i > 0 {
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "== %s ==\n", u.Path)
		if u.Symbols != nil {
			writeSymbols(bw, u.Symbols)
		}
		if u.Index != nil {
			writeIndex(bw, u.Index)
		}
	}
	return bw.Flush()
}

// column pads cells to the widest value, counting display width.
func column(values []string) int {
	width := 0
	for _, v := range values {
		if n := runewidth.StringWidth(v); n > width {
			width = n
		}
	}
	return width
}

func writeSymbols(w *bufio.Writer, s *symbols.Snapshot) {
	kinds := make([]string, len(s.Symbols))
	names := make([]string, len(s.Symbols))
	for i, sym := range s.Symbols {
		kinds[i] = sym.Kind
		names[i] = sym.Qualified
	}
	kw, nw := column(kinds), column(names)
	for _, sym := range s.Symbols {
		w.WriteString(runewidth.FillRight(sym.Kind, kw))
		w.WriteString("  ")
		w.WriteString(runewidth.FillRight(sym.Qualified, nw))
		if sym.Type != "" && sym.Type != sym.Name {
			fmt.Fprintf(w, "  : %s", sym.Type)
		}
		if sym.Value != nil {
			fmt.Fprintf(w, " = %d", *sym.Value)
		}
		if !sym.Definition {
			w.WriteString(" (declaration)")
		}
		if len(sym.Flags) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(sym.Flags, ","))
		}
		if sym.Span != "" {
			fmt.Fprintf(w, "  @ %s", sym.Span)
		}
		w.WriteByte('\n')
	}
}

func writeIndex(w *bufio.Writer, ix *xref.Index) {
	for _, e := range ix.Entries {
		def := "declared"
		if e.Definition {
			def = "defined"
		}
		fmt.Fprintf(w, "%s (%s) %s at %s\n", e.Name, e.Kind, def, e.Declared)
		for _, ref := range e.References {
			fmt.Fprintf(w, "  %s %s\n", runewidth.FillRight(ref.Kind, 9), ref.Position)
		}
	}
	if len(ix.Unresolved) == 0 {
		return
	}
	w.WriteString("unresolved:\n")
	for _, u := range ix.Unresolved {
		note := ""
		if u.Dependent {
			note = " (dependent)"
		}
		fmt.Fprintf(w, "  %s %s at %s%s\n", u.Kind, u.Name, u.Position, note)
	}
}
