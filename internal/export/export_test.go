package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cxxscope/internal/symbols"
	"cxxscope/internal/xref"
)

func sampleReport() *Report {
	three := int64(3)
	return &Report{
		Tool: "cxxscope test",
		Units: []Unit{{
			Path: "a.cc",
			Symbols: &symbols.Snapshot{
				Language: "c++",
				Scopes:   []symbols.ScopeDump{{ID: 1, Kind: "namespace"}},
				Symbols: []symbols.SymbolDump{
					{ID: 1, Kind: "const", Name: "N", Qualified: "E::N", Type: "E", Scope: 1, Definition: true, Value: &three, Span: "a.cc:1:10"},
					{ID: 2, Kind: "function", Name: "f", Qualified: "f", Type: "int (int)", Scope: 1, Span: "a.cc:2:5"},
				},
			},
			Index: &xref.Index{
				Entries: []xref.Entry{{
					Name: "f", Kind: "function", Declared: "a.cc:2:5",
					References: []xref.Location{{Position: "a.cc:4:3", Kind: "call"}},
				}},
				Unresolved: []xref.Unresolved{{Name: "T::g", Kind: "call", Position: "a.cc:5:1", Dependent: true}},
			},
			Diagnostics: 1,
		}},
	}
}

func TestStructuredFormatsRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		t.Run(f.String(), func(t *testing.T) {
			want := sampleReport()
			var buf bytes.Buffer
			if err := Write(&buf, want, f); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := Read(&buf, f)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(), FormatText); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := strings.Join([]string{
		"== a.cc ==",
		"const     E::N  : E = 3  @ a.cc:1:10",
		"function  f     : int (int) (declaration)  @ a.cc:2:5",
		"f (function) declared at a.cc:2:5",
		"  call      a.cc:4:3",
		"unresolved:",
		"  call T::g at a.cc:5:1 (dependent)",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("text output (-want +got):\n%s", diff)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":        FormatText,
		"JSON":    FormatJSON,
		"yml":     FormatYAML,
		"msgpack": FormatMsgpack,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
