package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"cxxscope/internal/driver"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
)

func keptUnit(t *testing.T, src string) (*source.FileSet, *driver.UnitResult) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.cc")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, results, err := driver.Run(context.Background(), []string{path}, driver.Options{
		Language:   symbols.LanguageCXX,
		Jobs:       1,
		Logger:     zerolog.Nop(),
		KeepTables: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	unit := results[0]
	t.Cleanup(unit.Close)
	if unit.Table == nil {
		t.Fatalf("table was not kept: %v", unit.Bag.Items())
	}
	return fs, unit
}

func TestLookupNamesFromScope(t *testing.T) {
	fs, unit := keptUnit(t, `namespace A {
  int v;
  namespace B { int w; }
}
`)
	answers, err := lookupNames(unit.Table, fs, "A::B", []string{"v", "w", "::A::v", "nope"}, symbols.LookupDefault)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	var got []string
	for _, a := range answers {
		var names []string
		for _, m := range a.Matches {
			names = append(names, m.Kind+" "+m.Qualified)
		}
		got = append(got, a.Name+"="+strings.Join(names, ","))
	}
	want := []string{"v=variable A::v", "w=variable A::B::w", "::A::v=variable A::v", "nope="}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if missing := writeAnswers(&buf, answers); missing != 1 {
		t.Fatalf("missing = %d, want 1\n%s", missing, buf.String())
	}
	if !strings.Contains(buf.String(), "nope: not found (default lookup)") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestLookupRejectsNonScope(t *testing.T) {
	fs, unit := keptUnit(t, "int v;\n")
	if _, err := lookupNames(unit.Table, fs, "v", []string{"v"}, symbols.LookupDefault); err == nil {
		t.Fatalf("expected an error for a variable used as a scope")
	}
}

func TestParseLookupContext(t *testing.T) {
	for _, c := range []symbols.LookupContext{
		symbols.LookupDefault, symbols.LookupDeclaration, symbols.LookupElaborate, symbols.LookupScope,
	} {
		got, err := parseLookupContext(strings.ToUpper(c.String()))
		if err != nil || got != c {
			t.Fatalf("parseLookupContext(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := parseLookupContext("member"); err == nil {
		t.Fatalf("expected error for unknown context")
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, versionOptions{format: "json", showHash: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "cxxscope" || payload.Version == "" || payload.GitCommit == "" || payload.BuildDate != "" {
		t.Fatalf("payload = %+v", payload)
	}
}
