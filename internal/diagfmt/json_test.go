package diagfmt

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"

	"cxxscope/internal/diag"
	"cxxscope/internal/source"
)

func TestJSONPositionsAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cc", []byte("int a;\nint a;\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SemaMultiplyDefined,
		source.Span{File: fileID, Start: 11, End: 12}, "'a' is already defined").
		WithNote(source.Span{File: fileID, Start: 4, End: 5}, "previous declaration of 'a' is here"))
	bag.Add(diag.New(diag.SevWarning, diag.SemaUnresolvedRef, source.Span{File: fileID, Start: 0, End: 3}, "second"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, Max: 1}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if out.Count != 1 || out.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d", out.Count, out.Dropped)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3002" || d.Title != "Multiply defined name" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.File != "test.cc" || d.Location.StartLine != 2 || d.Location.StartCol != 5 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Fatalf("notes = %+v", d.Notes)
	}
}
