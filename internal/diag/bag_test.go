package diag

import (
	"testing"

	"cxxscope/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, SemaConstEval, source.Span{File: 0, Start: 10, End: 11}, "w").Emit()
	ReportError(r, SemaUndefined, source.Span{File: 0, Start: 2, End: 3}, "e").Emit()
	ReportError(r, SemaUndefined, source.Span{File: 0, Start: 1, End: 3}, "dropped").Emit()
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	bag.Sort()
	if bag.Items()[0].Code != SemaUndefined {
		t.Fatalf("first after sort = %v", bag.Items()[0].Code)
	}
	if !bag.HasErrors() || bag.Count(SevWarning) != 1 {
		t.Fatalf("unexpected severities in %v", bag.Items())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SemaMultiplyDefined, source.Span{}, "twice").
		WithNote(source.Span{Start: 4, End: 5}, "previous declaration")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("items = %+v", bag.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(SemaUndefined, SevError, sp, "x", nil)
	r.Report(SemaUndefined, SevError, sp, "x", nil)
	r.Report(SemaUndefined, SevError, sp, "y", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.cc", []byte("int a;\nint a;\n"))
	d := New(SevError, SemaMultiplyDefined, source.Span{File: id, Start: 11, End: 12}, "redefinition of 'a'")
	got := FormatShort([]Diagnostic{d}, fs, false)
	want := "t.cc:2:5: ERROR SEM3002: redefinition of 'a'"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
