package observ

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	lex := tm.Begin("lex")
	tm.End(lex, "3 tokens")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(7, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "lex" || r.Phases[0].Note != "3 tokens" || r.Phases[1].Name != "parse" {
		t.Fatalf("report = %+v", r)
	}
	if sum := r.Phases[0].DurationMS + r.Phases[1].DurationMS; sum != r.TotalMS {
		t.Fatalf("total %v, phases sum to %v", r.TotalMS, sum)
	}
	if got := NewTimer().Report(); got.TotalMS != 0 || len(got.Phases) != 0 {
		t.Fatalf("empty timer = %+v", got)
	}
}

func TestMergeSumsByPhase(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "lex", DurationMS: 1, Note: "10 tokens"}, {Name: "parse", DurationMS: 2}}}
	b := Report{TotalMS: 6, Phases: []PhaseReport{{Name: "lex", DurationMS: 1}, {Name: "parse", DurationMS: 1}, {Name: "walk", DurationMS: 4}}}
	want := Report{TotalMS: 9, Phases: []PhaseReport{{Name: "lex", DurationMS: 2}, {Name: "parse", DurationMS: 3}, {Name: "walk", DurationMS: 4}}}
	if diff := cmp.Diff(want, Merge(a, b)); diff != "" {
		t.Fatalf("Merge (-want +got):\n%s", diff)
	}
}
