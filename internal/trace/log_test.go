package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewLogTracer(zerolog.New(&buf), LevelPass)

	tr.Emit(&Event{Kind: KindSpanBegin, Scope: ScopePass, SpanID: 1, Name: "parse"})
	tr.Emit(&Event{Kind: KindSpanBegin, Scope: ScopeTable, SpanID: 2, ParentID: 1, Name: "Table.Declare"})
	tr.Emit(&Event{Kind: KindSpanEnd, Scope: ScopePass, SpanID: 1, Unit: "a.cc", Name: "parse", Extra: map[string]string{"tokens": "12"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"message":"parse"`) || !strings.Contains(lines[0], `"source":"trace"`) {
		t.Fatalf("unexpected record: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"unit":"a.cc"`) || !strings.Contains(lines[1], `"tokens":"12"`) {
		t.Fatalf("unit or extra field missing: %s", lines[1])
	}
}

func TestParseModeLog(t *testing.T) {
	m, err := ParseMode("LOG")
	if err != nil || m != ModeLog {
		t.Fatalf("ParseMode(LOG) = %v, %v", m, err)
	}
	tr, err := New(Config{Level: LevelUnit, Mode: ModeLog, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := tr.(*LogTracer); !ok {
		t.Fatalf("New returned %T", tr)
	}
}
