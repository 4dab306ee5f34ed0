package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestMultiTracerFansOutAndDumpsRing(t *testing.T) {
	var stream bytes.Buffer
	ring := NewRingTracer(8, LevelTable)
	multi := NewMultiTracer(LevelTable, NewStreamTracer(&stream, LevelTable, FormatText), ring)

	span := Begin(multi, ScopeTable, "Table.EnterNamespace", 0)
	span.WithExtra("name", "N").End("")

	if got := strings.Count(stream.String(), "Table.EnterNamespace"); got != 2 {
		t.Fatalf("stream saw %d events:\n%s", got, stream.String())
	}
	var dump bytes.Buffer
	found, err := DumpRing(multi, &dump, FormatNDJSON)
	if err != nil || !found {
		t.Fatalf("DumpRing = %v, %v", found, err)
	}
	lines := strings.Split(strings.TrimSpace(dump.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], `"name":"N"`) {
		t.Fatalf("ring dump:\n%s", dump.String())
	}
}

func TestChromeStreamIsOneDocument(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPass, FormatChrome)
	Begin(tr, ScopePass, "parse", 0).End("ok")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, `{"traceEvents":[`) || !strings.HasSuffix(out, "]}\n") {
		t.Fatalf("chrome output:\n%s", out)
	}
	if !strings.Contains(out, `"ph":"B"`) || !strings.Contains(out, `"ph":"E"`) || !strings.Contains(out, `"detail":"ok"`) {
		t.Fatalf("chrome events:\n%s", out)
	}
}

func TestNewPicksFormatFromExtension(t *testing.T) {
	path := t.TempDir() + "/trace.ndjson"
	tr, err := New(Config{Level: LevelPass, Mode: ModeStream, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st, ok := tr.(*StreamTracer)
	if !ok || st.format != FormatNDJSON {
		t.Fatalf("New = %T %+v", tr, tr)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		want  int // begin and end events kept out of driver, unit, pass, table
	}{
		{LevelError, 0},
		{LevelUnit, 4},
		{LevelPass, 6},
		{LevelTable, 8},
	}
	for _, tt := range tests {
		ring := NewRingTracer(16, tt.level)
		for _, sc := range []Scope{ScopeDriver, ScopeUnit, ScopePass, ScopeTable} {
			Begin(ring, sc, sc.String(), 0).End("")
		}
		if got := len(ring.Snapshot()); got != tt.want {
			t.Fatalf("level %s kept %d events, want %d", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "UNIT": LevelUnit, "pass": LevelPass, "debug": LevelTable} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("phase"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestUnitIsInheritedThroughContext(t *testing.T) {
	ring := NewRingTracer(16, LevelPass)
	ctx := WithTracer(context.Background(), ring)
	run := BeginIn(FromContext(ctx), ScopeDriver, "run", CurrentSpan(ctx))
	ctx = WithSpan(ctx, run)
	unit := BeginUnit(FromContext(ctx), "a.cc", CurrentSpan(ctx))
	lex := BeginIn(ring, ScopePass, "lex", unit.Context())
	lex.Point("cache hit", "")
	lex.End("12 tokens")
	unit.End("")
	run.End("")

	events := ring.Snapshot()
	if len(events) != 7 {
		t.Fatalf("got %d events", len(events))
	}
	if events[0].Unit != "" || events[1].Unit != "a.cc" || events[2].Unit != "a.cc" {
		t.Fatalf("units = %q %q %q", events[0].Unit, events[1].Unit, events[2].Unit)
	}
	if events[1].ParentID != run.ID() || events[2].ParentID != unit.ID() {
		t.Fatalf("parents: %+v", events[:3])
	}
	point := events[3]
	if point.Kind != KindPoint || point.ParentID != lex.ID() || point.Name != "cache hit" {
		t.Fatalf("point = %+v", point)
	}
}

func TestHeartbeatStops(t *testing.T) {
	ring := NewRingTracer(64, LevelError)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	n := len(ring.Snapshot())
	if n == 0 {
		t.Fatalf("no heartbeat recorded")
	}
	time.Sleep(5 * time.Millisecond)
	if got := len(ring.Snapshot()); got != n {
		t.Fatalf("heartbeat kept running: %d -> %d events", n, got)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat started on a disabled tracer")
	}
}

func TestTextFormatIndentsByScope(t *testing.T) {
	ev := &Event{Seq: 3, Kind: KindSpanBegin, Scope: ScopePass, Unit: "a.cc", Name: "parse", Extra: map[string]string{"b": "2", "a": "1"}}
	want := "     3     → parse [a.cc] {a=1, b=2}\n"
	if got := string(FormatEvent(ev, FormatText)); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
