package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"cxxscope/internal/driver"
)

func TestProgressModelTracksUnits(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("symbols", []string{"./a.cc", "b.cc", "c.cc"}, events).(*progressModel)

	m.Update(eventMsg(driver.Event{File: "a.cc", Stage: driver.StageParse, Status: driver.StatusWorking}))
	m.Update(eventMsg(driver.Event{File: "b.cc", Stage: driver.StageCache, Status: driver.StatusDone}))
	m.Update(eventMsg(driver.Event{File: "b.cc", Stage: driver.StageWalk, Status: driver.StatusDone, Elapsed: time.Millisecond}))
	m.Update(eventMsg(driver.Event{File: "c.cc", Stage: driver.StageLoad, Status: driver.StatusError, Elapsed: 2 * time.Millisecond}))
	m.Update(eventMsg(driver.Event{File: "ignored.cc", Stage: driver.StageWalk, Status: driver.StatusDone}))

	if got := m.units[0].label(); got != "parsing" {
		t.Fatalf("a.cc label = %q", got)
	}
	if got := m.units[1].label(); got != "cached" {
		t.Fatalf("b.cc label = %q", got)
	}
	if got := m.units[2].label(); got != "failed" {
		t.Fatalf("c.cc label = %q", got)
	}

	view := m.View()
	for _, want := range []string{"symbols: 2/3 units (1 cached, 1 failed)", "parsing", "./a.cc", "failed", "c.cc"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "b.cc") {
		t.Fatalf("finished unit still listed:\n%s", view)
	}

	m.Update(eventMsg(driver.Event{File: "./a.cc", Stage: driver.StageWalk, Status: driver.StatusDone, Elapsed: 5 * time.Millisecond}))
	m.Update(doneMsg{})
	final := m.View()
	if !strings.Contains(final, "done: symbols: 3/3 units") || !strings.Contains(final, "./a.cc (5ms)") {
		t.Fatalf("final view:\n%s", final)
	}
	if got := m.fraction(); got != 1 {
		t.Fatalf("fraction = %v", got)
	}
}

func TestFailedListIsCapped(t *testing.T) {
	var files []string
	for i := range maxFailedShown + 3 {
		files = append(files, fmt.Sprintf("u%d.cc", i))
	}
	m := NewProgressModel("xref", files, nil).(*progressModel)
	for _, f := range files {
		m.Update(eventMsg(driver.Event{File: f, Stage: driver.StageWalk, Status: driver.StatusError}))
	}
	view := m.View()
	if got := strings.Count(view, ".cc"); got != maxFailedShown {
		t.Fatalf("listed %d failures:\n%s", got, view)
	}
	if !strings.Contains(view, "... 3 more failed") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncateUsesDisplayWidth(t *testing.T) {
	got := truncate("src/模板/a.cc", 8)
	if runewidth.StringWidth(got) > 8 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a.cc", 20); got != "a.cc" {
		t.Fatalf("truncate = %q", got)
	}
}
