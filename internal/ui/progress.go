// Package ui renders driver progress in the terminal.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cxxscope/internal/driver"
)

// maxFailedShown caps the failed units listed under the counters.
const maxFailedShown = 5

type unitState struct {
	path     string
	stage    driver.Stage
	status   driver.Status
	cached   bool
	started  bool
	finished bool
	elapsed  time.Duration
}

func (u *unitState) label() string {
	switch {
	case u.finished && u.status == driver.StatusError:
		return "failed"
	case u.finished && u.cached:
		return "cached"
	case u.finished:
		return "done"
	case u.started:
		return stageVerb[u.stage]
	}
	return "queued"
}

// progressModel shows counters, the units in flight and the failed units.
// Finished units drop out of the list, so a run over thousands of files
// keeps a screen-sized view.
type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	units   []unitState
	index   map[string]int
	active  []int // in start order
	failed  []int
	slowest int // -1 until a unit finishes
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// unitKey matches the paths given on the command line with the cleaned
// paths the driver reports from its FileSet.
func unitKey(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// NewProgressModel renders progress for files until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		units:   make([]unitState, len(files)),
		index:   make(map[string]int, len(files)),
		slowest: -1,
		width:   80,
	}
	for i, f := range files {
		m.units[i].path = f
		m.index[unitKey(f)] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(10, msg.Width-4)
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.index[unitKey(ev.File)]
	if !ok {
		return nil
	}
	u := &m.units[i]
	if u.finished {
		return nil
	}
	u.stage, u.status = ev.Stage, ev.Status
	if ev.Stage == driver.StageCache {
		u.cached = true
	}
	switch ev.Status {
	case driver.StatusWorking:
		if !u.started {
			u.started = true
			m.active = append(m.active, i)
		}
	case driver.StatusDone, driver.StatusError:
		if ev.Stage == driver.StageCache {
			// the final event follows once the driver has the result
			return m.bar.SetPercent(m.fraction())
		}
		u.finished = true
		u.elapsed = ev.Elapsed
		m.active = remove(m.active, i)
		if ev.Status == driver.StatusError {
			m.failed = append(m.failed, i)
		}
		if m.slowest < 0 || u.elapsed > m.units[m.slowest].elapsed {
			m.slowest = i
		}
	}
	return m.bar.SetPercent(m.fraction())
}

func remove(list []int, v int) []int {
	for j, x := range list {
		if x == v {
			return append(list[:j], list[j+1:]...)
		}
	}
	return list
}

// stageWeight is the share of a unit's work done once a stage starts.
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:  0.05,
	driver.StageLex:   0.1,
	driver.StageParse: 0.3,
	driver.StageWalk:  0.6,
	driver.StageCache: 0.9,
}

var stageVerb = map[driver.Stage]string{
	driver.StageLoad:  "loading",
	driver.StageLex:   "lexing",
	driver.StageParse: "parsing",
	driver.StageWalk:  "resolving",
	driver.StageCache: "cached",
}

func (m *progressModel) fraction() float64 {
	if len(m.units) == 0 {
		return 1
	}
	sum := 0.0
	for i := range m.units {
		u := &m.units[i]
		switch {
		case u.finished:
			sum++
		case u.started || u.cached:
			sum += stageWeight[u.stage]
		}
	}
	return sum / float64(len(m.units))
}

type tally struct{ finished, cached, failed int }

func (m *progressModel) totals() tally {
	var c tally
	for i := range m.units {
		u := &m.units[i]
		if !u.finished {
			continue
		}
		c.finished++
		if u.cached {
			c.cached++
		}
		if u.status == driver.StatusError {
			c.failed++
		}
	}
	return c
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const labelWidth = 10

func (m *progressModel) View() string {
	if len(m.units) == 0 {
		return ""
	}
	c := m.totals()
	header := fmt.Sprintf("%s: %d/%d units", m.title, c.finished, len(m.units))
	if c.cached > 0 || c.failed > 0 {
		header += fmt.Sprintf(" (%d cached, %d failed)", c.cached, c.failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(20, m.width-labelWidth-4)
	line := func(style lipgloss.Style, label, path string) {
		fmt.Fprintf(&b, "  %s %s\n", style.Render(runewidth.FillRight(label, labelWidth)), truncate(path, nameWidth))
	}
	for _, i := range m.active {
		line(activeStyle, m.units[i].label(), m.units[i].path)
	}
	for n, i := range m.failed {
		if n == maxFailedShown {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("... %d more failed", len(m.failed)-n)))
			break
		}
		line(failStyle, "failed", m.units[i].path)
	}
	if m.done && m.slowest >= 0 {
		u := &m.units[m.slowest]
		line(dimStyle, "slowest", fmt.Sprintf("%s (%s)", u.path, u.elapsed.Round(time.Millisecond)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate cuts value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
