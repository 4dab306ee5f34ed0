package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cxxscope/internal/diag"
	"cxxscope/internal/source"
)

type palette struct {
	err, warn, info, note, code, path, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan, color.Bold),
		note:  color.New(color.FgBlue, color.Bold),
		code:  color.New(color.Faint),
		path:  color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.path, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(position(fs, d.Primary, opts.BaseDir)),
			p.severity(d.Severity).Sprint(d.Severity),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		excerpt(w, fs, d.Primary, opts.Context, p.caret)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "%s: %s: %s\n",
				p.path.Sprint(position(fs, n.Span, opts.BaseDir)),
				p.note.Sprint("NOTE"),
				n.Msg)
			excerpt(w, fs, n.Span, 0, p.caret)
		}
	}
}

func position(fs *source.FileSet, sp source.Span, base string) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.DisplayPath(base), start.Line, start.Col)
}

// excerpt prints the line holding sp and a caret underline. Columns are
// measured in display cells so wide characters line up.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, context int, caret *color.Color) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	gutter := len(fmt.Sprint(start.Line))
	first := start.Line
	for i := 0; i < context && first > 1; i++ {
		first--
	}
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, " %*d | %s\n", gutter, ln, expandTabs(f.Line(ln)))
	}
	line := f.Line(start.Line)
	prefix := line[:min(int(start.Col-1), len(line))]
	lead := runewidth.StringWidth(expandTabs(prefix))
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		stop := min(int(end.Col-1), len(line))
		width = max(runewidth.StringWidth(expandTabs(line[:stop]))-lead, 1)
	}
	fmt.Fprintf(w, " %s | %s%s\n",
		strings.Repeat(" ", gutter),
		strings.Repeat(" ", lead),
		caret.Sprint("^"+strings.Repeat("~", width-1)))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
