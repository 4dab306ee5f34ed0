package diag

import (
	"fmt"
	"sort"
	"strings"

	"cxxscope/internal/source"
)

// FormatShort renders one line per diagnostic, sorted by position:
//
//	path:line:col: SEVERITY CODE: message
//
// Used by tests and the --diag-format short CLI output.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	type row struct {
		path string
		pos  source.LineCol
		text string
	}
	rows := make([]row, 0, len(diags))
	line := func(sp source.Span, sev, code, msg string) row {
		start, _ := fs.Resolve(sp)
		path := "<unknown>"
		if int(sp.File) < fs.Len() {
			path = fs.Get(sp.File).Path
		}
		return row{path: path, pos: start, text: fmt.Sprintf("%s:%d:%d: %s %s: %s", path, start.Line, start.Col, sev, code, msg)}
	}
	for _, d := range diags {
		rows = append(rows, line(d.Primary, d.Severity.String(), d.Code.ID(), d.Message))
		if includeNotes {
			for _, n := range d.Notes {
				r := line(n.Span, "NOTE", d.Code.ID(), n.Msg)
				r.pos = rows[len(rows)-1].pos
				r.path = rows[len(rows)-1].path
				rows = append(rows, r)
			}
		}
	}
	if !includeNotes {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].path != rows[j].path {
				return rows[i].path < rows[j].path
			}
			if rows[i].pos.Line != rows[j].pos.Line {
				return rows[i].pos.Line < rows[j].pos.Line
			}
			return rows[i].pos.Col < rows[j].pos.Col
		})
	}
	var sb strings.Builder
	for i, r := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(r.text)
	}
	return sb.String()
}
