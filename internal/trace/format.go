package trace

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

// Format is the encoding of streamed and dumped events.
type Format uint8

const (
	FormatAuto   Format = iota // by output file extension
	FormatText                 // one indented line per event
	FormatNDJSON               // one JSON object per line
	FormatChrome               // Trace Event Format for Perfetto / chrome://tracing
)

// ParseFormat accepts auto, text, ndjson and chrome.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson":
		return FormatNDJSON, nil
	case "chrome":
		return FormatChrome, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson|chrome)", s)
}

// formatFor picks the format of an output file: .ndjson, .json, else text.
func formatFor(path string) Format {
	switch {
	case strings.HasSuffix(path, ".ndjson"):
		return FormatNDJSON
	case strings.HasSuffix(path, ".json"):
		return FormatChrome
	}
	return FormatText
}

// FormatEvent encodes ev, newline-terminated except for Chrome records,
// which the stream tracer joins with commas.
func FormatEvent(ev *Event, format Format) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	case FormatChrome:
		return formatChrome(ev)
	default:
		return formatText(ev)
	}
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Unit     string            `json:"unit,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	data, _ := json.Marshal(jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Unit:     ev.Unit,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	return append(data, '\n')
}

type chromeEvent struct {
	Name  string            `json:"name"`
	Cat   string            `json:"cat"`
	Phase string            `json:"ph"`
	TS    int64             `json:"ts"`
	PID   int               `json:"pid"`
	TID   uint64            `json:"tid"`
	Scope string            `json:"s,omitempty"`
	Args  map[string]string `json:"args,omitempty"`
}

// formatChrome maps span begin and end to "B" and "E" on the goroutine's
// track; points and heartbeats become global instants.
func formatChrome(ev *Event) []byte {
	c := chromeEvent{
		Name:  ev.Name,
		Cat:   ev.Scope.String(),
		Phase: "i",
		TS:    ev.Time.UnixMicro(),
		PID:   1,
		TID:   ev.GID,
		Args:  ev.Extra,
	}
	switch ev.Kind {
	case KindSpanBegin:
		c.Phase = "B"
	case KindSpanEnd:
		c.Phase = "E"
	default:
		c.Scope = "g"
	}
	if ev.Detail != "" || ev.Unit != "" {
		c.Args = maps.Clone(ev.Extra)
		if c.Args == nil {
			c.Args = make(map[string]string, 2)
		}
		if ev.Detail != "" {
			c.Args["detail"] = ev.Detail
		}
		if ev.Unit != "" {
			c.Args["unit"] = ev.Unit
		}
	}
	data, _ := json.Marshal(c)
	return data
}

var kindGlyphs = map[Kind]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// formatText writes "seq  →name [unit] (detail) {k=v}", indented by scope.
func formatText(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%6d ", ev.Seq)
	if ev.Scope > ScopeDriver {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeDriver)))
	}
	sb.WriteString(kindGlyphs[ev.Kind])
	sb.WriteString(ev.Name)
	if ev.Unit != "" {
		fmt.Fprintf(&sb, " [%s]", ev.Unit)
	}
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k + "=" + ev.Extra[k])
		}
		sb.WriteByte('}')
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
