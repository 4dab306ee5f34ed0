package trace

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"
)

// LogTracer writes each event as a debug record of a zerolog logger, so
// trace events interleave with the driver's own log lines.
type LogTracer struct {
	logger zerolog.Logger
	level  Level
}

// NewLogTracer tags records with source=trace. The logger's own level
// still applies.
func NewLogTracer(logger zerolog.Logger, level Level) *LogTracer {
	return &LogTracer{
		logger: logger.With().Str("source", "trace").Logger(),
		level:  level,
	}
}

func (t *LogTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	rec := t.logger.Debug().
		Time("at", ev.Time).
		Uint64("seq", ev.Seq).
		Str("kind", ev.Kind.String()).
		Str("scope", ev.Scope.String())
	if ev.SpanID != 0 {
		rec = rec.Uint64("span", ev.SpanID)
	}
	if ev.ParentID != 0 {
		rec = rec.Uint64("parent", ev.ParentID)
	}
	if ev.Unit != "" {
		rec = rec.Str("unit", ev.Unit)
	}
	if ev.Detail != "" {
		rec = rec.Str("detail", ev.Detail)
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		rec = rec.Str(k, ev.Extra[k])
	}
	rec.Msg(ev.Name)
}

func (t *LogTracer) Flush() error { return nil }

func (t *LogTracer) Close() error { return nil }

func (t *LogTracer) Level() Level { return t.level }

func (t *LogTracer) Enabled() bool { return t.level > LevelOff }
