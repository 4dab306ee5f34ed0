package trace

import (
	"errors"
	"io"
)

// MultiTracer sends every event to each of its tracers, which filter by
// their own levels.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: tracers, level: level}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

func (t *MultiTracer) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level { return t.level }

func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// DumpRing writes the events of every ring tracer reachable from t and
// reports whether there was one. The CLI calls it when a command fails.
func DumpRing(t Tracer, w io.Writer, format Format) (bool, error) {
	switch tr := t.(type) {
	case *RingTracer:
		return true, tr.Dump(w, format)
	case *MultiTracer:
		found := false
		for _, inner := range tr.tracers {
			ok, err := DumpRing(inner, w, format)
			found = found || ok
			if err != nil {
				return found, err
			}
		}
		return found, nil
	}
	return false, nil
}
