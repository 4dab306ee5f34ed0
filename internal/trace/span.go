package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var seqCounter, spanCounter atomic.Uint64

// NextSeq returns the next global sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span identifier.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID reads the id from the "goroutine 12 [running]:" header of
// runtime.Stack.
func goroutineID() uint64 {
	var buf [64]byte
	line := buf[:runtime.Stack(buf[:], false)]
	line, ok := bytes.CutPrefix(line, []byte("goroutine "))
	if !ok {
		return 0
	}
	if i := bytes.IndexByte(line, ' '); i >= 0 {
		line = line[:i]
	}
	id, err := strconv.ParseUint(string(line), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Span is an open operation. Spans filtered out by the level, and nil
// spans, accept every call and record nothing.
type Span struct {
	tracer  Tracer
	ctx     SpanContext
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under the span with id parent (0 for a root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return BeginIn(t, scope, name, SpanContext{SpanID: parent})
}

// BeginIn opens a span under parent and inherits its translation unit.
func BeginIn(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		ctx:     SpanContext{SpanID: NextSpanID(), GID: goroutineID(), Unit: parent.Unit},
		parent:  parent.SpanID,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

// BeginUnit opens the span of the translation unit at path. Spans begun
// from its Context carry the same unit.
func BeginUnit(t Tracer, path string, parent SpanContext) *Span {
	parent.Unit = path
	return BeginIn(t, ScopeUnit, "unit", parent)
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.ctx.SpanID,
		ParentID: s.parent,
		GID:      s.ctx.GID,
		Unit:     s.ctx.Unit,
		Name:     s.name,
		Detail:   detail,
	}
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return now.Sub(s.started)
}

// Point records an instant event inside the span.
func (s *Span) Point(name, detail string) {
	if !s.live() {
		return
	}
	ev := s.event(KindPoint, time.Now(), detail)
	ev.SpanID, ev.ParentID = 0, s.ctx.SpanID
	ev.Name = name
	s.tracer.Emit(ev)
}

// WithExtra attaches a key to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, 0 for a span that records nothing.
func (s *Span) ID() uint64 {
	return s.Context().SpanID
}

// Context identifies s as the parent of further spans.
func (s *Span) Context() SpanContext {
	if s == nil {
		return SpanContext{}
	}
	return s.ctx
}
