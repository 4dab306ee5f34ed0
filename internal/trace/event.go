package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint // instant: a cache hit, a skipped declaration
	KindHeartbeat
)

var kindNames = [...]string{"", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one Run over all inputs
	ScopeUnit                    // one translation unit
	ScopePass                    // lex, parse or walk of a unit
	ScopeTable                   // one symbol table operation
)

var scopeNames = [...]string{"", "driver", "unit", "pass", "table"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // reassigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	GID      uint64 // emitting goroutine
	Unit     string // translation unit path, empty above unit scope
	Name     string // "run", "unit", "parse", "Table.EnterNamespace", ...
	Detail   string
	Extra    map[string]string
}
