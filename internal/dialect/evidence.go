package dialect

import "cxxscope/internal/source"

// Hint is a small piece of evidence suggesting a particular language.
type Hint struct {
	Kind   Kind
	Score  int
	Reason string
	Span   source.Span
}

// Evidence aggregates per-file hints.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 16),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}
