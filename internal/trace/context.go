package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// SpanContext is what a child span needs from its parent.
type SpanContext struct {
	SpanID uint64
	GID    uint64
	Unit   string
}

func fromContext[T any](ctx context.Context, key any) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t, ok := fromContext[Tracer](ctx, tracerKey{}); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil t attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpan returns the span context attached to ctx, zero if none.
func CurrentSpan(ctx context.Context) SpanContext {
	sc, _ := fromContext[SpanContext](ctx, spanKey{})
	return sc
}

// WithSpan makes s the parent of spans begun from the returned context.
func WithSpan(ctx context.Context, s *Span) context.Context {
	return context.WithValue(ctx, spanKey{}, s.Context())
}
