// Package trace records spans of a cxxscope run: the driver run, each
// translation unit, the lex, parse and walk passes of a unit, and single
// symbol table operations. It is the tool for finding the input that makes
// a run slow or hang.
//
//	cxxscope symbols --trace=run.json --trace-level=pass src/*.cc
//
// Tracers: Nop when disabled, StreamTracer (text, NDJSON or Chrome trace
// events), RingTracer (last N events, dumped to stderr when a command
// fails), LogTracer (zerolog records) and MultiTracer.
//
// Levels nest: unit shows driver and unit spans, pass adds the three
// passes, table adds every Table operation. Events inside a unit carry its
// path in Event.Unit.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	unit := trace.BeginUnit(trace.FromContext(ctx), path, trace.CurrentSpan(ctx))
//	defer unit.End("")
//	lex := trace.BeginIn(tracer, trace.ScopePass, "lex", unit.Context())
package trace
