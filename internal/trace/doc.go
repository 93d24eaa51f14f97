// Package trace provides the tracing subsystem of the aliasc toolchain.
//
// The core phases (lexer, parser) never print anything themselves; they accept
// a Tracer through their Options and emit begin/end/point events to it. The
// driver and CLI decide where those events go.
//
// # Usage
//
//	aliasc parse --trace=- --trace-level=debug main.al
//
// # Implementations
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer kept in memory for crash dumps
//   - SlogTracer: forwards events as structured log records to slog handlers
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only spans that ended with "failed"
//   - LevelPhase: Directory runs, files and their lex/parse/codegen passes
//   - LevelDetail: Adds declarations and emitted globals
//   - LevelDebug: Adds every token
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithFile(ctx, path, module)
//	ctx, span := trace.Start(ctx, trace.ScopeModule, "file")
//	defer span.End("")
//
// Phases that take no context use Begin with an explicit parent ID.
package trace
