package trace

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"

	slogmulti "github.com/samber/slog-multi"
)

// SlogTracer forwards trace events as structured log records.
// Records are fanned out to every handler it was built with.
type SlogTracer struct {
	logger *slog.Logger
	level  Level
	out    io.Closer // файл трассы; nil, если владелец вывода не мы
}

// NewSlogTracer creates a tracer writing to all handlers at once.
func NewSlogTracer(level Level, handlers ...slog.Handler) *SlogTracer {
	return &SlogTracer{
		logger: slog.New(slogmulti.Fanout(handlers...)),
		level:  level,
	}
}

// Emit converts the event into a log record.
func (t *SlogTracer) Emit(ev *Event) {
	if !t.level.Allows(ev) {
		return
	}
	attrs := []slog.Attr{
		slog.String("kind", ev.Kind.String()),
		slog.String("scope", ev.Scope.String()),
		slog.Uint64("span", ev.SpanID),
	}
	if ev.ParentID != 0 {
		attrs = append(attrs, slog.Uint64("parent", ev.ParentID))
	}
	if ev.Detail != "" {
		attrs = append(attrs, slog.String("detail", ev.Detail))
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		attrs = append(attrs, slog.String(k, ev.Extra[k]))
	}
	t.logger.LogAttrs(context.Background(), eventLogLevel(ev), ev.Name, attrs...)
}

// eventLogLevel: failed spans are warnings, directory and file events Info,
// everything finer Debug.
func eventLogLevel(ev *Event) slog.Level {
	switch {
	case ev.Failed():
		return slog.LevelWarn
	case ev.Scope <= ScopeModule:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Flush is a no-op; slog handlers write synchronously.
func (t *SlogTracer) Flush() error { return nil }

// Close closes the trace output New opened for this tracer.
func (t *SlogTracer) Close() error {
	if t.out == nil {
		return nil
	}
	out := t.out
	t.out = nil
	return out.Close()
}

// Level returns the current tracing level.
func (t *SlogTracer) Level() Level { return t.level }

// Enabled returns true if tracing is active.
func (t *SlogTracer) Enabled() bool { return t.level > LevelOff }
