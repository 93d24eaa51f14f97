package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the Tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, OrNop(t))
}

// SpanContext — то, что дочерние спаны наследуют от контекста:
// родителя и файл, который сейчас обрабатывается.
type SpanContext struct {
	SpanID uint64
	GID    uint64
	File   string // source path, empty outside a file
	Module string // module name derived from File
}

// attrs returns the file attributes copied onto spans started under sc.
func (sc SpanContext) attrs() map[string]string {
	if sc.File == "" && sc.Module == "" {
		return nil
	}
	m := make(map[string]string, 2)
	if sc.File != "" {
		m["file"] = sc.File
	}
	if sc.Module != "" {
		m["module"] = sc.Module
	}
	return m
}

// CurrentSpan returns the span context of ctx, zero if none.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	sc, _ := ctx.Value(spanKey{}).(SpanContext)
	return sc
}

// WithSpanContext attaches sc to ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanKey{}, sc)
}

// WithFile marks ctx as working on one source file.
// Spans started from the result with Start carry file and module attributes.
func WithFile(ctx context.Context, path, module string) context.Context {
	sc := CurrentSpan(ctx)
	sc.File = path
	sc.Module = module
	return WithSpanContext(ctx, sc)
}
