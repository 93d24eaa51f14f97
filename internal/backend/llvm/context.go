package llvm

import "aliasc/internal/trace"

type Options struct {
	// TargetTriple пишется в модуль, если не пусто.
	TargetTriple string
	// AddressSpace глобалов; 0 — адресное пространство по умолчанию.
	AddressSpace uint16
	Tracer       trace.Tracer
	TraceParent  uint64
}

// Context holds code generation settings. It carries no per-module state,
// so one Context may generate any number of modules, also concurrently.
type Context struct {
	opts Options
}

func NewContext(opts Options) *Context {
	opts.Tracer = trace.OrNop(opts.Tracer)
	return &Context{opts: opts}
}

func (c *Context) Options() Options { return c.opts }
