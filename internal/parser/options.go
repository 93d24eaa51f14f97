package parser

import "aliasc/internal/trace"

type Options struct {
	// Tracer получает события разбора; nil — trace.Nop.
	Tracer      trace.Tracer
	TraceParent uint64
}
