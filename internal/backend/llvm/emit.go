package llvm

import (
	"fmt"
	"strconv"
	"strings"

	"aliasc/internal/ast"
	"aliasc/internal/source"
	"aliasc/internal/trace"
)

type global struct {
	name  string
	value int32
	rng   source.Range
}

// Emitter — состояние генерации одного модуля.
type Emitter struct {
	ctx     *Context
	builder *ast.Builder
	mod     *ast.Module
	buf     strings.Builder
	globals []global
	seen    map[string]source.Range
	span    *trace.Span
}

// Generate lowers module to textual LLVM IR: one i32 global per alias,
// in source order. Bare expressions are not materialised.
func (c *Context) Generate(builder *ast.Builder, mod *ast.Module) (string, error) {
	if mod == nil {
		return "", nil
	}
	span := trace.Begin(c.opts.Tracer, trace.ScopePass, "codegen", c.opts.TraceParent).
		WithExtra("module", mod.Name)

	e := &Emitter{
		ctx:     c,
		builder: builder,
		mod:     mod,
		seen:    make(map[string]source.Range, len(mod.Decls)),
		span:    span,
	}
	if err := e.prepareGlobals(); err != nil {
		span.WithExtra("error", err.Error()).End("failed")
		return "", err
	}
	e.emitPreamble()
	e.emitGlobals()

	span.WithExtra("globals", strconv.Itoa(len(e.globals))).End("")
	return e.buf.String(), nil
}

func (e *Emitter) prepareGlobals() error {
	for _, d := range e.mod.Decls {
		if !d.IsAlias() {
			continue
		}
		if first, dup := e.seen[d.Name]; dup {
			return &DuplicateGlobalError{Name: d.Name, First: first, Range: d.Range}
		}
		lit, ok := e.builder.Exprs.IntLit(d.Value)
		if !ok {
			return &UnsupportedExprError{Name: d.Name, Range: d.Range}
		}
		e.seen[d.Name] = d.Range
		e.globals = append(e.globals, global{name: d.Name, value: lit.Value, rng: d.Range})
		trace.Point(e.ctx.opts.Tracer, trace.ScopeNode, "global", d.Name, e.span.ID())
	}
	return nil
}

func (e *Emitter) emitPreamble() {
	fmt.Fprintf(&e.buf, "; ModuleID = '%s'\n", e.mod.Name)
	fmt.Fprintf(&e.buf, "source_filename = %s\n", quoteString(e.mod.Name))
	if triple := e.ctx.opts.TargetTriple; triple != "" {
		fmt.Fprintf(&e.buf, "target triple = %s\n", quoteString(triple))
	}
}

func (e *Emitter) emitGlobals() {
	if len(e.globals) == 0 {
		return
	}
	e.buf.WriteString("\n")
	addrspace := ""
	if as := e.ctx.opts.AddressSpace; as != 0 {
		addrspace = fmt.Sprintf(" addrspace(%d)", as)
	}
	for _, g := range e.globals {
		fmt.Fprintf(&e.buf, "@%s =%s global i32 %d\n", g.name, addrspace, g.value)
	}
}

// quoteString экранирует строку в синтаксисе LLVM: непечатаемые байты, '"' и '\' как \XX.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c >= 0x7f || c == '"' || c == '\\' {
			fmt.Fprintf(&b, "\\%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}
