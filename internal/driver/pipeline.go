package driver

import (
	"context"
	"errors"
	"strconv"
	"time"

	"aliasc/internal/ast"
	"aliasc/internal/backend/llvm"
	"aliasc/internal/diag"
	"aliasc/internal/lexer"
	"aliasc/internal/observ"
	"aliasc/internal/parser"
	"aliasc/internal/project"
	"aliasc/internal/source"
	"aliasc/internal/token"
	"aliasc/internal/trace"
)

type stage uint8

const (
	stageLex stage = iota + 1
	stageParse
	stageCodegen
)

// unit — состояние обработки одного файла.
type unit struct {
	fs     *source.FileSet
	fileID source.FileID
	file   *source.File
	opts   Options
	bag    *diag.Bag
	timer  *observ.Timer
	tracer trace.Tracer
	span   *trace.Span

	tokens  []token.Token
	builder *ast.Builder
	module  *ast.Module
	ir      string
	cached  bool
}

func newUnit(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *unit {
	return &unit{
		fs:     fs,
		fileID: fileID,
		file:   fs.Get(fileID),
		opts:   opts,
		bag:    diag.NewBag(opts.MaxDiagnostics),
		timer:  observ.NewTimer(),
		tracer: trace.FromContext(ctx),
	}
}

func (u *unit) moduleName() string {
	if u.opts.ModuleName != "" {
		return u.opts.ModuleName
	}
	return project.ModuleName(u.file.Path)
}

// run проводит файл через фазы до until включительно.
// Ошибки ядра становятся диагностиками; возвращается только отмена контекста.
func (u *unit) run(ctx context.Context, until stage) error {
	ctx, u.span = trace.Start(trace.WithFile(ctx, u.file.Path, u.moduleName()), trace.ScopeModule, "file")
	defer func() {
		detail := ""
		if u.bag.HasErrors() {
			detail = "failed"
		}
		u.span.WithExtra("diagnostics", strconv.Itoa(u.bag.Len())).End(detail)
	}()

	if until == stageCodegen && u.opts.Cache != nil && u.restoreFromCache() {
		trace.Point(u.tracer, trace.ScopeModule, "cache-hit", u.file.Path, u.span.ID())
		return nil
	}

	steps := []struct {
		stage stage
		name  string
		fn    func() bool
	}{
		{stageLex, "lex", u.lex},
		{stageParse, "parse", u.parse},
		{stageCodegen, "codegen", u.codegen},
	}
	for _, step := range steps {
		if step.stage > until {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !u.phase(step.name, step.fn) {
			break
		}
	}

	if until == stageCodegen && u.opts.Cache != nil {
		u.storeToCache()
	}
	return nil
}

// phase оборачивает шаг таймером и событиями наблюдателя.
func (u *unit) phase(name string, fn func() bool) bool {
	u.opts.notifyPhase(PhaseEvent{Path: u.file.Path, Name: name, Status: PhaseStart})
	started := time.Now()
	idx := u.timer.Begin(name)

	ok := fn()

	note := ""
	if !ok {
		note = "failed"
	}
	u.timer.End(idx, note)
	u.opts.notifyPhase(PhaseEvent{Path: u.file.Path, Name: name, Status: PhaseEnd, Elapsed: time.Since(started)})
	return ok
}

func (u *unit) lex() bool {
	tokens, err := lexer.Lex(u.file.Text(), lexer.Options{
		Grammar:     u.opts.Grammar,
		Columns:     u.opts.Columns,
		Tracer:      u.tracer,
		TraceParent: u.span.ID(),
	})
	if err != nil {
		u.bag.Add(diag.FromError(u.fileID, err))
		return false
	}
	u.tokens = tokens
	return true
}

func (u *unit) parse() bool {
	u.builder = ast.NewBuilder(ast.Hints{Exprs: uint(len(u.tokens))})
	mod, err := parser.ParseModule(u.moduleName(), u.tokens, u.builder, parser.Options{
		Tracer:      u.tracer,
		TraceParent: u.span.ID(),
	})
	if err != nil {
		u.bag.Add(diag.FromError(u.fileID, err))
		return false
	}
	u.module = mod
	return true
}

func (u *unit) codegen() bool {
	gen := llvm.NewContext(llvm.Options{
		TargetTriple: u.opts.TargetTriple,
		AddressSpace: u.opts.AddressSpace,
		Tracer:       u.tracer,
		TraceParent:  u.span.ID(),
	})
	ir, err := gen.Generate(u.builder, u.module)
	if err != nil {
		u.bag.Add(codegenDiagnostic(u.fileID, err))
		return false
	}
	u.ir = ir
	return true
}

func codegenDiagnostic(file source.FileID, err error) diag.Diagnostic {
	var dup *llvm.DuplicateGlobalError
	if errors.As(err, &dup) {
		return diag.NewError(diag.GenDuplicateGlobal, file, dup.Range, "duplicate global @"+dup.Name).
			WithNote(dup.First, "first defined here")
	}
	var unsupported *llvm.UnsupportedExprError
	if errors.As(err, &unsupported) {
		return diag.NewError(diag.GenUnsupportedExpr, file, unsupported.Range, err.Error())
	}
	return diag.FromError(file, err)
}

func loadDiagnostic(err error) diag.Diagnostic {
	return diag.NewError(diag.IOLoadFileError, diag.NoFile, source.EmptyRange(), err.Error())
}
