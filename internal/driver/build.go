package driver

import "context"

type BuildResult struct {
	ParseResult
	// IR — текстовый LLVM IR; пусто, если были ошибки.
	IR string
	// Cached is true when the result came from DiskCache; Tokens is empty then.
	Cached bool
}

// Build проводит файл через все фазы, включая генерацию IR.
func Build(ctx context.Context, path string, opts Options) (*BuildResult, error) {
	u, err := loadUnit(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if err := u.run(ctx, stageCodegen); err != nil {
		return nil, err
	}
	return u.buildResult(), nil
}

func (u *unit) buildResult() *BuildResult {
	return &BuildResult{
		ParseResult: *u.parseResult(),
		IR:          u.ir,
		Cached:      u.cached,
	}
}
