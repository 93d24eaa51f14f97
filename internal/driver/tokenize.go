package driver

import (
	"context"
	"fmt"

	"aliasc/internal/diag"
	"aliasc/internal/observ"
	"aliasc/internal/source"
	"aliasc/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	FileID  source.FileID
	Tokens  []token.Token
	Bag     *diag.Bag
	Timer   *observ.Timer
}

// Tokenize загружает файл и прогоняет лексер.
// Ошибка возвращается только при невозможности прочитать файл или отмене.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	u, err := loadUnit(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if err := u.run(ctx, stageLex); err != nil {
		return nil, err
	}
	return &TokenizeResult{
		FileSet: u.fs,
		File:    u.file,
		FileID:  u.fileID,
		Tokens:  u.tokens,
		Bag:     u.bag,
		Timer:   u.timer,
	}, nil
}

// loadUnit читает один файл в собственный FileSet; чтение попадает в таймер как фаза "load".
func loadUnit(ctx context.Context, path string, opts Options) (*unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timer := observ.NewTimer()
	fs := source.NewFileSet()
	var fileID source.FileID
	err := timer.Measure("load", func() error {
		var loadErr error
		fileID, loadErr = fs.Load(path)
		return loadErr
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	u := newUnit(ctx, fs, fileID, opts)
	u.timer = timer
	return u, nil
}
