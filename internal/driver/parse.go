package driver

import (
	"context"

	"aliasc/internal/ast"
	"aliasc/internal/diag"
	"aliasc/internal/observ"
	"aliasc/internal/source"
	"aliasc/internal/token"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	FileID  source.FileID
	Tokens  []token.Token
	Builder *ast.Builder
	// Module is nil when lexing or parsing failed; see Bag.
	Module *ast.Module
	Bag    *diag.Bag
	Timer  *observ.Timer
}

func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	u, err := loadUnit(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if err := u.run(ctx, stageParse); err != nil {
		return nil, err
	}
	return u.parseResult(), nil
}

func (u *unit) parseResult() *ParseResult {
	return &ParseResult{
		FileSet: u.fs,
		File:    u.file,
		FileID:  u.fileID,
		Tokens:  u.tokens,
		Builder: u.builder,
		Module:  u.module,
		Bag:     u.bag,
		Timer:   u.timer,
	}
}
