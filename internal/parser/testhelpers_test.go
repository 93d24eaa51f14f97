package parser

import (
	"errors"
	"testing"

	"aliasc/internal/ast"
	"aliasc/internal/lexer"
	"aliasc/internal/token"
)

// parseSource прогоняет текст через лексер и парсер.
func parseSource(t *testing.T, src string, grammar lexer.Grammar) (*ast.Module, *ast.Builder, error) {
	t.Helper()
	tokens, err := lexer.Lex(src, lexer.Options{Grammar: grammar})
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	b := ast.NewBuilder(ast.Hints{})
	m, err := ParseModule("main", tokens, b, Options{})
	return m, b, err
}

func mustParse(t *testing.T, src string, grammar lexer.Grammar) (*ast.Module, *ast.Builder) {
	t.Helper()
	m, b, err := parseSource(t, src, grammar)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return m, b
}

func asParseError(t *testing.T, err error) *ParseError {
	t.Helper()
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	return pe
}

func intValue(t *testing.T, b *ast.Builder, id ast.ExprID) int32 {
	t.Helper()
	data, ok := b.Exprs.IntLit(id)
	if !ok {
		t.Fatalf("expr %d is not an integer literal", id)
	}
	return data.Value
}

func tokAt(kind token.Kind, value string, start, end uint32) token.Token {
	return token.New(kind, value, rangeAt(start, end))
}
