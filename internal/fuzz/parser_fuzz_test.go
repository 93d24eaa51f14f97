package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"aliasc/internal/ast"
	"aliasc/internal/backend/llvm"
	"aliasc/internal/lexer"
	"aliasc/internal/parser"
	"aliasc/internal/source"
	"aliasc/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input.
// If processing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsModule(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.al", input)
		toks, err := lexer.Lex(fs.Get(fileID).Text(), lexer.Options{Grammar: lexer.GrammarAlias})
		if err != nil {
			return
		}

		b := ast.NewBuilder(ast.Hints{})
		m, err := parser.ParseModule("fuzz", toks, b, parser.Options{})
		if err != nil {
			var parseErr *parser.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if m != nil {
				t.Fatal("module returned alongside error")
			}
			return
		}
		if err := testkit.CheckModuleInvariants(b, m); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}

		// генератор либо выдаёт IR, либо типизированную ошибку
		_, genErr := llvm.NewContext(llvm.Options{}).Generate(b, m)
		var dup *llvm.DuplicateGlobalError
		if genErr != nil && !errors.As(genErr, &dup) {
			t.Fatalf("unexpected codegen error %T: %v", genErr, genErr)
		}
	})
}

// FuzzParserNoHang tests that lexing and parsing terminate on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("x = 1 y = 2 z"))
	f.Add([]byte("= = = = ="))
	f.Add([]byte("1 2 3 4 5 6 7 8 9 0"))
	f.Add([]byte("a=1\n\n\n\n\n\nb=2"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			toks, err := lexer.Lex(string(input), lexer.Options{Grammar: lexer.GrammarAlias})
			if err != nil {
				return
			}
			_, _ = parser.ParseModule("fuzz", toks, nil, parser.Options{})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
