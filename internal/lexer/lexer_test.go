package lexer_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"aliasc/internal/lexer"
	"aliasc/internal/source"
	"aliasc/internal/token"
)

func off(o, line, col uint32) source.Offset {
	return source.Offset{Offset: o, Line: line, Column: col}
}

func rng(start, end source.Offset) source.Range {
	return source.Range{Start: start, End: end}
}

func aliasOpts() lexer.Options {
	return lexer.Options{Grammar: lexer.GrammarAlias}
}

// tokensToString компактно печатает токены для сообщений об ошибках
func tokensToString(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		parts = append(parts, t.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectTokens(t *testing.T, got, want []token.Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d %s, want %d %s",
			len(got), tokensToString(got), len(want), tokensToString(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s range %s, want %s range %s",
				i, got[i], got[i].Range, want[i], want[i].Range)
		}
	}
}

func expectLexError(t *testing.T, err error, line, col uint32) *lexer.LexError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected lex error at %d:%d, got nil", line, col)
	}
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.LexError, got %T: %v", err, err)
	}
	if lexErr.Message != "Unexpected token" {
		t.Errorf("message: got %q, want %q", lexErr.Message, "Unexpected token")
	}
	if lexErr.Line != line || lexErr.Column != col {
		t.Errorf("position: got %d:%d, want %d:%d", lexErr.Line, lexErr.Column, line, col)
	}
	return lexErr
}

func TestLexSingleInteger(t *testing.T) {
	toks, err := lexer.Lex("256", lexer.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectTokens(t, toks, []token.Token{
		token.IntLit("256", rng(off(0, 0, 0), off(3, 0, 3))),
	})
}

func TestLexEmptyInput(t *testing.T) {
	toks, err := lexer.Lex("", lexer.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks == nil {
		t.Fatal("expected empty non-nil slice")
	}
	if len(toks) != 0 {
		t.Fatalf("expected no tokens, got %s", tokensToString(toks))
	}
}

func TestLexCoreRejectsNonDigits(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line uint32
		col  uint32
		ch   rune
	}{
		{"letter after digits", "12a", 0, 2, 'a'},
		{"leading space", " 1", 0, 0, ' '},
		{"newline", "1\n2", 0, 1, '\n'},
		{"sign", "-5", 0, 0, '-'},
		{"identifier", "x", 0, 0, 'x'},
		{"assign", "=", 0, 0, '='},
		{"non-ascii digit", "٣", 0, 0, '٣'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexer.Lex(tt.src, lexer.Options{})
			if toks != nil {
				t.Errorf("expected no tokens on failure, got %s", tokensToString(toks))
			}
			lexErr := expectLexError(t, err, tt.line, tt.col)
			if lexErr.Char != tt.ch {
				t.Errorf("char: got %q, want %q", lexErr.Char, tt.ch)
			}
		})
	}
}

func TestLexAliasGrammar(t *testing.T) {
	toks, err := lexer.Lex("x = 1\ny=22", aliasOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectTokens(t, toks, []token.Token{
		token.New(token.Ident, "x", rng(off(0, 0, 0), off(1, 0, 1))),
		token.New(token.Assign, "=", rng(off(2, 0, 2), off(3, 0, 3))),
		token.IntLit("1", rng(off(4, 0, 4), off(5, 0, 5))),
		token.New(token.Ident, "y", rng(off(6, 1, 0), off(7, 1, 1))),
		token.New(token.Assign, "=", rng(off(7, 1, 1), off(8, 1, 2))),
		token.IntLit("22", rng(off(8, 1, 2), off(10, 1, 4))),
	})
}

func TestLexMonotonicColumns(t *testing.T) {
	opts := aliasOpts()
	opts.Columns = source.ColumnMonotonic

	toks, err := lexer.Lex("1\n23", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectTokens(t, toks, []token.Token{
		token.IntLit("1", rng(off(0, 0, 0), off(1, 0, 1))),
		token.IntLit("23", rng(off(2, 1, 2), off(4, 1, 4))),
	})
}

func TestLexAliasIdentifiers(t *testing.T) {
	tests := []struct {
		src   string
		kinds []token.Kind
		vals  []string
	}{
		{"_a1", []token.Kind{token.Ident}, []string{"_a1"}},
		{"1abc", []token.Kind{token.Int, token.Ident}, []string{"1", "abc"}},
		{"a=b", []token.Kind{token.Ident, token.Assign, token.Ident}, []string{"a", "=", "b"}},
		{"\t\r\n 7 ", []token.Kind{token.Int}, []string{"7"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.src), func(t *testing.T) {
			toks, err := lexer.Lex(tt.src, aliasOpts())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(toks) != len(tt.kinds) {
				t.Fatalf("got %s, want %d tokens", tokensToString(toks), len(tt.kinds))
			}
			for i, tok := range toks {
				if tok.Kind != tt.kinds[i] || tok.Value != tt.vals[i] {
					t.Errorf("token %d: got %s, want %s(%q)", i, tok, tt.kinds[i], tt.vals[i])
				}
			}
		})
	}
}

func TestLexAliasRejects(t *testing.T) {
	_, err := lexer.Lex("x = @", aliasOpts())
	expectLexError(t, err, 0, 4)

	_, err = lexer.Lex("a\né", aliasOpts())
	lexErr := expectLexError(t, err, 1, 0)
	if lexErr.Offset != 2 {
		t.Errorf("offset: got %d, want 2", lexErr.Offset)
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lx := lexer.New("a = 1", aliasOpts())

	peeked, ok, err := lx.Peek()
	if err != nil || !ok {
		t.Fatalf("peek: ok=%v err=%v", ok, err)
	}
	next, ok, err := lx.Next()
	if err != nil || !ok {
		t.Fatalf("next: ok=%v err=%v", ok, err)
	}
	if peeked != next {
		t.Errorf("peek %s != next %s", peeked, next)
	}

	count := 1
	for {
		_, ok, err := lx.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 tokens, got %d", count)
	}
}

func TestLexerErrorIsSticky(t *testing.T) {
	lx := lexer.New("1?2", lexer.Options{})

	if _, ok, err := lx.Next(); err != nil || !ok {
		t.Fatalf("first token: ok=%v err=%v", ok, err)
	}
	_, _, first := lx.Next()
	_, _, second := lx.Next()
	if first == nil || first != second {
		t.Fatalf("expected the same error twice, got %v and %v", first, second)
	}
	if pos := lx.Position(); pos.Offset != 1 {
		t.Errorf("lexer advanced past the error: %s", pos)
	}
}

func TestLexErrorRange(t *testing.T) {
	err := &lexer.LexError{Message: lexer.MsgUnexpectedToken, Line: 2, Column: 3, Offset: 9, Char: 'q'}
	r := err.Range()
	if r.Start != off(9, 2, 3) || r.End != off(10, 2, 4) {
		t.Errorf("unexpected range %s", r)
	}
	if !strings.Contains(err.Error(), "2:3") {
		t.Errorf("error text lacks position: %q", err.Error())
	}
}

func TestParseGrammar(t *testing.T) {
	tests := []struct {
		in      string
		want    lexer.Grammar
		wantErr bool
	}{
		{"", lexer.GrammarCore, false},
		{"core", lexer.GrammarCore, false},
		{"alias", lexer.GrammarAlias, false},
		{"rust", lexer.GrammarCore, true},
	}
	for _, tt := range tests {
		got, err := lexer.ParseGrammar(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGrammar(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseGrammar(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
