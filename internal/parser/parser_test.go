package parser

import (
	"errors"
	"strconv"
	"testing"

	"aliasc/internal/ast"
	"aliasc/internal/lexer"
	"aliasc/internal/source"
	"aliasc/internal/token"
	"aliasc/internal/trace"
)

func rangeAt(start, end uint32) source.Range {
	return source.Range{
		Start: source.Offset{Offset: start, Column: start},
		End:   source.Offset{Offset: end, Column: end},
	}
}

func TestParseSingleInteger(t *testing.T) {
	m, b := mustParse(t, "256", lexer.GrammarCore)

	if m.Name != "main" {
		t.Errorf("module name = %q", m.Name)
	}
	if len(m.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(m.Decls))
	}
	d := m.Decls[0]
	if d.IsAlias() {
		t.Errorf("bare expression parsed as alias %q", d.Name)
	}
	if got := intValue(t, b, d.Value); got != 256 {
		t.Errorf("value = %d, want 256", got)
	}
	if d.Range != rangeAt(0, 3) {
		t.Errorf("range = %s", d.Range)
	}
}

func TestParseEmptyInput(t *testing.T) {
	m, _ := mustParse(t, "", lexer.GrammarCore)
	if m == nil || len(m.Decls) != 0 {
		t.Fatalf("expected empty module, got %+v", m)
	}
}

func TestParseIntegerBounds(t *testing.T) {
	tests := []struct {
		src     string
		want    int32
		wantErr bool
	}{
		{"0", 0, false},
		{"007", 7, false},
		{"2147483647", 2147483647, false},
		{"2147483648", 0, true},
		{"99999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			m, b, err := parseSource(t, tt.src, lexer.GrammarCore)
			if tt.wantErr {
				pe := asParseError(t, err)
				if pe.Kind != ErrInvalidInt {
					t.Errorf("kind = %s, want %s", pe.Kind, ErrInvalidInt)
				}
				if pe.Message != "value out of range" {
					t.Errorf("message = %q", pe.Message)
				}
				if !errors.Is(err, strconv.ErrRange) {
					t.Errorf("expected wrapped strconv.ErrRange")
				}
				if pe.Range.Start.Offset != 0 || pe.Range.End.Offset != uint32(len(tt.src)) {
					t.Errorf("range = %s", pe.Range)
				}
				if m != nil {
					t.Errorf("partial module returned on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := intValue(t, b, m.Decls[0].Value); got != tt.want {
				t.Errorf("value = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseAliasesKeepOrder(t *testing.T) {
	src := "b = 1\na = 2\nb = 3\n42"
	m, b := mustParse(t, src, lexer.GrammarAlias)

	type want struct {
		name  string
		value int32
	}
	wants := []want{{"b", 1}, {"a", 2}, {"b", 3}, {"", 42}}
	if len(m.Decls) != len(wants) {
		t.Fatalf("got %d decls, want %d", len(m.Decls), len(wants))
	}
	for i, w := range wants {
		d := m.Decls[i]
		if d.Name != w.name {
			t.Errorf("decl %d name = %q, want %q", i, d.Name, w.name)
		}
		if got := intValue(t, b, d.Value); got != w.value {
			t.Errorf("decl %d value = %d, want %d", i, got, w.value)
		}
	}

	first := m.Decls[0]
	if first.NameRange.Start.Offset != 0 || first.NameRange.End.Offset != 1 {
		t.Errorf("name range = %s", first.NameRange)
	}
	if first.Range.Start.Offset != 0 || first.Range.End.Offset != 5 {
		t.Errorf("decl range = %s", first.Range)
	}
	if m.Decls[1].Range.Start.Line != 1 {
		t.Errorf("second decl line = %d", m.Decls[1].Range.Start.Line)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []token.Token
		kind   ErrorKind
		msg    string
		rng    source.Range
	}{
		{
			name:   "assign without name",
			tokens: []token.Token{tokAt(token.Assign, "=", 0, 1), tokAt(token.Int, "1", 1, 2)},
			kind:   ErrUnexpectedToken,
			msg:    "Unexpected token",
			rng:    rangeAt(0, 1),
		},
		{
			name:   "name without assign",
			tokens: []token.Token{tokAt(token.Ident, "x", 0, 1), tokAt(token.Int, "1", 2, 3)},
			kind:   ErrUnexpectedToken,
			msg:    "Unexpected token",
			rng:    rangeAt(2, 3),
		},
		{
			name:   "name at end",
			tokens: []token.Token{tokAt(token.Ident, "x", 0, 1)},
			kind:   ErrUnexpectedEOF,
			msg:    "Unexpected end of file",
			rng:    rangeAt(1, 1),
		},
		{
			name:   "missing value",
			tokens: []token.Token{tokAt(token.Ident, "x", 0, 1), tokAt(token.Assign, "=", 2, 3)},
			kind:   ErrUnexpectedEOF,
			msg:    "Unexpected end of file",
			rng:    rangeAt(3, 3),
		},
		{
			name:   "identifier as value",
			tokens: []token.Token{tokAt(token.Ident, "x", 0, 1), tokAt(token.Assign, "=", 1, 2), tokAt(token.Ident, "y", 2, 3)},
			kind:   ErrUnexpectedToken,
			msg:    "Unexpected token",
			rng:    rangeAt(2, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseModule("main", tt.tokens, nil, Options{})
			if m != nil {
				t.Errorf("partial module returned on error")
			}
			pe := asParseError(t, err)
			if pe.Kind != tt.kind || pe.Message != tt.msg {
				t.Errorf("got %s %q, want %s %q", pe.Kind, pe.Message, tt.kind, tt.msg)
			}
			if pe.Range != tt.rng {
				t.Errorf("range = %s, want %s", pe.Range, tt.rng)
			}
		})
	}
}

func TestUnexpectedTokenIsNotConsumed(t *testing.T) {
	p := Parser{
		tokens:  []token.Token{tokAt(token.Assign, "=", 0, 1)},
		builder: ast.NewBuilder(ast.Hints{}),
	}
	if _, err := p.parseExpr(); err == nil {
		t.Fatal("expected error")
	}
	if p.pos != 0 {
		t.Errorf("offending token consumed, pos = %d", p.pos)
	}
}

func TestParseExprConsumesOneToken(t *testing.T) {
	p := Parser{
		tokens:  []token.Token{tokAt(token.Int, "7", 0, 1), tokAt(token.Int, "8", 1, 2)},
		builder: ast.NewBuilder(ast.Hints{}),
	}
	id, err := p.parseExpr()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.pos != 1 {
		t.Errorf("pos = %d, want 1", p.pos)
	}
	if got := intValue(t, p.builder, id); got != 7 {
		t.Errorf("value = %d, want 7", got)
	}
}

func TestEOFRangeWithoutTokens(t *testing.T) {
	p := Parser{}
	if _, err := p.peekToken(); err == nil {
		t.Fatal("expected EOF error")
	} else if pe := asParseError(t, err); pe.Range != source.EmptyRange() {
		t.Errorf("range = %s, want empty", pe.Range)
	}
}

func TestParseEmitsTrace(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	tokens := []token.Token{tokAt(token.Int, "1", 0, 1), tokAt(token.Int, "2", 1, 2)}

	if _, err := ParseModule("main", tokens, nil, Options{Tracer: ring}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var begins, points int
	for _, ev := range ring.Snapshot() {
		switch ev.Kind {
		case trace.KindSpanBegin:
			begins++
		case trace.KindPoint:
			points++
		}
	}
	if begins != 1 || points != 2 {
		t.Errorf("begins=%d points=%d, want 1 and 2", begins, points)
	}
}
