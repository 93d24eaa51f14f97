package lexer

import (
	"fmt"

	"aliasc/internal/source"
	"aliasc/internal/trace"
)

// Grammar selects the accepted token set.
type Grammar uint8

const (
	// GrammarCore accepts decimal digit runs only; every other character,
	// whitespace included, is an error.
	GrammarCore Grammar = iota
	// GrammarAlias additionally skips whitespace and accepts identifiers and '='.
	GrammarAlias
)

func (g Grammar) String() string {
	switch g {
	case GrammarCore:
		return "core"
	case GrammarAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// ParseGrammar converts a flag/manifest value to a Grammar.
func ParseGrammar(s string) (Grammar, error) {
	switch s {
	case "", "core":
		return GrammarCore, nil
	case "alias":
		return GrammarAlias, nil
	default:
		return GrammarCore, fmt.Errorf("invalid grammar: %q (expected: core|alias)", s)
	}
}

type Options struct {
	Grammar Grammar
	Columns source.ColumnMode
	// Tracer получает события лексера; nil — trace.Nop.
	Tracer      trace.Tracer
	TraceParent uint64
}
