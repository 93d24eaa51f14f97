package token

import (
	"fmt"

	"aliasc/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Value string
	Kind  Kind
	Range source.Range
}

// New builds a token of the given kind.
func New(kind Kind, value string, rng source.Range) Token {
	return Token{Value: value, Kind: kind, Range: rng}
}

// IntLit builds an Int token.
func IntLit(value string, rng source.Range) Token {
	return New(Int, value, rng)
}

// IsLiteral reports whether the token is a literal.
func (t Token) IsLiteral() bool {
	return t.Kind == Int
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Value, t.Range.Start)
}
