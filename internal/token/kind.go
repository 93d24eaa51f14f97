package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Int represents a decimal integer literal.
	Int Kind = iota + 1
	// Ident represents an identifier (alias grammar only).
	Ident
	// Assign represents '=' (alias grammar only).
	Assign // =
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case Ident:
		return "Ident"
	case Assign:
		return "Assign"
	default:
		return "Unknown"
	}
}

// StartsExpr reports whether a token of this kind can begin an expression.
func (k Kind) StartsExpr() bool {
	return k == Int
}
