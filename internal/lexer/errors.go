package lexer

import (
	"fmt"

	"aliasc/internal/source"
)

// MsgUnexpectedToken is the message of every lexing failure.
const MsgUnexpectedToken = "Unexpected token"

// LexError reports a character outside the token grammar.
// Line and Column are 0-based; Offset is the absolute character offset.
type LexError struct {
	Message string
	Line    uint32
	Column  uint32
	Offset  uint32
	Char    rune // offending character
}

func newLexError(pos source.Offset, ch rune) *LexError {
	return &LexError{
		Message: MsgUnexpectedToken,
		Line:    pos.Line,
		Column:  pos.Column,
		Offset:  pos.Offset,
		Char:    ch,
	}
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s %q at %d:%d", e.Message, e.Char, e.Line, e.Column)
}

// Position returns the failure position.
func (e *LexError) Position() source.Offset {
	return source.Offset{Offset: e.Offset, Line: e.Line, Column: e.Column}
}

// Range returns a one-character range at the failure position.
func (e *LexError) Range() source.Range {
	start := e.Position()
	end := start
	end.Offset++
	end.Column++
	return source.Range{Start: start, End: end}
}
