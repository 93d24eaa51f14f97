package lexer

import (
	"strings"

	"aliasc/internal/source"
	"aliasc/internal/token"
)

// scanNumber consumes a maximal run of decimal digits.
// Никаких знаков, разделителей и суффиксов: значение — ровно исходный срез.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.stream.Position()

	var sb strings.Builder
	for r := range lx.stream.TakeWhile(isDec) {
		sb.WriteRune(r)
	}

	return token.IntLit(sb.String(), source.Range{Start: start, End: lx.stream.Position()})
}
