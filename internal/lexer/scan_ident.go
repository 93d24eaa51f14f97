package lexer

import (
	"strings"

	"aliasc/internal/source"
	"aliasc/internal/token"
)

// scanIdent сканирует [Ident]; вызывается только в GrammarAlias.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.stream.Position()

	var sb strings.Builder
	for r := range lx.stream.TakeWhile(isIdentContinue) {
		sb.WriteRune(r)
	}

	return token.New(token.Ident, sb.String(), source.Range{Start: start, End: lx.stream.Position()})
}

func (lx *Lexer) scanAssign() token.Token {
	start := lx.stream.Position()
	lx.stream.Consume()
	return token.New(token.Assign, "=", source.Range{Start: start, End: lx.stream.Position()})
}

func (lx *Lexer) skipSpace() {
	for range lx.stream.TakeWhile(isSpace) {
	}
}
