package diag

import (
	"errors"

	"aliasc/internal/lexer"
	"aliasc/internal/parser"
	"aliasc/internal/source"
)

// FromError переводит ошибку ядра (лексер/парсер) в диагностику.
// Неизвестные ошибки получают UnknownCode и пустой диапазон.
func FromError(file source.FileID, err error) Diagnostic {
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return NewError(LexUnexpectedChar, file, lexErr.Range(), lexErr.Message).
			WithNote(lexErr.Range(), "unexpected character "+quoteRune(lexErr.Char))
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return NewError(parseCode(parseErr.Kind), file, parseErr.Range, parseErr.Message)
	}

	return NewError(UnknownCode, file, source.EmptyRange(), err.Error())
}

func parseCode(kind parser.ErrorKind) Code {
	switch kind {
	case parser.ErrUnexpectedToken:
		return SynUnexpectedToken
	case parser.ErrUnexpectedEOF:
		return SynUnexpectedEOF
	case parser.ErrInvalidInt:
		return SynBadIntLiteral
	default:
		return SynInfo
	}
}

func quoteRune(r rune) string {
	if r == '\n' {
		return `'\n'`
	}
	return "'" + string(r) + "'"
}
