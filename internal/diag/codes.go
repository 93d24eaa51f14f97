package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo           Code = 1000
	LexUnexpectedChar Code = 1001

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnexpectedEOF   Code = 2002
	SynBadIntLiteral   Code = 2003

	// Кодогенерация
	GenInfo            Code = 4000
	GenDuplicateGlobal Code = 4001
	GenUnsupportedExpr Code = 4002

	IOLoadFileError Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:        "Unknown error",
		LexInfo:            "Lexical information",
		LexUnexpectedChar:  "Unexpected character",
		SynInfo:            "Syntax information",
		SynUnexpectedToken: "Unexpected token",
		SynUnexpectedEOF:   "Unexpected end of file",
		SynBadIntLiteral:   "Invalid integer literal",
		GenInfo:            "Code generation information",
		GenDuplicateGlobal: "Duplicate global definition",
		GenUnsupportedExpr: "Unsupported global initializer",
		IOLoadFileError:    "I/O load file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
