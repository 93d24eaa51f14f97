package parser

import (
	"fmt"

	"aliasc/internal/source"
)

const (
	MsgUnexpectedEOF   = "Unexpected end of file"
	MsgUnexpectedToken = "Unexpected token"
)

// ErrorKind classifies a ParseError.
type ErrorKind uint8

const (
	ErrUnexpectedToken ErrorKind = iota + 1
	ErrUnexpectedEOF
	ErrInvalidInt
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected-token"
	case ErrUnexpectedEOF:
		return "unexpected-eof"
	case ErrInvalidInt:
		return "invalid-int"
	default:
		return "unknown"
	}
}

// ParseError reports the first syntax failure.
// For ErrInvalidInt, Err holds the numeric conversion error and Message its description.
type ParseError struct {
	Message string
	Range   source.Range
	Kind    ErrorKind
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Range.Start)
}

func (e *ParseError) Unwrap() error { return e.Err }
