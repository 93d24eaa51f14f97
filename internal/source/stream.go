package source

import (
	"iter"
	"unicode/utf8"
)

// Stream — курсор по тексту: lookahead на один символ и потребление
// с обновлением offset/line/column.
type Stream struct {
	text    string
	byteOff int // позиция следующего символа в байтах
	pos     Offset
	mode    ColumnMode
}

// NewStream creates a stream over text using the given column policy.
func NewStream(text string, mode ColumnMode) *Stream {
	return &Stream{text: text, mode: mode}
}

// Peek returns the next character without consuming it.
func (s *Stream) Peek() (rune, bool) {
	if s.byteOff >= len(s.text) {
		return 0, false
	}
	r, _ := s.decode()
	return r, true
}

// Consume returns the next character and moves past it.
func (s *Stream) Consume() (rune, bool) {
	if s.byteOff >= len(s.text) {
		return 0, false
	}
	r, size := s.decode()
	s.byteOff += size
	s.pos.Offset++
	s.pos.Column++
	if r == '\n' {
		s.pos.Line++
		if s.mode == ColumnReset {
			s.pos.Column = 0
		}
	}
	return r, true
}

// TakeWhile returns a single-use sequence that consumes characters while pred
// holds. The first character failing pred is left in the stream.
func (s *Stream) TakeWhile(pred func(rune) bool) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for {
			r, ok := s.Peek()
			if !ok || !pred(r) {
				return
			}
			s.Consume()
			if !yield(r) {
				return
			}
		}
	}
}

// Position returns a snapshot of the cursor.
func (s *Stream) Position() Offset {
	return s.pos
}

// EOF reports whether every character has been consumed.
func (s *Stream) EOF() bool {
	return s.byteOff >= len(s.text)
}

func (s *Stream) decode() (rune, int) {
	b := s.text[s.byteOff]
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRuneInString(s.text[s.byteOff:])
}
