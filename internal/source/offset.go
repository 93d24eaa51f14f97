package source

import (
	"fmt"
)

// Offset is a position inside a source text.
// Offset counts consumed characters (runes), Line and Column are 0-based.
type Offset struct {
	Offset uint32 `json:"offset" msgpack:"o"`
	Line   uint32 `json:"line" msgpack:"l"`
	Column uint32 `json:"column" msgpack:"c"`
}

// String formats the position as "line:column".
func (o Offset) String() string {
	return fmt.Sprintf("%d:%d", o.Line, o.Column)
}

// Before reports whether o lies strictly before other.
func (o Offset) Before(other Offset) bool {
	return o.Offset < other.Offset
}

// Range is a half-open interval [Start, End) over source positions.
type Range struct {
	Start Offset `json:"start" msgpack:"s"`
	End   Offset `json:"end" msgpack:"e"`
}

// EmptyRange returns the range anchored at the origin.
func EmptyRange() Range {
	return Range{}
}

// At returns a zero-length range at o.
func At(o Offset) Range {
	return Range{Start: o, End: o}
}

func (r Range) Empty() bool {
	return r.Start.Offset == r.End.Offset
}

// Len returns the number of characters covered by the range.
func (r Range) Len() uint32 {
	return r.End.Offset - r.Start.Offset
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Cover returns the smallest range containing both r and other.
func (r Range) Cover(other Range) Range {
	if other.Start.Before(r.Start) {
		r.Start = other.Start
	}
	if r.End.Before(other.End) {
		r.End = other.End
	}
	return r
}

// Contains reports whether other lies entirely inside r.
func (r Range) Contains(other Range) bool {
	return !other.Start.Before(r.Start) && !r.End.Before(other.End)
}

// Valid reports whether Start does not come after End.
func (r Range) Valid() bool {
	return !r.End.Before(r.Start)
}
