package ast

import (
	"aliasc/internal/source"
)

type ExprKind uint8

const (
	ExprIntLit ExprKind = iota + 1
)

func (k ExprKind) String() string {
	switch k {
	case ExprIntLit:
		return "IntLit"
	default:
		return "Unknown"
	}
}

type Expr struct {
	Kind    ExprKind
	Range   source.Range
	Payload PayloadID
}

// ExprIntLitData хранит значение целочисленного литерала.
type ExprIntLitData struct {
	Value int32
	Text  string // исходный срез токена
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena *Arena[Expr]
	Ints  *Arena[ExprIntLitData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena: NewArena[Expr](capHint),
		Ints:  NewArena[ExprIntLitData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, rng source.Range, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Range:   rng,
		Payload: payload,
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewIntLit(rng source.Range, value int32, text string) ExprID {
	payload := PayloadID(e.Ints.Allocate(ExprIntLitData{Value: value, Text: text}))
	return e.new(ExprIntLit, rng, payload)
}

// IntLit returns the literal payload, or ok=false when id is not an integer literal.
func (e *Exprs) IntLit(id ExprID) (*ExprIntLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIntLit {
		return nil, false
	}
	return e.Ints.Get(uint32(expr.Payload)), true
}
