package ast

import (
	"aliasc/internal/source"
)

// Decl is one top-level declaration. A bare expression has an empty Name;
// an alias binds Name to Value.
type Decl struct {
	Name      string
	NameRange source.Range
	Value     ExprID
	Range     source.Range
}

func (d Decl) IsAlias() bool { return d.Name != "" }

// Alias is a view over a named declaration.
type Alias struct {
	Name  string
	Value ExprID
}

// Module — результат разбора одного источника. Decls хранятся в порядке исходника,
// без перестановок и дедупликации.
type Module struct {
	Name  string
	Decls []Decl
	Range source.Range
}

// Aliases returns the named declarations in source order.
func (m *Module) Aliases() []Alias {
	out := make([]Alias, 0, len(m.Decls))
	for _, d := range m.Decls {
		if d.IsAlias() {
			out = append(out, Alias{Name: d.Name, Value: d.Value})
		}
	}
	return out
}

// Exprs returns the values of bare expression declarations in source order.
func (m *Module) Exprs() []ExprID {
	var out []ExprID
	for _, d := range m.Decls {
		if !d.IsAlias() {
			out = append(out, d.Value)
		}
	}
	return out
}
