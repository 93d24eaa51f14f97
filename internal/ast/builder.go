package ast

type Hints struct{ Exprs uint }

// Builder владеет аренами узлов; модуль ссылается на них через ExprID.
type Builder struct {
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 6
	}
	return &Builder{
		Exprs: NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewModule(name string) *Module {
	return &Module{
		Name:  name,
		Decls: make([]Decl, 0),
	}
}

func (b *Builder) PushDecl(m *Module, d Decl) {
	m.Decls = append(m.Decls, d)
	m.Range = m.Range.Cover(d.Range)
}
