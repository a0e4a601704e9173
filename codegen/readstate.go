package codegen

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
)

// IsRead renders a condition that holds at run time when v has been
// assigned for the current values of its index variables. Loop variables
// always count as read.
func (g *Generator) IsRead(v *expr.Var) (*jen.Statement, error) {
	m, b, err := g.module(v)
	if err != nil {
		return nil, err
	}
	if b.Loop {
		return jen.True(), nil
	}
	idx, raw, err := g.indices(v)
	if err != nil {
		return nil, err
	}
	return m.ReadCheck(v, idx, raw), nil
}

// IsUnread negates IsRead.
func (g *Generator) IsUnread(v *expr.Var) (*jen.Statement, error) {
	c, err := g.IsRead(v)
	if err != nil {
		return nil, err
	}
	return Not(c), nil
}

// AnyUnread holds when at least one of vars is unread.
func (g *Generator) AnyUnread(vars []*expr.Var) (*jen.Statement, error) {
	conds := make([]jen.Code, 0, len(vars))
	for _, v := range vars {
		c, err := g.IsUnread(v)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return Or(conds...), nil
}

// AllRead holds when every one of vars is read.
func (g *Generator) AllRead(vars []*expr.Var) (*jen.Statement, error) {
	conds := make([]jen.Code, 0, len(vars))
	for _, v := range vars {
		c, err := g.IsRead(v)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return And(conds...), nil
}

// MarkRead emits the statements recording v as read for the current index
// values.
func (g *Generator) MarkRead(v *expr.Var) error {
	m, b, err := g.module(v)
	if err != nil {
		return err
	}
	if b.Loop {
		return bindingErrorf(v, ErrUnsupported, "read-state of loop variable")
	}
	_, raw, err := g.indices(v)
	if err != nil {
		return err
	}
	g.builder.Emit(m.MarkRead(v, raw)...)
	return nil
}

// MarkUnread emits the statements resetting v to unbound.
func (g *Generator) MarkUnread(v *expr.Var) error {
	m, b, err := g.module(v)
	if err != nil {
		return err
	}
	if b.Loop {
		return bindingErrorf(v, ErrUnsupported, "read-state of loop variable")
	}
	g.builder.Emit(m.MarkUnread(v)...)
	return nil
}
