package codegen

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
	"github.com/pkg/errors"
)

// OpenSection descends into the section named by v, creating nodes on
// first access. Each index of v adds one more level keyed by the index
// value. The enclosing node is kept in a block-local parent and restored
// by CloseSection.
func (g *Generator) OpenSection(v *expr.Var) error {
	_, raw, err := g.indices(v)
	if err != nil {
		return err
	}
	g.builder.Comment("open section %s", v)
	g.builder.OpenBlock(frameSection)
	g.builder.Emit(
		jen.Id(parentName).Op(":=").Id(nodeName),
		jen.Id(nodeName).Op("=").Id(nodeName).Dot("Section").Call(jen.Lit(v.Name)),
	)
	for _, r := range raw {
		g.builder.Emit(jen.Id(nodeName).Op("=").Id(nodeName).Dot("Section").Call(r))
	}
	g.builder.Emit(blankUse(jen.Id(parentName)))
	g.EnterScope()
	g.fn.sections++
	return nil
}

// CloseSection returns to the node that was current before the matching
// OpenSection.
func (g *Generator) CloseSection() error {
	if g.fn == nil || g.fn.sections == 0 {
		return errors.Wrap(ErrUnbalanced, "close section without open section")
	}
	g.builder.Emit(jen.Id(nodeName).Op("=").Id(parentName))
	if err := g.builder.Close(frameSection); err != nil {
		return err
	}
	g.fn.sections--
	return g.ExitScope()
}

// Store emits the statement saving the element of v selected by its
// current indices in the current node. Indexed variables are stored in
// nested nodes keyed by the index values: X[i,j] lands in
// node["X"][i][j].
func (g *Generator) Store(v *expr.Var) error {
	m, b, err := g.module(v)
	if err != nil {
		return err
	}
	if b.Loop {
		return bindingErrorf(v, ErrUnsupported, "storing loop variable")
	}
	idx, raw, err := g.indices(v)
	if err != nil {
		return err
	}
	value := m.Access(v, idx)
	if len(raw) == 0 {
		g.builder.Emit(storeCode(v.Name, value))
		return nil
	}
	target := jen.Id(nodeName).Dot("Section").Call(jen.Lit(v.Name))
	for _, r := range raw[:len(raw)-1] {
		target = target.Dot("Section").Call(r)
	}
	g.builder.Emit(target.Index(raw[len(raw)-1]).Op("=").Add(value))
	return nil
}

func storeCode(key string, value jen.Code) jen.Code {
	return jen.Id(nodeName).Index(jen.Lit(key)).Op("=").Add(value)
}
