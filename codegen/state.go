package codegen

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
)

// cellName is the local holding the endf.Cell of a persistent variable.
func cellName(storage string) string {
	return "glob_" + storage
}

// restoreState fetches the cell of persistent variable v from the state
// parameter and loads value and read-state from it.
func (g *Generator) restoreState(v *expr.Var, b Binding, m TypeModule) {
	cell := cellName(m.StorageName(v))
	g.builder.Comment("restore %s from state", v)
	g.builder.Emit(jen.Id(cell).Op(":=").Id(stateName).Dot("Cell").Call(jen.Lit(v.Name), jen.Lit(v.Dims())))
	g.builder.Emit(m.Restore(v, b, cell)...)
	g.fn.persistent = append(g.fn.persistent, v)
}

// adoptState writes every persistent variable back to its cell.
func (g *Generator) adoptState() error {
	for _, v := range g.fn.persistent {
		m, _, err := g.module(v)
		if err != nil {
			return err
		}
		g.builder.Comment("save %s to state", v)
		g.builder.Emit(m.Adopt(v, cellName(m.StorageName(v)))...)
	}
	return nil
}
