package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
)

// Matrix2D stores two-dimensional float variables in an endf.Matrix2D.
// The matrix records which elements were written, so its read check asks
// about the exact element rather than the last index per dimension.
type Matrix2D struct{}

func (Matrix2D) Name() string { return "matrix2d" }

func (Matrix2D) Responsible(b Binding) bool {
	return b.Kind == KindMatrix2D && b.Dims == 2
}

func (Matrix2D) ValueKind(Binding) Kind {
	return KindFloat
}

func (Matrix2D) StorageName(v *expr.Var) string {
	return fmt.Sprintf("mat_%s_%dd", v.Name, v.Dims())
}

func (Matrix2D) StorageType(Binding) jen.Code {
	return jen.Op("*").Qual(RuntimePath, "Matrix2D")
}

func (m Matrix2D) Declare(v *expr.Var, b Binding) []jen.Code {
	name := m.StorageName(v)
	return []jen.Code{
		jen.Id(name).Op(":=").Qual(RuntimePath, "NewMatrix2D").Call(),
		blankUse(jen.Id(name)),
	}
}

func (m Matrix2D) Access(v *expr.Var, idx []jen.Code) *jen.Statement {
	return jen.Id(m.StorageName(v)).Dot("At").Call(idx...)
}

func (m Matrix2D) Assign(v *expr.Var, idx []jen.Code, rhs jen.Code) []jen.Code {
	args := append(append([]jen.Code(nil), idx...), rhs)
	return []jen.Code{jen.Id(m.StorageName(v)).Dot("Set").Call(args...)}
}

func (m Matrix2D) ReadCheck(v *expr.Var, idx, raw []jen.Code) *jen.Statement {
	return jen.Id(m.StorageName(v)).Dot("Has").Call(idx...)
}

// MarkRead has nothing to do: Set marks the element.
func (Matrix2D) MarkRead(*expr.Var, []jen.Code) []jen.Code {
	return nil
}

func (m Matrix2D) MarkUnread(v *expr.Var) []jen.Code {
	return []jen.Code{jen.Id(m.StorageName(v)).Dot("ClearRead").Call()}
}

func (m Matrix2D) Restore(v *expr.Var, b Binding, cell string) []jen.Code {
	name := m.StorageName(v)
	return []jen.Code{
		jen.If(
			jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id(cell).Dot("Value").Assert(m.StorageType(b)),
			jen.Id("ok"),
		).Block(jen.Id(name).Op("=").Id("v")),
	}
}

func (m Matrix2D) Adopt(v *expr.Var, cell string) []jen.Code {
	return []jen.Code{jen.Id(cell).Dot("Value").Op("=").Id(m.StorageName(v))}
}
