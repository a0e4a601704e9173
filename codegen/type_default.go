package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
)

// ScalarArray stores int, float and text variables as Go scalars or nested
// slices. Read-state is a bool for scalars and one last-index int per
// dimension for arrays.
type ScalarArray struct{}

func (ScalarArray) Name() string { return "scalar-array" }

func (ScalarArray) Responsible(b Binding) bool {
	switch b.Kind {
	case KindInt, KindFloat, KindText:
		return true
	}
	return false
}

func (ScalarArray) ValueKind(b Binding) Kind {
	return b.Kind
}

func (ScalarArray) StorageName(v *expr.Var) string {
	return fmt.Sprintf("var_%s_%dd", v.Name, v.Dims())
}

func (ScalarArray) StorageType(b Binding) jen.Code {
	if b.Dims == 0 {
		return goType(b.Kind)
	}
	t := jen.Index()
	for i := 1; i < b.Dims; i++ {
		t = t.Index()
	}
	return t.Add(goType(b.Kind))
}

func (m ScalarArray) Declare(v *expr.Var, b Binding) []jen.Code {
	name := m.StorageName(v)
	codes := []jen.Code{jen.Var().Id(name).Add(m.StorageType(b))}
	used := []jen.Code{jen.Id(name)}
	if v.Dims() == 0 {
		codes = append(codes, jen.Var().Id(readName(name)).Bool())
		used = append(used, jen.Id(readName(name)))
	} else {
		for i := 0; i < v.Dims(); i++ {
			codes = append(codes, jen.Id(lastIdxName(name, i)).Op(":=").Lit(-1))
			used = append(used, jen.Id(lastIdxName(name, i)))
		}
	}
	return append(codes, blankUse(used...))
}

func (m ScalarArray) Access(v *expr.Var, idx []jen.Code) *jen.Statement {
	st := jen.Id(m.StorageName(v))
	for _, i := range idx {
		st = st.Index(i)
	}
	return st
}

func (m ScalarArray) Assign(v *expr.Var, idx []jen.Code, rhs jen.Code) []jen.Code {
	name := m.StorageName(v)
	if len(idx) == 0 {
		return []jen.Code{jen.Id(name).Op("=").Add(rhs)}
	}
	return growAssign(name, idx, rhs)
}

func (m ScalarArray) ReadCheck(v *expr.Var, idx, raw []jen.Code) *jen.Statement {
	name := m.StorageName(v)
	if v.Dims() == 0 {
		return jen.Id(readName(name))
	}
	terms := make([]jen.Code, len(raw))
	for i, r := range raw {
		terms[i] = jen.Id(lastIdxName(name, i)).Op("==").Add(r)
	}
	return And(terms...)
}

func (m ScalarArray) MarkRead(v *expr.Var, raw []jen.Code) []jen.Code {
	name := m.StorageName(v)
	if v.Dims() == 0 {
		return []jen.Code{jen.Id(readName(name)).Op("=").True()}
	}
	codes := make([]jen.Code, len(raw))
	for i, r := range raw {
		codes[i] = jen.Id(lastIdxName(name, i)).Op("=").Add(r)
	}
	return codes
}

func (m ScalarArray) MarkUnread(v *expr.Var) []jen.Code {
	name := m.StorageName(v)
	if v.Dims() == 0 {
		return []jen.Code{jen.Id(readName(name)).Op("=").False()}
	}
	codes := make([]jen.Code, v.Dims())
	for i := range codes {
		codes[i] = jen.Id(lastIdxName(name, i)).Op("=").Lit(-1)
	}
	return codes
}

func (m ScalarArray) Restore(v *expr.Var, b Binding, cell string) []jen.Code {
	name := m.StorageName(v)
	codes := []jen.Code{
		jen.If(
			jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id(cell).Dot("Value").Assert(m.StorageType(b)),
			jen.Id("ok"),
		).Block(jen.Id(name).Op("=").Id("v")),
	}
	if v.Dims() == 0 {
		return append(codes, jen.Id(readName(name)).Op("=").Id(cell).Dot("Read"))
	}
	for i := 0; i < v.Dims(); i++ {
		codes = append(codes, jen.Id(lastIdxName(name, i)).Op("=").Id(cell).Dot("LastIdx").Index(jen.Lit(i)))
	}
	return codes
}

func (m ScalarArray) Adopt(v *expr.Var, cell string) []jen.Code {
	name := m.StorageName(v)
	codes := []jen.Code{jen.Id(cell).Dot("Value").Op("=").Id(name)}
	if v.Dims() == 0 {
		return append(codes, jen.Id(cell).Dot("Read").Op("=").Id(readName(name)))
	}
	for i := 0; i < v.Dims(); i++ {
		codes = append(codes, jen.Id(cell).Dot("LastIdx").Index(jen.Lit(i)).Op("=").Id(lastIdxName(name, i)))
	}
	return codes
}

func readName(storage string) string {
	return storage + "_read"
}

func lastIdxName(storage string, dim int) string {
	return fmt.Sprintf("%s_lastidx%d", storage, dim)
}

func goType(k Kind) *jen.Statement {
	switch k {
	case KindInt:
		return jen.Int()
	case KindFloat:
		return jen.Float64()
	case KindText:
		return jen.String()
	case KindBool:
		return jen.Bool()
	}
	panic(fmt.Sprintf("no Go type for %s", k))
}
