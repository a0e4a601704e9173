package codegen

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
)

// indices resolves the indices of v. raw holds the logical index values,
// idx the storage indices: loop value minus the loop's shift. Literal
// indices are used as they are.
func (g *Generator) indices(v *expr.Var) (idx, raw []jen.Code, err error) {
	for _, i := range v.Indices {
		switch x := i.(type) {
		case *expr.Num:
			if !x.IsInt() {
				return nil, nil, bindingErrorf(v, ErrUnsupported, "index %s", x)
			}
			idx = append(idx, jen.Lit(x.Int()))
			raw = append(raw, jen.Lit(x.Int()))

		case *expr.Var:
			b, err := g.scope.Resolve(x)
			if err != nil {
				return nil, nil, err
			}
			if !b.Loop {
				return nil, nil, bindingErrorf(x, ErrNotLoopVariable, "in %s", v)
			}
			value, err := g.Access(x)
			if err != nil {
				return nil, nil, err
			}
			raw = append(raw, value)
			shifted, err := g.shifted(x, b)
			if err != nil {
				return nil, nil, err
			}
			idx = append(idx, shifted)

		default:
			return nil, nil, bindingErrorf(v, ErrUnsupported, "index %s", i)
		}
	}
	return idx, raw, nil
}

// shifted renders the storage index of loop variable x.
func (g *Generator) shifted(x *expr.Var, b Binding) (*jen.Statement, error) {
	value, err := g.Access(x)
	if err != nil {
		return nil, err
	}
	if b.Shift == nil {
		return value, nil
	}
	if n, ok := b.Shift.(*expr.Num); ok && n.IsInt() && n.Int() == 0 {
		return value, nil
	}
	shift, err := g.intExpr(b.Shift)
	if err != nil {
		return nil, err
	}
	return value.Op("-").Add(operand(b.Shift, shift)), nil
}

// Access renders the element of v selected by its current indices.
func (g *Generator) Access(v *expr.Var) (*jen.Statement, error) {
	m, _, err := g.module(v)
	if err != nil {
		return nil, err
	}
	idx, _, err := g.indices(v)
	if err != nil {
		return nil, err
	}
	return m.Access(v, idx), nil
}

// Assign emits the assignment of rhs, of kind rhsKind, to the element of v
// selected by its indices and, if markRead is set, marks it as read.
func (g *Generator) Assign(v *expr.Var, rhs *jen.Statement, rhsKind Kind, markRead bool) error {
	m, b, err := g.module(v)
	if err != nil {
		return err
	}
	if b.Loop {
		return bindingErrorf(v, ErrUnsupported, "assignment to loop variable")
	}
	idx, raw, err := g.indices(v)
	if err != nil {
		return err
	}
	kind := m.ValueKind(b)
	if kind != rhsKind && !(numeric(kind) && numeric(rhsKind)) {
		return bindingErrorf(v, ErrType, "cannot assign %s to %s", rhsKind, kind)
	}
	g.builder.Comment("assign expression to variable %s", v)
	g.builder.Emit(m.Assign(v, idx, convert(rhs, rhsKind, kind))...)
	if markRead {
		g.builder.Emit(m.MarkRead(v, raw)...)
	}
	return nil
}

// growAssign assigns rhs to name[idx0][idx1]... growing every level with
// endf.Grow so that the addressed element exists. Growth only appends, so
// indices must be visited in non-decreasing order per dimension.
func growAssign(name string, idx []jen.Code, rhs jen.Code) []jen.Code {
	var codes []jen.Code
	for d := range idx {
		level := jen.Id(name)
		for _, i := range idx[:d] {
			level = level.Index(i)
		}
		target := jen.Id(name)
		for _, i := range idx[:d] {
			target = target.Index(i)
		}
		codes = append(codes, target.Op("=").Qual(RuntimePath, "Grow").Call(
			level,
			jen.Add(idx[d]).Op("+").Lit(1),
		))
	}
	elem := jen.Id(name)
	for _, i := range idx {
		elem = elem.Index(i)
	}
	return append(codes, elem.Op("=").Add(rhs))
}
