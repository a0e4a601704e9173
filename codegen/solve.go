package codegen

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
	"github.com/pkg/errors"
)

// FieldVar returns the variable determined by a field expression. The
// expression must be linear in that one variable with numeric
// coefficients, such as 2*NS, NS/2, -N or 2*N+1. Variables used as
// indices do not count.
func FieldVar(e expr.Expr) (*expr.Var, error) {
	v, err := unknown(e)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.Wrapf(ErrUnsupported, "field %s has no variable", e)
	}
	return v, nil
}

func unknown(e expr.Expr) (*expr.Var, error) {
	switch x := e.(type) {
	case *expr.Num:
		return nil, nil
	case *expr.Var:
		return x, nil
	case *expr.Unary:
		if x.Op != "-" {
			return nil, errors.Wrapf(ErrUnsupported, "field %s", e)
		}
		return unknown(x.X)
	case *expr.Binary:
		vx, err := unknown(x.X)
		if err != nil {
			return nil, err
		}
		vy, err := unknown(x.Y)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case "+", "-", "*", "/":
		default:
			return nil, errors.Wrapf(ErrUnsupported, "operator %q in field %s", x.Op, e)
		}
		switch {
		case vx != nil && vy != nil:
			return nil, errors.Wrapf(ErrUnsupported, "field %s is not linear in one variable", e)
		case vy != nil && x.Op == "/":
			return nil, errors.Wrapf(ErrUnsupported, "field %s divides by its variable", e)
		case vx != nil:
			return vx, nil
		}
		return vy, nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "field %s", e)
}

// solve inverts the field expression e for its variable. val is the
// decoded field value of kind. The result computes the variable from val.
func (g *Generator) solve(e expr.Expr, val *jen.Statement, kind Kind) (*expr.Var, *jen.Statement, Kind, error) {
	return g.invert(e, val, kind, false)
}

// invert peels one operation off e and applies its inverse to val.
// compound is set once val is itself an operation.
func (g *Generator) invert(e expr.Expr, val *jen.Statement, kind Kind, compound bool) (*expr.Var, *jen.Statement, Kind, error) {
	if compound {
		if _, ok := e.(*expr.Var); !ok {
			val = jen.Parens(val)
		}
	}
	switch x := e.(type) {
	case *expr.Var:
		return x, val, kind, nil
	case *expr.Unary:
		return g.invert(x.X, jen.Op("-").Add(val), kind, true)
	case *expr.Binary:
		vx, err := unknown(x.X)
		if err != nil {
			return nil, nil, 0, err
		}
		side, constant := x.X, x.Y
		if vx == nil {
			side, constant = x.Y, x.X
		}
		if n, ok := constant.(*expr.Num); ok && n.Float() == 0 && (x.Op == "*" || x.Op == "/") {
			return nil, nil, 0, errors.Wrapf(ErrUnsupported, "zero coefficient in field %s", e)
		}
		c, ck, err := g.Expr(constant)
		if err != nil {
			return nil, nil, 0, err
		}
		rk := kind
		if ck == KindFloat {
			rk = KindFloat
		}
		lhs := convert(jen.Add(val), kind, rk)
		if n, ok := constant.(*expr.Num); ok && rk == KindFloat {
			c = jen.Lit(n.Float())
		} else {
			c = convert(operand(constant, c), ck, rk)
		}

		var inv *jen.Statement
		switch {
		case x.Op == "+":
			inv = lhs.Op("-").Add(c)
		case x.Op == "-" && vx != nil:
			inv = lhs.Op("+").Add(c)
		case x.Op == "-":
			inv = jen.Add(c).Op("-").Add(lhs)
		case x.Op == "*":
			inv = lhs.Op("/").Add(c)
		default:
			inv = lhs.Op("*").Add(c)
		}
		return g.invert(side, inv, rk, true)
	}
	return nil, nil, 0, errors.Wrapf(ErrUnsupported, "field %s", e)
}

// decodeExpr emits the read-or-validate pattern for a field holding an
// expression of one variable. An unread variable is assigned the solution
// of the expression for the field value. A read one is checked by
// evaluating the expression and comparing it with the field.
func (g *Generator) decodeExpr(e expr.Expr, call func() *jen.Statement, kind Kind) error {
	v, err := FieldVar(e)
	if err != nil {
		return err
	}
	m, b, err := g.module(v)
	if err != nil {
		return err
	}
	if !numeric(m.ValueKind(b)) || !numeric(kind) {
		return bindingErrorf(v, ErrType, "field %s needs a numeric variable", e)
	}

	check := func() (*jen.Statement, error) {
		have, hk, err := g.Expr(e)
		if err != nil {
			return nil, err
		}
		again, _, err := g.Expr(e)
		if err != nil {
			return nil, err
		}
		ck := kind
		if hk == KindFloat {
			ck = KindFloat
		}
		return jen.If(
			jen.Id("v").Op(":=").Add(convert(call(), kind, ck)),
			convert(have, hk, ck).Op("!=").Id("v"),
		).Block(
			cur().Dot("Inconsistent").Call(jen.Lit(e.String()), again, jen.Id("v")),
		), nil
	}
	if b.Loop {
		c, err := check()
		if err != nil {
			return err
		}
		g.builder.Comment("check field %s against loop variable %s", e, v)
		g.builder.Emit(c)
		return nil
	}

	cond, err := g.IsRead(v)
	if err != nil {
		return err
	}
	c, err := check()
	if err != nil {
		return err
	}
	_, inv, ik, err := g.solve(e, call(), kind)
	if err != nil {
		return err
	}
	g.builder.Comment("read field %s into %s", e, v)
	g.builder.OpenIf(cond)
	g.builder.Emit(c)
	if err := g.builder.Else(); err != nil {
		return err
	}
	if err := g.Assign(v, inv, ik, true); err != nil {
		return err
	}
	if err := g.Store(v); err != nil {
		return err
	}
	return g.builder.Close(frameCond)
}
