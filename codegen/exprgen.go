package codegen

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
	"github.com/pkg/errors"
)

// Expr renders e as Go code and reports its kind. Mixed int and float
// operands are converted to float64.
func (g *Generator) Expr(e expr.Expr) (*jen.Statement, Kind, error) {
	switch x := e.(type) {
	case *expr.Num:
		if x.IsInt() {
			return jen.Lit(x.Int()), KindInt, nil
		}
		return jen.Lit(x.Float()), KindFloat, nil

	case *expr.Var:
		m, b, err := g.module(x)
		if err != nil {
			return nil, 0, err
		}
		access, err := g.Access(x)
		if err != nil {
			return nil, 0, err
		}
		return access, m.ValueKind(b), nil

	case *expr.Unary:
		code, kind, err := g.Expr(x.X)
		if err != nil {
			return nil, 0, err
		}
		if x.Op == "not" {
			if kind != KindBool {
				return nil, 0, errors.Wrapf(ErrType, "not applied to %s in %s", kind, x)
			}
			return Not(code), KindBool, nil
		}
		if !numeric(kind) {
			return nil, 0, errors.Wrapf(ErrType, "negation of %s in %s", kind, x)
		}
		return jen.Op("-").Parens(code), kind, nil

	case *expr.Binary:
		return g.binary(x)
	}
	return nil, 0, errors.Wrapf(ErrUnsupported, "expression %T", e)
}

func (g *Generator) binary(x *expr.Binary) (*jen.Statement, Kind, error) {
	xc, xk, err := g.Expr(x.X)
	if err != nil {
		return nil, 0, err
	}
	yc, yk, err := g.Expr(x.Y)
	if err != nil {
		return nil, 0, err
	}
	xc = operand(x.X, xc)
	yc = operand(x.Y, yc)

	switch x.Op {
	case "and", "or":
		if xk != KindBool || yk != KindBool {
			return nil, 0, errors.Wrapf(ErrType, "%s needs boolean operands in %s", x.Op, x)
		}
		op := "&&"
		if x.Op == "or" {
			op = "||"
		}
		return jen.Add(xc).Op(op).Add(yc), KindBool, nil
	}

	if xk == KindText && yk == KindText && (x.Op == "==" || x.Op == "!=") {
		return jen.Add(xc).Op(x.Op).Add(yc), KindBool, nil
	}
	if !numeric(xk) || !numeric(yk) {
		return nil, 0, errors.Wrapf(ErrType, "%s %s %s in %s", xk, x.Op, yk, x)
	}
	kind := KindInt
	if xk == KindFloat || yk == KindFloat {
		kind = KindFloat
		xc = convert(xc, xk, kind)
		yc = convert(yc, yk, kind)
	}
	switch x.Op {
	case "+", "-", "*", "/":
		return jen.Add(xc).Op(x.Op).Add(yc), kind, nil
	case "==", "!=", "<", "<=", ">", ">=":
		return jen.Add(xc).Op(x.Op).Add(yc), KindBool, nil
	}
	return nil, 0, errors.Wrapf(ErrUnsupported, "operator %q", x.Op)
}

// intExpr renders e converted to int, for loop bounds and shifts.
func (g *Generator) intExpr(e expr.Expr) (*jen.Statement, error) {
	if n, ok := e.(*expr.Num); ok && !n.IsInt() {
		return nil, errors.Wrapf(ErrType, "%s is not an integer", n)
	}
	code, kind, err := g.Expr(e)
	if err != nil {
		return nil, err
	}
	if !numeric(kind) {
		return nil, errors.Wrapf(ErrType, "%s is %s, want a number", e, kind)
	}
	return convert(code, kind, KindInt), nil
}

func (g *Generator) boolExpr(e expr.Expr) (*jen.Statement, error) {
	code, kind, err := g.Expr(e)
	if err != nil {
		return nil, err
	}
	if kind != KindBool {
		return nil, errors.Wrapf(ErrType, "condition %s is %s", e, kind)
	}
	return code, nil
}

func numeric(k Kind) bool {
	return k == KindInt || k == KindFloat
}

// operand parenthesizes compound subexpressions.
func operand(e expr.Expr, code *jen.Statement) *jen.Statement {
	switch e.(type) {
	case *expr.Binary:
		return jen.Parens(code)
	}
	return code
}

// convert renders code of kind from as kind to.
func convert(code *jen.Statement, from, to Kind) *jen.Statement {
	if from == to {
		return code
	}
	switch {
	case from == KindInt && to == KindFloat:
		return jen.Float64().Parens(code)
	case from == KindFloat && to == KindInt:
		return jen.Int().Parens(code)
	}
	return code
}
