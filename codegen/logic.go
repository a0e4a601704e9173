package codegen

import "github.com/dave/jennifer/jen"

// And joins conditions with &&. Operands are parenthesized when there is
// more than one.
func And(conds ...jen.Code) *jen.Statement {
	return join("&&", conds)
}

// Or joins conditions with ||.
func Or(conds ...jen.Code) *jen.Statement {
	return join("||", conds)
}

// Not negates cond.
func Not(cond jen.Code) *jen.Statement {
	return jen.Op("!").Parens(cond)
}

func join(op string, conds []jen.Code) *jen.Statement {
	switch len(conds) {
	case 0:
		if op == "&&" {
			return jen.True()
		}
		return jen.False()
	case 1:
		return jen.Add(conds[0])
	}
	st := jen.Parens(conds[0])
	for _, c := range conds[1:] {
		st = st.Op(op).Parens(c)
	}
	return st
}

// Branches renders an if / else if / else chain. def may be nil.
func Branches(conds []jen.Code, bodies [][]jen.Code, def []jen.Code) *jen.Statement {
	st := jen.If(conds[0]).Block(bodies[0]...)
	for i := 1; i < len(conds); i++ {
		st = st.Else().If(conds[i]).Block(bodies[i]...)
	}
	if def != nil {
		st = st.Else().Block(def...)
	}
	return st
}

// IfElse renders a two-way conditional.
func IfElse(cond jen.Code, then, otherwise []jen.Code) *jen.Statement {
	return Branches([]jen.Code{cond}, [][]jen.Code{then}, otherwise)
}

// IfThen renders a conditional without else branch.
func IfThen(cond jen.Code, body ...jen.Code) *jen.Statement {
	return jen.If(cond).Block(body...)
}

// blankUse marks locals as used so generated functions compile even when a
// variable is only ever assigned.
func blankUse(ids ...jen.Code) jen.Code {
	blanks := make([]jen.Code, len(ids))
	for i := range blanks {
		blanks[i] = jen.Id("_")
	}
	return jen.List(blanks...).Op("=").List(ids...)
}
