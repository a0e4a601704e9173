package codegen

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/endf"
	"github.com/dhamidi/endfgen/expr"
	"github.com/pkg/errors"
)

// Slots 0 and 1 of a record hold floats, the others integers.
const floatSlots = 2

// Slots of the NR and NP counts in a TAB1 header, and of NPL in a LIST
// header.
const (
	tab1NRSlot = 4
	tab1NPSlot = 5
	listNSlot  = 4
)

func cur() *jen.Statement {
	return jen.Id(cursorName)
}

// SlotKind is the kind a numeric field decodes to.
func SlotKind(slot int) Kind {
	if slot < floatSlots {
		return KindFloat
	}
	return KindInt
}

// ReadLine advances the cursor to the next record line.
func (g *Generator) ReadLine() {
	g.builder.Emit(cur().Dot("ReadLine").Call())
}

// Field emits the decoding of slot of the current line into e. Literal
// fields are skipped. A variable that is already read for its current
// indices is compared with the field instead of being reassigned. A field
// holding an expression linear in one variable, such as 2*NS, determines
// that variable.
func (g *Generator) Field(e expr.Expr, slot int) error {
	if slot < 0 || slot >= endf.FieldsPerLine {
		return errors.Wrapf(ErrUnsupported, "field slot %d", slot)
	}
	if IsLiteral(e) {
		return nil
	}
	method := "Int"
	if SlotKind(slot) == KindFloat {
		method = "Float"
	}
	call := func() *jen.Statement { return cur().Dot(method).Call(jen.Lit(slot)) }
	if v, ok := e.(*expr.Var); ok {
		return g.decode(v, call, SlotKind(slot))
	}
	return g.decodeExpr(e, call, SlotKind(slot))
}

// TextField emits the decoding of length characters starting at column
// start into v.
func (g *Generator) TextField(v *expr.Var, start, length int) error {
	if start < 0 || length <= 0 || start+length > endf.FieldsPerLine*endf.FieldWidth {
		return bindingErrorf(v, ErrUnsupported, "text columns %d+%d", start, length)
	}
	call := func() *jen.Statement { return cur().Dot("Text").Call(jen.Lit(start), jen.Lit(length)) }
	return g.decode(v, call, KindText)
}

// IsLiteral reports whether a field expression is a number, possibly
// negated.
func IsLiteral(e expr.Expr) bool {
	if u, ok := e.(*expr.Unary); ok && u.Op == "-" {
		e = u.X
	}
	_, ok := e.(*expr.Num)
	return ok
}

// decode emits the read-or-validate pattern for v. call renders a fresh
// decoding expression of kind for each use.
func (g *Generator) decode(v *expr.Var, call func() *jen.Statement, kind Kind) error {
	m, b, err := g.module(v)
	if err != nil {
		return err
	}
	want := m.ValueKind(b)
	if want != kind && !(numeric(want) && numeric(kind)) {
		return bindingErrorf(v, ErrType, "cannot decode %s field into %s", kind, want)
	}
	have, err := g.Access(v)
	if err != nil {
		return err
	}
	again, err := g.Access(v)
	if err != nil {
		return err
	}
	check := jen.If(
		jen.Id("v").Op(":=").Add(convert(call(), kind, want)),
		jen.Add(have).Op("!=").Id("v"),
	).Block(
		cur().Dot("Inconsistent").Call(jen.Lit(v.String()), again, jen.Id("v")),
	)
	if b.Loop {
		g.builder.Comment("check field against loop variable %s", v)
		g.builder.Emit(check)
		return nil
	}

	cond, err := g.IsRead(v)
	if err != nil {
		return err
	}
	g.builder.Comment("read field %s", v)
	g.builder.OpenIf(cond)
	g.builder.Emit(check)
	if err := g.builder.Else(); err != nil {
		return err
	}
	if err := g.Assign(v, call(), kind, true); err != nil {
		return err
	}
	if err := g.Store(v); err != nil {
		return err
	}
	return g.builder.Close(frameCond)
}

// Tab1Body emits the decoding of the interpolation table and the (x, y)
// pairs following a TAB1 header line. The counts NR and NP are taken from
// the header, which must be the current line. The table is stored as NBT,
// INT, x and y in the current node.
func (g *Generator) Tab1Body(x, y string) error {
	if x == "" || y == "" || x == y {
		return errors.Wrapf(ErrUnsupported, "TAB1 columns %q and %q", x, y)
	}
	g.builder.Comment("read TAB1 body into %s and %s", x, y)
	g.builder.OpenBlock(frameBlock)
	g.builder.Emit(
		jen.Id("tab").Op(":=").Add(cur()).Dot("Tab1Body").Call(
			cur().Dot("Int").Call(jen.Lit(tab1NRSlot)),
			cur().Dot("Int").Call(jen.Lit(tab1NPSlot)),
		),
		storeCode("NBT", jen.Id("tab").Dot("NBT")),
		storeCode("INT", jen.Id("tab").Dot("INT")),
		storeCode(x, jen.Id("tab").Dot("X")),
		storeCode(y, jen.Id("tab").Dot("Y")),
	)
	return g.builder.Close(frameBlock)
}

// ListBody emits the decoding of the NPL floats following a LIST header
// line into the current node under name.
func (g *Generator) ListBody(name string) error {
	if name == "" {
		return errors.Wrap(ErrUnsupported, "LIST without a name for its values")
	}
	g.builder.Comment("read LIST body into %s", name)
	g.builder.Emit(storeCode(name, cur().Dot("FloatVec").Call(
		cur().Dot("Int").Call(jen.Lit(listNSlot)),
	)))
	return nil
}

// Send emits the validation of the end-of-section record.
func (g *Generator) Send() {
	g.builder.Comment("read SEND record")
	g.builder.Emit(cur().Dot("ReadSend").Call())
}

// Default assigns value to those of vars that are still unread. It is used
// after a group of alternative fields of which only some may have been
// present in the input.
func (g *Generator) Default(vars []*expr.Var, value expr.Expr) error {
	if len(vars) == 0 {
		return errors.Wrap(ErrUnsupported, "default without variables")
	}
	cond, err := g.AnyUnread(vars)
	if err != nil {
		return err
	}
	if _, _, err := g.Expr(value); err != nil {
		return err
	}
	g.builder.Comment("default %s", value)
	g.builder.OpenIf(cond)
	for _, v := range vars {
		unread, err := g.IsUnread(v)
		if err != nil {
			return err
		}
		g.builder.OpenIf(unread)
		code, kind, err := g.Expr(value)
		if err != nil {
			return err
		}
		if err := g.Assign(v, code, kind, true); err != nil {
			return err
		}
		if err := g.Store(v); err != nil {
			return err
		}
		if err := g.builder.Close(frameCond); err != nil {
			return err
		}
	}
	return g.builder.Close(frameCond)
}
