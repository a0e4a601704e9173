package compile

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/codegen"
	"github.com/dhamidi/endfgen/expr"
	"github.com/dhamidi/endfgen/recipe"
	"github.com/pkg/errors"
)

// ErrRecipe reports a recipe that is well-formed YAML but cannot be
// compiled.
var ErrRecipe = errors.New("invalid recipe")

// compiler emits one recipe function.
type compiler struct {
	g     *codegen.Generator
	fn    *recipe.Function
	decls *declarations
}

func compileFunction(g *codegen.Generator, fn *recipe.Function) (jen.Code, *Error) {
	c := &compiler{g: g, fn: fn}
	decls, err := collect(fn)
	if err != nil {
		return nil, c.wrap(err, fn.Line)
	}
	c.decls = decls

	g.Prologue(fn.Name)
	for _, d := range decls.list {
		log.Debugf("%s: declare %s as %s", fn.Name, d.v, d.binding.Kind)
		if err := g.Declare(d.v, d.binding); err != nil {
			return nil, c.wrap(err, d.line)
		}
	}
	if err := c.body(fn.Body); err != nil {
		return nil, err
	}
	decl, gerr := g.Epilogue()
	if gerr != nil {
		return nil, c.wrap(gerr, fn.Line)
	}
	return decl, nil
}

func (c *compiler) wrap(err error, line int) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		if ce.Function == "" {
			ce.Function = c.fn.Name
		}
		return ce
	}
	return &Error{Function: c.fn.Name, Line: line, Err: err}
}

func (c *compiler) body(body recipe.Body) *Error {
	for _, st := range body {
		if err := c.statement(st); err != nil {
			return c.wrap(err, st.Pos())
		}
	}
	return nil
}

func (c *compiler) statement(st recipe.Statement) error {
	g := c.g
	switch s := st.(type) {
	case *recipe.Record:
		g.ReadLine()
		return c.fields(s.Fields)

	case *recipe.Text:
		g.ReadLine()
		for _, f := range s.Fields {
			v, err := expr.ParseVar(f.Name)
			if err != nil {
				return err
			}
			if err := g.TextField(v, f.Start, f.Length); err != nil {
				return err
			}
		}
		return nil

	case *recipe.Tab1:
		g.ReadLine()
		if err := c.fields(s.Fields); err != nil {
			return err
		}
		if s.Section == "" {
			return g.Tab1Body(s.X, s.Y)
		}
		sec, err := expr.ParseVar(s.Section)
		if err != nil {
			return err
		}
		if err := g.OpenSection(sec); err != nil {
			return err
		}
		if err := g.Tab1Body(s.X, s.Y); err != nil {
			return err
		}
		return g.CloseSection()

	case *recipe.List:
		g.ReadLine()
		if err := c.fields(s.Fields); err != nil {
			return err
		}
		return g.ListBody(s.Values)

	case *recipe.For:
		return c.loop(s)

	case *recipe.If:
		cond, err := expr.Parse(s.Cond)
		if err != nil {
			return err
		}
		if err := g.BeginIf(cond); err != nil {
			return err
		}
		if err := c.body(s.Then); err != nil {
			return err
		}
		if len(s.Else) > 0 {
			if err := g.Else(); err != nil {
				return err
			}
			if err := c.body(s.Else); err != nil {
				return err
			}
		}
		return g.EndIf()

	case *recipe.Section:
		sec, err := expr.ParseVar(s.Name)
		if err != nil {
			return err
		}
		if err := g.OpenSection(sec); err != nil {
			return err
		}
		if err := c.body(s.Body); err != nil {
			return err
		}
		return g.CloseSection()

	case *recipe.Default:
		vars := make([]*expr.Var, len(s.Vars))
		for i, name := range s.Vars {
			v, err := expr.ParseVar(name)
			if err != nil {
				return err
			}
			vars[i] = v
		}
		value, err := expr.Parse(s.Value)
		if err != nil {
			return err
		}
		return g.Default(vars, value)
	}
	return errors.Wrapf(ErrRecipe, "unknown statement %T", st)
}

// fields decodes the six fields of the current record line.
func (c *compiler) fields(fields []string) error {
	for slot, f := range fields {
		e, err := expr.Parse(f)
		if err != nil {
			return err
		}
		if err := c.g.Field(e, slot); err != nil {
			return err
		}
	}
	return nil
}

// loop emits a for statement. Variables first read in the body whose
// indices do not involve the loop variable are reset at the start of every
// iteration, so each iteration reads them afresh instead of comparing them
// with the previous iteration. Variables read ahead of the loop keep their
// state and are checked against every repetition.
func (c *compiler) loop(s *recipe.For) error {
	v, err := expr.ParseVar(s.Var)
	if err != nil {
		return err
	}
	from, err := expr.Parse(s.From)
	if err != nil {
		return err
	}
	to, err := expr.Parse(s.To)
	if err != nil {
		return err
	}
	if err := c.g.BeginFor(v, from, to); err != nil {
		return err
	}
	for _, r := range c.decls.firstReadIn(s) {
		if mentions(r, v.Name) {
			continue
		}
		if err := c.g.MarkUnread(r); err != nil {
			return err
		}
	}
	if err := c.body(s.Body); err != nil {
		return err
	}
	return c.g.EndFor()
}

func mentions(v *expr.Var, name string) bool {
	for _, i := range v.Indices {
		if x, ok := i.(*expr.Var); ok && x.Name == name {
			return true
		}
	}
	return false
}
