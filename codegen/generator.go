// Package codegen emits Go parsing functions for ENDF-6 record groups.
//
// A driver walks a record group definition and calls the Generator's
// emitters in the order fields appear: Prologue, declarations, record
// primitives interleaved with loops, conditionals and sections, then
// Epilogue. The Generator tracks scopes and bindings, dispatches every
// variable to the TypeModule responsible for it and assembles the function
// with jennifer.
package codegen

import (
	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
	"github.com/pkg/errors"
)

// RuntimePath is the import path of the support library used by generated
// code.
const RuntimePath = "github.com/dhamidi/endfgen/endf"

// Names of the locals and parameters of generated functions.
const (
	linesName  = "lines"
	cursorName = "cur"
	nodeName   = "node"
	parentName = "parent"
	stateName  = "state"
	errName    = "err"
)

type function struct {
	name       string
	persistent []*expr.Var
	sections   int
}

type Generator struct {
	registry *Registry
	root     *Scope
	scope    *Scope
	builder  *Builder
	fn       *function
}

// New returns a Generator dispatching through registry; a nil registry
// means DefaultRegistry.
func New(registry *Registry) *Generator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	root := NewScope(nil)
	return &Generator{registry: registry, root: root, scope: root}
}

// Scope returns the innermost scope.
func (g *Generator) Scope() *Scope {
	return g.scope
}

func (g *Generator) EnterScope() {
	g.scope = NewScope(g.scope)
}

func (g *Generator) ExitScope() error {
	if g.scope.parent == nil {
		return errors.Wrap(ErrUnbalanced, "exit from outermost scope")
	}
	g.scope = g.scope.parent
	return nil
}

// Builder exposes the statement builder of the current function.
func (g *Generator) Builder() *Builder {
	return g.builder
}

// Prologue starts the parsing function name: the cursor over the input
// lines and the root node holding MAT, MF and MT.
func (g *Generator) Prologue(name string) {
	g.fn = &function{name: name}
	g.builder = NewBuilder()
	g.scope = NewScope(g.root)
	rt := func(s string) *jen.Statement { return jen.Qual(RuntimePath, s) }
	g.builder.Emit(
		jen.Defer().Add(rt("Recover")).Call(jen.Op("&").Id(nodeName), jen.Op("&").Id(errName)),
		jen.Id(cursorName).Op(":=").Add(rt("NewCursor")).Call(jen.Id(linesName)),
		jen.Id(nodeName).Op("=").Id(cursorName).Dot("Header").Call(),
	)
}

// Epilogue validates the closing SEND record, hands persistent variables
// back to the caller's state and returns the finished function
// declaration.
func (g *Generator) Epilogue() (jen.Code, error) {
	if g.fn == nil {
		return nil, errors.Wrap(ErrUnbalanced, "epilogue without prologue")
	}
	if g.fn.sections > 0 {
		return nil, errors.Wrapf(ErrUnbalanced, "%d sections still open", g.fn.sections)
	}
	g.Send()
	if err := g.adoptState(); err != nil {
		return nil, err
	}
	g.builder.Emit(jen.Return(jen.Id(nodeName), jen.Nil()))

	body, err := g.builder.Code()
	if err != nil {
		return nil, err
	}
	if g.scope.parent != g.root {
		return nil, errors.Wrap(ErrUnbalanced, "scope still open at end of function")
	}
	g.scope = g.root

	params := []jen.Code{jen.Id(linesName).Index().String()}
	if len(g.fn.persistent) > 0 {
		params = append(params, jen.Id(stateName).Op("*").Qual(RuntimePath, "State"))
	}
	decl := jen.Func().Id(g.fn.name).Params(params...).Params(
		jen.Id(nodeName).Qual(RuntimePath, "Dict"),
		jen.Id(errName).Error(),
	).Block(body...)

	g.fn = nil
	g.builder = nil
	return decl, nil
}

// Declare binds v in the current scope and emits its storage and
// read-state declarations. Persistent bindings are also restored from the
// caller's state.
func (g *Generator) Declare(v *expr.Var, b Binding) error {
	if g.fn == nil {
		return errors.Wrap(ErrUnbalanced, "declaration outside function")
	}
	if b.Persistent && g.scope.parent != g.root {
		return bindingErrorf(v, ErrUnsupported, "persistent variable below function scope")
	}
	b.Dims = v.Dims()
	m, err := g.registry.Lookup(b)
	if err != nil {
		return &BindingError{Var: v.String(), Err: err}
	}
	if err := g.scope.Declare(v, b); err != nil {
		return err
	}
	g.builder.Comment("variable %s", v)
	g.builder.Emit(m.Declare(v, b)...)
	if b.Persistent {
		g.restoreState(v, b, m)
	}
	return nil
}

// module resolves v and returns its binding and type module.
func (g *Generator) module(v *expr.Var) (TypeModule, Binding, error) {
	b, err := g.scope.Resolve(v)
	if err != nil {
		return nil, Binding{}, err
	}
	m, err := g.registry.Lookup(b)
	if err != nil {
		return nil, Binding{}, &BindingError{Var: v.String(), Err: err}
	}
	return m, b, nil
}

// BeginFor opens `for v := from; v <= to; v++`. The loop variable is bound
// in a new scope with from as its shift.
func (g *Generator) BeginFor(v *expr.Var, from, to expr.Expr) error {
	if v.Dims() != 0 {
		return bindingErrorf(v, ErrUnsupported, "loop variable with indices")
	}
	fromCode, err := g.intExpr(from)
	if err != nil {
		return err
	}
	toCode, err := g.intExpr(to)
	if err != nil {
		return err
	}

	g.EnterScope()
	b := Binding{Kind: KindInt, Loop: true, Shift: from}
	if err := g.scope.Declare(v, b); err != nil {
		return err
	}
	m, _, err := g.module(v)
	if err != nil {
		return err
	}
	name := m.StorageName(v)
	g.builder.Open(frameLoop, func(body []jen.Code) jen.Code {
		return jen.For(
			jen.Id(name).Op(":=").Add(fromCode),
			jen.Id(name).Op("<=").Add(toCode),
			jen.Id(name).Op("++"),
		).Block(body...)
	})
	return nil
}

func (g *Generator) EndFor() error {
	if err := g.builder.Close(frameLoop); err != nil {
		return err
	}
	return g.ExitScope()
}

// BeginIf opens a conditional on a boolean expression.
func (g *Generator) BeginIf(cond expr.Expr) error {
	c, err := g.boolExpr(cond)
	if err != nil {
		return err
	}
	g.builder.OpenIf(c)
	g.EnterScope()
	return nil
}

func (g *Generator) ElseIf(cond expr.Expr) error {
	c, err := g.boolExpr(cond)
	if err != nil {
		return err
	}
	if err := g.ExitScope(); err != nil {
		return err
	}
	if err := g.builder.ElseIf(c); err != nil {
		return err
	}
	g.EnterScope()
	return nil
}

func (g *Generator) Else() error {
	if err := g.ExitScope(); err != nil {
		return err
	}
	if err := g.builder.Else(); err != nil {
		return err
	}
	g.EnterScope()
	return nil
}

func (g *Generator) EndIf() error {
	if err := g.ExitScope(); err != nil {
		return err
	}
	return g.builder.Close(frameCond)
}
