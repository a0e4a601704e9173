package compile

import (
	"github.com/dhamidi/endfgen/codegen"
	"github.com/dhamidi/endfgen/expr"
	"github.com/dhamidi/endfgen/recipe"
	"github.com/pkg/errors"
)

// declaration is a variable of a function together with the binding it is
// declared with and the line where it first appears.
type declaration struct {
	v       *expr.Var
	binding codegen.Binding
	line    int
	// field is set when a record field determined the kind; a kind taken
	// from a default value yields to it.
	field bool
}

type declarations struct {
	list  []*declaration
	byKey map[expr.Key]*declaration
	// reads maps statements to the variables they assign.
	reads map[recipe.Statement][]*expr.Var
	// before holds, for every loop, the variables read by some statement
	// that runs ahead of it.
	before map[*recipe.For]map[expr.Key]bool
	seen   map[expr.Key]bool
}

// collect infers the kind of every variable of fn from the record slots
// it is read from. Floats come from slots 0 and 1, integers from slots
// 2 to 5 and text from TEXT fields. The function's types override the
// inferred kind by name.
func collect(fn *recipe.Function) (*declarations, error) {
	d := &declarations{
		byKey:  make(map[expr.Key]*declaration),
		reads:  make(map[recipe.Statement][]*expr.Var),
		before: make(map[*recipe.For]map[expr.Key]bool),
		seen:   make(map[expr.Key]bool),
	}
	if err := d.walk(fn.Body, nil); err != nil {
		return nil, err
	}

	for name, typ := range fn.Types {
		kind, ok := codegen.ParseKind(typ)
		if !ok {
			return nil, errors.Wrapf(ErrRecipe, "unknown type %q for %s", typ, name)
		}
		found := false
		for _, decl := range d.list {
			if decl.v.Name == name {
				decl.binding.Kind = kind
				found = true
			}
		}
		if !found {
			return nil, errors.Wrapf(ErrRecipe, "type for unknown variable %s", name)
		}
	}
	for _, name := range fn.Persistent {
		found := false
		for _, decl := range d.list {
			if decl.v.Name == name {
				decl.binding.Persistent = true
				found = true
			}
		}
		if !found {
			return nil, errors.Wrapf(ErrRecipe, "persistent variable %s is never read", name)
		}
	}
	return d, nil
}

func (d *declarations) walk(body recipe.Body, loops []string) error {
	for _, st := range body {
		if err := d.statement(st, loops); err != nil {
			var ce *Error
			if errors.As(err, &ce) {
				return err
			}
			return &Error{Line: st.Pos(), Err: err}
		}
	}
	return nil
}

func (d *declarations) statement(st recipe.Statement, loops []string) error {
	switch s := st.(type) {
	case *recipe.Record:
		return d.fields(st, s.Fields, loops)
	case *recipe.Tab1:
		return d.fields(st, s.Fields, loops)
	case *recipe.List:
		return d.fields(st, s.Fields, loops)

	case *recipe.Text:
		for _, f := range s.Fields {
			v, err := expr.ParseVar(f.Name)
			if err != nil {
				return err
			}
			d.add(st, v, codegen.KindText, true, loops)
		}
		return nil

	case *recipe.Default:
		value, err := expr.Parse(s.Value)
		if err != nil {
			return err
		}
		kind := codegen.KindFloat
		if n, ok := value.(*expr.Num); ok && n.IsInt() {
			kind = codegen.KindInt
		}
		for _, name := range s.Vars {
			v, err := expr.ParseVar(name)
			if err != nil {
				return err
			}
			d.add(st, v, kind, false, loops)
		}
		return nil

	case *recipe.For:
		v, err := expr.ParseVar(s.Var)
		if err != nil {
			return err
		}
		d.before[s] = copyKeys(d.seen)
		return d.walk(s.Body, append(loops[:len(loops):len(loops)], v.Name))
	case *recipe.If:
		outer := copyKeys(d.seen)
		if err := d.walk(s.Then, loops); err != nil {
			return err
		}
		then := d.seen
		d.seen = outer
		if err := d.walk(s.Else, loops); err != nil {
			return err
		}
		for k := range then {
			d.seen[k] = true
		}
		return nil
	case *recipe.Section:
		return d.walk(s.Body, loops)
	}
	return nil
}

func (d *declarations) fields(st recipe.Statement, fields []string, loops []string) error {
	for slot, f := range fields {
		e, err := expr.Parse(f)
		if err != nil {
			return err
		}
		if codegen.IsLiteral(e) {
			continue
		}
		v, err := codegen.FieldVar(e)
		if err != nil {
			return errors.Wrapf(ErrRecipe, "field %s must be a literal or linear in one variable", f)
		}
		d.add(st, v, codegen.SlotKind(slot), true, loops)
	}
	return nil
}

func (d *declarations) add(st recipe.Statement, v *expr.Var, kind codegen.Kind, field bool, loops []string) {
	if v.Dims() == 0 {
		for _, l := range loops {
			if l == v.Name {
				return
			}
		}
	}
	d.reads[st] = append(d.reads[st], v)
	d.seen[v.Key()] = true
	if prev, ok := d.byKey[v.Key()]; ok {
		if field && !prev.field {
			prev.binding.Kind = kind
			prev.field = true
		}
		return
	}
	decl := &declaration{v: v, binding: codegen.Binding{Kind: kind}, line: st.Pos(), field: field}
	d.byKey[v.Key()] = decl
	d.list = append(d.list, decl)
}

func copyKeys(m map[expr.Key]bool) map[expr.Key]bool {
	c := make(map[expr.Key]bool, len(m))
	for k := range m {
		c[k] = true
	}
	return c
}

// firstReadIn returns the variables assigned in the body of loop that no
// statement ahead of the loop assigns.
func (d *declarations) firstReadIn(loop *recipe.For) []*expr.Var {
	var res []*expr.Var
	for _, v := range d.readIn(loop.Body) {
		if !d.before[loop][v.Key()] {
			res = append(res, v)
		}
	}
	return res
}

// readIn returns the variables assigned anywhere in body, each once.
func (d *declarations) readIn(body recipe.Body) []*expr.Var {
	seen := make(map[expr.Key]bool)
	var res []*expr.Var
	var visit func(recipe.Body)
	visit = func(body recipe.Body) {
		for _, st := range body {
			for _, v := range d.reads[st] {
				if !seen[v.Key()] {
					seen[v.Key()] = true
					res = append(res, v)
				}
			}
			switch s := st.(type) {
			case *recipe.For:
				visit(s.Body)
			case *recipe.If:
				visit(s.Then)
				visit(s.Else)
			case *recipe.Section:
				visit(s.Body)
			}
		}
	}
	visit(body)
	return res
}
