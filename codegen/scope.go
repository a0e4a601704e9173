package codegen

import (
	"github.com/dhamidi/endfgen/expr"
)

// Scope maps variables to bindings and links to its enclosing scope.
// Scopes are opened for function bodies, loops, branches and sections.
type Scope struct {
	parent *Scope
	vars   map[expr.Key]Binding
	order  []expr.Key
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent: parent,
		vars:   make(map[expr.Key]Binding),
	}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// Declare binds v in this scope. A binding of the same name and
// dimensionality in an enclosing scope is shadowed; one in this scope is
// an error.
func (s *Scope) Declare(v *expr.Var, b Binding) error {
	key := v.Key()
	if _, ok := s.vars[key]; ok {
		return bindingError(v, ErrAlreadyDeclared)
	}
	b.Dims = key.Dims
	s.vars[key] = b
	s.order = append(s.order, key)
	return nil
}

// Lookup finds v in this scope only.
func (s *Scope) Lookup(v *expr.Var) (Binding, bool) {
	b, ok := s.vars[v.Key()]
	return b, ok
}

// Resolve walks outward from s until v is found.
func (s *Scope) Resolve(v *expr.Var) (Binding, error) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[v.Key()]; ok {
			return b, nil
		}
	}
	return Binding{}, bindingError(v, ErrVariableNotFound)
}

// Keys returns the variables declared in this scope in declaration order.
func (s *Scope) Keys() []expr.Key {
	return append([]expr.Key(nil), s.order...)
}
