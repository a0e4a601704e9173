package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
)

// Kind is the base type of a binding or expression.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindText
	KindMatrix2D
	// KindBool only types expressions; no variable has it.
	KindBool
)

// MaxDims bounds the dimensionality the registry validates.
const MaxDims = 4

// storageKinds are the kinds a variable binding may have.
var storageKinds = []Kind{KindInt, KindFloat, KindText, KindMatrix2D}

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindMatrix2D:
		return "matrix2d"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a recipe type name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range storageKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Binding is the type information attached to a variable in a scope.
type Binding struct {
	Kind Kind
	Dims int
	// Loop marks a loop variable; only loop variables may index arrays.
	Loop bool
	// Shift is subtracted from a loop variable's value to obtain the
	// storage index. It is the loop's start expression.
	Shift expr.Expr
	// Persistent variables survive between calls of the generated
	// function through an endf.State.
	Persistent bool
}

func (b Binding) valid() bool {
	if b.Kind == KindMatrix2D {
		return b.Dims == 2
	}
	return b.Dims >= 0 && b.Dims <= MaxDims
}

// A TypeModule generates storage, access, assignment and read-state code
// for one category of variables. Index arguments are already resolved:
// idx holds storage indices (shift applied), raw the logical index values.
type TypeModule interface {
	Name() string
	// Responsible reports whether the module owns variables bound by b.
	Responsible(b Binding) bool
	// ValueKind is the kind of the values assigned to one element.
	ValueKind(b Binding) Kind

	StorageName(v *expr.Var) string
	StorageType(b Binding) jen.Code
	// Declare returns the declarations of storage and read-state.
	Declare(v *expr.Var, b Binding) []jen.Code
	Access(v *expr.Var, idx []jen.Code) *jen.Statement
	Assign(v *expr.Var, idx []jen.Code, rhs jen.Code) []jen.Code

	ReadCheck(v *expr.Var, idx, raw []jen.Code) *jen.Statement
	MarkRead(v *expr.Var, raw []jen.Code) []jen.Code
	MarkUnread(v *expr.Var) []jen.Code

	// Restore loads value and read-state from the endf.Cell named cell;
	// Adopt writes them back.
	Restore(v *expr.Var, b Binding, cell string) []jen.Code
	Adopt(v *expr.Var, cell string) []jen.Code
}

// Registry dispatches bindings to type modules. Every valid binding must be
// claimed by exactly one module; Validate checks this before generation.
type Registry struct {
	modules   []TypeModule
	validated bool
}

// NewRegistry registers modules in order and validates the result.
func NewRegistry(modules ...TypeModule) (*Registry, error) {
	r := &Registry{}
	for _, m := range modules {
		r.Register(m)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultRegistry holds the scalar/array and Matrix2D modules.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(ScalarArray{}, Matrix2D{})
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Register(m TypeModule) {
	r.modules = append(r.modules, m)
	r.validated = false
}

func (r *Registry) Modules() []TypeModule {
	return append([]TypeModule(nil), r.modules...)
}

// Validate enumerates every valid binding and reports those claimed by no
// module or by more than one.
func (r *Registry) Validate() error {
	var problems []string
	for _, k := range storageKinds {
		for dims := 0; dims <= MaxDims; dims++ {
			b := Binding{Kind: k, Dims: dims}
			if !b.valid() {
				continue
			}
			var claims []string
			for _, m := range r.modules {
				if m.Responsible(b) {
					claims = append(claims, m.Name())
				}
			}
			switch len(claims) {
			case 0:
				problems = append(problems, fmt.Sprintf("no module for %s with %d dims", k, dims))
			case 1:
			default:
				problems = append(problems, fmt.Sprintf("%s with %d dims claimed by %v", k, dims, claims))
			}
		}
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	r.validated = true
	return nil
}

// Lookup returns the module responsible for b.
func (r *Registry) Lookup(b Binding) (TypeModule, error) {
	if !r.validated {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	if !b.valid() {
		return nil, &ConfigError{Problems: []string{fmt.Sprintf("invalid binding %s with %d dims", b.Kind, b.Dims)}}
	}
	for _, m := range r.modules {
		if m.Responsible(b) {
			return m, nil
		}
	}
	return nil, &ConfigError{Problems: []string{fmt.Sprintf("no module for %s with %d dims", b.Kind, b.Dims)}}
}
