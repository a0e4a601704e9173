package codegen

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrVariableNotFound = errors.New("variable not found")
	ErrAlreadyDeclared  = errors.New("variable already declared in this scope")
	ErrNotLoopVariable  = errors.New("variable used as index is not a loop variable")
	ErrUnbalanced       = errors.New("unbalanced block structure")
	ErrUnsupported      = errors.New("unsupported construct")
	ErrType             = errors.New("type mismatch")
)

// BindingError is a generation-time failure tied to one variable token.
type BindingError struct {
	Var string
	Err error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Var, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

func bindingErrorf(v fmt.Stringer, cause error, format string, args ...any) error {
	return &BindingError{Var: v.String(), Err: errors.Wrapf(cause, format, args...)}
}

func bindingError(v fmt.Stringer, cause error) error {
	return &BindingError{Var: v.String(), Err: errors.WithStack(cause)}
}

// ConfigError reports a type registry whose modules do not cover every
// binding exactly once.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "type registry: " + strings.Join(e.Problems, "; ")
}
