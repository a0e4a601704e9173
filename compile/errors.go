package compile

import (
	"fmt"
	"strings"
)

// Error is a failure to compile one function, positioned at the recipe
// line of the offending statement.
type Error struct {
	Function string
	Line     int
	Err      error
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Function, e.Err)
	}
	return fmt.Sprintf("%s: line %d: %v", e.Function, e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorList collects the errors of all functions of a recipe.
type ErrorList []*Error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}
