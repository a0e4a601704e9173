package endf

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientInput = errors.New("expected more lines")
	ErrExpectedSend      = errors.New("expected SEND record")
	ErrInconsistentValue = errors.New("inconsistent value")
	ErrMalformedField    = errors.New("malformed field")
)

// FormatError reports a problem with the input of a generated parsing
// function. Line is 1-based; it is 0 when the input ran out.
type FormatError struct {
	Line    int
	Content string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Content)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Recover converts a *FormatError panic raised by a Cursor into an error
// return. Generated functions defer it with their named results, so a
// failed parse never returns a partially filled node.
func Recover(node *Dict, err *error) {
	r := recover()
	if r == nil {
		return
	}
	fe, ok := r.(*FormatError)
	if !ok {
		panic(r)
	}
	*node = nil
	*err = fe
}
