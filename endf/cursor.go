package endf

import (
	"fmt"
	"strconv"
	"strings"
)

// Column layout of the control fields following the six numeric fields.
const (
	matStart = 66
	matWidth = 4
	mfStart  = 70
	mfWidth  = 2
	mtStart  = 72
	mtWidth  = 3
)

// Cursor walks the lines of one record group. All decoding methods operate
// on the line most recently returned by ReadLine and panic with a
// *FormatError on failure; generated functions turn the panic into an
// error with Recover.
type Cursor struct {
	lines []string
	next  int
	line  string
}

func NewCursor(lines []string) *Cursor {
	return &Cursor{lines: lines}
}

// LineNumber returns the 1-based number of the current line, or 0 before
// the first ReadLine.
func (c *Cursor) LineNumber() int {
	return c.next
}

// Line returns the current line.
func (c *Cursor) Line() string {
	return c.line
}

// Header reads MAT, MF and MT from the first line without consuming it and
// returns a fresh root node holding them.
func (c *Cursor) Header() Dict {
	if len(c.lines) == 0 {
		panic(&FormatError{Err: ErrInsufficientInput})
	}
	first := c.lines[0]
	node := Dict{}
	node["MAT"] = c.control(first, 1, matStart, matWidth)
	node["MF"] = c.control(first, 1, mfStart, mfWidth)
	node["MT"] = c.control(first, 1, mtStart, mtWidth)
	return node
}

// ReadLine advances to the next line. Running out of lines fails at the
// last line consumed.
func (c *Cursor) ReadLine() {
	if c.next >= len(c.lines) {
		c.Fail(fmt.Errorf("%w after line %d", ErrInsufficientInput, c.next))
	}
	c.line = c.lines[c.next]
	c.next++
}

// Float decodes the numeric field in slot 0-5 of the current line.
func (c *Cursor) Float(slot int) float64 {
	v, err := ParseFloat(field(c.line, slot))
	if err != nil {
		c.Fail(fmt.Errorf("%w: slot %d: %v", ErrMalformedField, slot, err))
	}
	return v
}

// Int decodes the numeric field in slot 0-5 of the current line.
func (c *Cursor) Int(slot int) int {
	v, err := ParseInt(field(c.line, slot))
	if err != nil {
		c.Fail(fmt.Errorf("%w: slot %d: %v", ErrMalformedField, slot, err))
	}
	return v
}

// Text returns length characters of the current line starting at start.
func (c *Cursor) Text(start, length int) string {
	return column(c.line, start, length)
}

// IntVec reads n integers from the lines following the current one,
// six per line.
func (c *Cursor) IntVec(n int) []int {
	res := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i%FieldsPerLine == 0 {
			c.ReadLine()
		}
		res = append(res, c.Int(i%FieldsPerLine))
	}
	return res
}

// FloatVec reads n floats from the lines following the current one,
// six per line.
func (c *Cursor) FloatVec(n int) []float64 {
	res := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if i%FieldsPerLine == 0 {
			c.ReadLine()
		}
		res = append(res, c.Float(i%FieldsPerLine))
	}
	return res
}

// ReadSend consumes the end-of-section record: six zero fields and MT 0.
// Any other line, including one with malformed fields, fails with
// ErrExpectedSend.
func (c *Cursor) ReadSend() {
	c.ReadLine()
	for slot := 0; slot < FieldsPerLine; slot++ {
		v, err := ParseFloat(field(c.line, slot))
		if err != nil {
			c.Fail(fmt.Errorf("%w: slot %d: %v", ErrExpectedSend, slot, err))
		}
		if v != 0 {
			c.Fail(ErrExpectedSend)
		}
	}
	mt := strings.TrimSpace(column(c.line, mtStart, mtWidth))
	if mt == "" {
		return
	}
	if n, err := strconv.Atoi(mt); err != nil || n != 0 {
		c.Fail(ErrExpectedSend)
	}
}

// Inconsistent aborts because a field that was already read for the
// current index binding was found with a different value.
func (c *Cursor) Inconsistent(name string, have, got any) {
	c.Fail(fmt.Errorf("%w for %s: have %v, got %v", ErrInconsistentValue, name, have, got))
}

// Fail aborts parsing with err attached to the current line.
func (c *Cursor) Fail(err error) {
	panic(&FormatError{Line: c.next, Content: c.line, Err: err})
}

func (c *Cursor) control(line string, lineno, start, width int) int {
	s := strings.TrimSpace(column(line, start, width))
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		panic(&FormatError{Line: lineno, Content: line, Err: fmt.Errorf("%w: columns %d-%d: %v", ErrMalformedField, start, start+width-1, err)})
	}
	return v
}
