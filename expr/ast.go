// Package expr parses the arithmetic and logical expressions used in
// recipes: loop bounds, conditions, index and shift expressions.
package expr

import (
	"strconv"
	"strings"
)

// Expr is a node of an expression tree.
type Expr interface {
	String() string
	exprNode()
}

// Num is a numeric literal.
type Num struct {
	Text string
}

// Var is a variable token: a name with zero or more indices. Each index is
// a *Var or an integer *Num.
type Var struct {
	Name    string
	Indices []Expr
}

// Unary is a prefix operation, "-" or "not".
type Unary struct {
	Op string
	X  Expr
}

// Binary is an infix operation. Op is one of + - * / == != < <= > >= and or.
type Binary struct {
	Op string
	X  Expr
	Y  Expr
}

func (*Num) exprNode()    {}
func (*Var) exprNode()    {}
func (*Unary) exprNode()  {}
func (*Binary) exprNode() {}

// IsInt reports whether the literal has no fractional part.
func (n *Num) IsInt() bool {
	_, err := strconv.Atoi(n.Text)
	return err == nil
}

// Int returns the literal as an integer; IsInt must hold.
func (n *Num) Int() int {
	v, _ := strconv.Atoi(n.Text)
	return v
}

func (n *Num) Float() float64 {
	v, _ := strconv.ParseFloat(n.Text, 64)
	return v
}

func (n *Num) String() string {
	return n.Text
}

// Key identifies a variable: name and dimensionality. Index values do not
// take part.
type Key struct {
	Name string
	Dims int
}

func (k Key) String() string {
	return k.Name + "/" + strconv.Itoa(k.Dims)
}

func (v *Var) Key() Key {
	return Key{Name: v.Name, Dims: len(v.Indices)}
}

func (v *Var) Dims() int {
	return len(v.Indices)
}

func (v *Var) String() string {
	if len(v.Indices) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Indices))
	for i, idx := range v.Indices {
		parts[i] = idx.String()
	}
	return v.Name + "[" + strings.Join(parts, ",") + "]"
}

func (u *Unary) String() string {
	if u.Op == "not" {
		return "not " + u.X.String()
	}
	return u.Op + u.X.String()
}

func (b *Binary) String() string {
	return "(" + b.X.String() + " " + b.Op + " " + b.Y.String() + ")"
}

// Variables returns the variables referenced by e in order of appearance,
// including those used as indices.
func Variables(e Expr) []*Var {
	var out []*Var
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case *Var:
			out = append(out, x)
			for _, idx := range x.Indices {
				walk(idx)
			}
		case *Unary:
			walk(x.X)
		case *Binary:
			walk(x.X)
			walk(x.Y)
		}
	}
	walk(e)
	return out
}
