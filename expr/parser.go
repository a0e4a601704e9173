package expr

import (
	"github.com/pkg/errors"
)

// ErrSyntax is the cause of every parse error.
var ErrSyntax = errors.New("syntax error")

// Parse parses an expression such as "NR", "2*NP+1", "X[i][j]" or
// "LRP == 1 and NIS > 0".
func Parse(src string) (Expr, error) {
	lexer, err := NewLexer(src)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{src: src}
	for _, tok := range tokens {
		switch tok.Kind {
		case "WhiteSpace":
			continue
		case "ERROR":
			return nil, errors.Wrapf(ErrSyntax, "%q: unexpected character %q at %s", src, tok.Literal, tok.Position)
		}
		p.tokens = append(p.tokens, tok)
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.at("EOF") {
		return nil, p.errorf("unexpected %q", p.peek().Literal)
	}
	return e, nil
}

// ParseVar parses a variable token such as "ZA" or "E[i,j]".
func ParseVar(src string) (*Var, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	v, ok := e.(*Var)
	if !ok {
		return nil, errors.Wrapf(ErrSyntax, "%q: not a variable", src)
	}
	return v, nil
}

type parser struct {
	src    string
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: "EOF"}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind string) bool {
	return p.peek().Kind == kind
}

// accept consumes the next token if its literal is one of lits.
func (p *parser) accept(lits ...string) (string, bool) {
	tok := p.peek()
	if tok.Kind != "Operator" && tok.Kind != "Name" {
		return "", false
	}
	for _, lit := range lits {
		if tok.Literal == lit {
			p.pos++
			return lit, true
		}
	}
	return "", false
}

func (p *parser) expect(lit string) error {
	if _, ok := p.accept(lit); !ok {
		return p.errorf("expected %q, got %q", lit, p.peek().Literal)
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.Wrapf(ErrSyntax, "%q at %s: "+format, append([]any{p.src, p.peek().Position}, args...)...)
}

func (p *parser) parseOr() (Expr, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept("or"); !ok {
			return x, nil
		}
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: "or", X: x, Y: y}
	}
}

func (p *parser) parseAnd() (Expr, error) {
	x, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept("and"); !ok {
			return x, nil
		}
		y, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: "and", X: x, Y: y}
	}
}

func (p *parser) parseNot() (Expr, error) {
	if _, ok := p.accept("not"); ok {
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "not", X: x}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	x, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if op, ok := p.accept("==", "!=", "<=", ">=", "<", ">"); ok {
		y, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, X: x, Y: y}, nil
	}
	return x, nil
}

func (p *parser) parseSum() (Expr, error) {
	x, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept("+", "-")
		if !ok {
			return x, nil
		}
		y, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept("*", "/")
		if !ok {
			return x, nil
		}
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if _, ok := p.accept("-"); ok {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if n, ok := x.(*Num); ok {
			return &Num{Text: "-" + n.Text}, nil
		}
		return &Unary{Op: "-", X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch {
	case tok.Kind == "Number":
		p.next()
		return &Num{Text: tok.Literal}, nil
	case tok.Kind == "Name" && !isKeyword(tok.Literal):
		p.next()
		return p.parseIndices(&Var{Name: tok.Literal})
	case tok.Kind == "Operator" && tok.Literal == "(":
		p.next()
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return x, nil
	}
	if tok.Kind == "EOF" {
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %q", tok.Literal)
}

// parseIndices accepts X[i][j] as well as X[i,j].
func (p *parser) parseIndices(v *Var) (Expr, error) {
	for {
		if _, ok := p.accept("["); !ok {
			return v, nil
		}
		for {
			idx, err := p.parseIndex()
			if err != nil {
				return nil, err
			}
			v.Indices = append(v.Indices, idx)
			if _, ok := p.accept(","); !ok {
				break
			}
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseIndex() (Expr, error) {
	tok := p.peek()
	x, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	switch idx := x.(type) {
	case *Var:
		return idx, nil
	case *Num:
		if idx.IsInt() {
			return idx, nil
		}
	}
	return nil, errors.Wrapf(ErrSyntax, "%q at %s: index must be a variable or an integer, got %s", p.src, tok.Position, x)
}

func isKeyword(s string) bool {
	switch s {
	case "and", "or", "not":
		return true
	}
	return false
}
