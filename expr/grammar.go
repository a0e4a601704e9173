package expr

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/ebnf"
)

// tokenGrammar describes the lexical structure of recipe expressions.
// Only the productions named in tokenKinds produce tokens; the others are
// building blocks.
const tokenGrammar = `
Token      = Number | Name | Operator | WhiteSpace .
Number     = Digit { Digit } [ "." { Digit } ] .
Name       = Letter { Letter | Digit | "_" } .
Operator   = "==" | "!=" | "<=" | ">=" | "<" | ">" | "+" | "-" | "*" | "/" | "(" | ")" | "[" | "]" | "," .
WhiteSpace = " " | "\t" | "\n" | "\r" .
Digit      = "0" … "9" .
Letter     = "a" … "z" | "A" … "Z" | "_" .
`

// tokenKinds lists the token productions in priority order.
var tokenKinds = []string{"Number", "Name", "Operator", "WhiteSpace"}

var (
	grammarOnce sync.Once
	grammar     ebnf.Grammar
	grammarErr  error
)

// Grammar returns the verified token grammar.
func Grammar() (ebnf.Grammar, error) {
	grammarOnce.Do(func() {
		g, err := ebnf.Parse("expr.ebnf", strings.NewReader(tokenGrammar))
		if err != nil {
			grammarErr = errors.Wrap(err, "parse token grammar")
			return
		}
		if err := ebnf.Verify(g, "Token"); err != nil {
			grammarErr = errors.Wrap(err, "verify token grammar")
			return
		}
		grammar = g
	})
	return grammar, grammarErr
}

// GrammarSource returns the EBNF text of the token grammar.
func GrammarSource() string {
	return strings.TrimSpace(tokenGrammar) + "\n"
}
