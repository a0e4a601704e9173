package main

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dhamidi/endfgen/expr"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var parse bool

	cmd := &cobra.Command{
		Use:   "tokens <expression>",
		Short: "Print the tokens of a recipe expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := strings.Join(args, " ")
			if parse {
				e, err := expr.Parse(src)
				if err != nil {
					return fmt.Errorf("parse: %w", err)
				}
				fmt.Println(e)
				return nil
			}

			lexer, err := expr.NewLexer(src)
			if err != nil {
				return fmt.Errorf("grammar: %w", err)
			}
			tokens, err := lexer.Tokenize()
			for _, tok := range tokens {
				fmt.Println(tok)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&parse, "parse", "p", false, "print the parsed expression instead of its tokens")

	return cmd
}

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "Verify and print the expression token grammar",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := expr.Grammar(); err != nil {
				printErrors(err)
				return err
			}
			fmt.Print(expr.GrammarSource())
			return nil
		},
	}

	return cmd
}

// printErrors prints each error of the list ebnf reports on its own line.
func printErrors(err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Println(v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Println(err)
}
