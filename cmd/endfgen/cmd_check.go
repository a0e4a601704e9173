package main

import (
	"fmt"

	"github.com/dhamidi/endfgen/compile"
	"github.com/dhamidi/endfgen/recipe"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "check <recipe.yaml>",
		Short:         "Report binding and structure errors of a recipe",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			r, err := recipe.Load(filename)
			if err != nil {
				fmt.Printf("%s: %v\n", filename, err)
				return err
			}
			errs := compile.Check(r, nil)
			for _, e := range errs {
				fmt.Printf("%s: %v\n", filename, e)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d functions failed", len(errs))
			}
			return nil
		},
	}
}
