package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhamidi/endfgen/compile"
	"github.com/dhamidi/endfgen/recipe"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate <recipe.yaml>",
		Short: "Generate Go parsing functions from a recipe",
		Long: `Generate a Go source file with one parsing function per recipe function.

The file is written to stdout unless -o names an output file. Nothing is
written when any function fails to compile.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := recipe.Load(args[0])
			if err != nil {
				return fmt.Errorf("load recipe: %w", err)
			}

			var buf bytes.Buffer
			if err := compile.Render(&buf, r, nil); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if output != "" {
				return os.WriteFile(output, buf.Bytes(), 0644)
			}
			_, err = os.Stdout.Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the generated code to this file")

	return cmd
}
