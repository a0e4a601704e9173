package main

import (
	"github.com/dhamidi/endfgen/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server for recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, nil)
			return server.RunStdio()
		},
	}
}
