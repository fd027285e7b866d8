// Package commands implements the pdfctl command line.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the pdfctl root command
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultDeps())
}

func newRootCommand(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pdfctl",
		Short:         "Render checklists and job tickets to PDF without the HTTP service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(
		newRenderCommand(d),
		newTemplatesCommand(d),
		newValidateCommand(),
	)
	return cmd
}
