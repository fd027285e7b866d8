package commands

import (
	"fmt"

	"github.com/oqd/pdfservice/internal/application/printing"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a job ticket against the JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			if err := validateTicket(raw); err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "job ticket file, - for stdin")
	return cmd
}

func validateTicket(raw []byte) error {
	schema, err := printing.NewSchemaValidator()
	if err != nil {
		return err
	}
	return schema.Validate(raw)
}
