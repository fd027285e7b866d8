package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplatesCommand(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the report templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			engine, err := newTemplateEngine(cfg)
			if err != nil {
				return err
			}
			for _, name := range engine.TemplateNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
