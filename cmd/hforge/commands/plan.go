package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hforge/cmd/hforge/handlers"
)

// Plan returns the plan command.
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the nodes create would launch",
		Long: `Plan builds the node specs from the configuration and prints them.

No provider API is called.

Example:
  hforge plan -c hforge.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to cluster configuration file (default: hforge.yaml)")

	return cmd
}
