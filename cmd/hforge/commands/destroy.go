package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hforge/cmd/hforge/handlers"
)

// Destroy returns the destroy command.
func Destroy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete every node of the cluster",
		Long: `Destroy deletes every node of the cluster.

The saved topology names the nodes to delete. Without one, every node the
provider labels with the cluster name is deleted.

Example:
  hforge destroy -c hforge.yaml

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to cluster configuration file (default: hforge.yaml)")

	return cmd
}
