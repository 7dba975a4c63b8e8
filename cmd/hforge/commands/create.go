package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hforge/cmd/hforge/handlers"
)

// Create returns the create command.
//
// The create command launches the orchestrator and every factory at once
// and saves the resulting topology.
func Create() *cobra.Command {
	var (
		configPath    string
		keepOnFailure bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the orchestrator and factory nodes",
		Long: `Create launches the orchestrator and all factory nodes concurrently.

When every node comes up, their addresses are saved as the cluster topology
and printed. When any node fails, the nodes that were created are deleted
again, unless --keep-on-failure is set. Kept nodes can be removed later
with hforge destroy.

Example:
  hforge create -c hforge.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), configPath, keepOnFailure)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to cluster configuration file (default: hforge.yaml)")
	cmd.Flags().BoolVar(&keepOnFailure, "keep-on-failure", false, "Keep created nodes when the launch fails")

	return cmd
}
