// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/imamik/hforge/cmd/hforge/handlers"
)

// Root returns the root command for the hforge CLI.
//
// Every subcommand receives a logger in its context. --verbose may be
// repeated to raise the log verbosity.
func Root() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:           "hforge",
		Short:         "Provision an orchestrator and its factory nodes in parallel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log := handlers.NewLogger(os.Stderr, verbosity)
			cmd.SetContext(logr.NewContext(cmd.Context(), log))
		},
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	cmd.AddCommand(Plan())
	cmd.AddCommand(Create())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Version())

	return cmd
}
