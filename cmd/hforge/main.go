// Package main is the entry point for the hforge CLI.
//
// hforge creates one orchestrator node and a set of factory nodes on
// Hetzner Cloud or Google Compute Engine, launching them all at once, and
// records their addresses for later SSH orchestration.
//
// Commands: plan, create, destroy, version.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/hforge/cmd/hforge/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
