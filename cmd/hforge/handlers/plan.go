package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/hforge/internal/cluster"
)

// Plan handles the plan command. It prints the nodes create would launch
// without calling the provider.
func Plan(_ context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	plan, err := cluster.BuildPlan(cfg.PlanOptions())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprint(output, renderPlan(cfg.Name, cfg.Provider, plan))
	return nil
}
