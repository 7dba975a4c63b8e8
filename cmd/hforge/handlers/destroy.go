package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/hforge/internal/provisioning"
	"github.com/imamik/hforge/internal/provisioning/destroy"
	"github.com/imamik/hforge/internal/state"
)

// Destroy handles the destroy command.
//
// It deletes every node of the saved topology. Without a saved topology the
// provider is asked for every node labelled with the cluster name, which
// also finds the leftovers of a run created with --keep-on-failure.
func Destroy(ctx context.Context, configPath string) error {
	log := logr.FromContextOrDiscard(ctx)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log = log.WithValues("cluster", cfg.Name, "provider", cfg.Provider)

	store, err := newStateStore(ctx, cfg.State)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	topo, err := store.Load(ctx)
	if err != nil && !errors.Is(err, state.ErrNotFound) {
		return fmt.Errorf("failed to load saved topology: %w", err)
	}
	if topo == nil {
		log.Info("No saved topology, looking up nodes by label", "state", store.Location())
	}

	backend, err := newBackend(ctx, cfg, "")
	if err != nil {
		return err
	}

	log.Info("Destroying cluster")
	pCtx := provisioning.NewContext(ctx, cfg, backend, provisioning.NewLogObserver(log))
	pCtx.State.Topology = topo
	defer writeMetrics(log, pCtx.Metrics, cfg.MetricsFile)

	if err := destroy.NewProvisioner(backend).Provision(pCtx); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	if topo != nil {
		if err := store.Delete(ctx); err != nil {
			return fmt.Errorf("failed to remove saved topology: %w", err)
		}
	}

	log.Info("Cluster destroyed")
	return nil
}
