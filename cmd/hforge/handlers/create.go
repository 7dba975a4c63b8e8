package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/provisioning"
	"github.com/imamik/hforge/internal/state"
)

// output receives rendered results. Replaced in tests.
var output io.Writer = os.Stdout

// Create handles the create command.
//
// It launches the orchestrator and every factory concurrently, assembles the
// topology and saves it. When the launch fails, every node that was created
// is deleted again unless keepOnFailure is set.
func Create(ctx context.Context, configPath string, keepOnFailure bool) error {
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
	if _, err := store.Load(ctx); err == nil {
		return fmt.Errorf("cluster %s already has a saved topology at %s, destroy it first", cfg.Name, store.Location())
	} else if !errors.Is(err, state.ErrNotFound) {
		return fmt.Errorf("failed to check saved topology: %w", err)
	}

	publicKey, generated, err := ensureKeyPair(cfg.SSH.PrivateKey, cfg.SSH.Generate)
	if err != nil {
		return err
	}
	if generated {
		log.Info("Generated SSH key pair", "path", cfg.SSH.PrivateKey)
	}

	backend, err := newBackend(ctx, cfg, publicKey)
	if err != nil {
		return err
	}

	log.Info("Creating cluster", "factories", cfg.Factories.Count)
	pCtx := provisioning.NewContext(ctx, cfg, backend, provisioning.NewLogObserver(log))
	defer writeMetrics(log, pCtx.Metrics, cfg.MetricsFile)

	if err := provisioning.CreatePipeline().Run(pCtx); err != nil {
		return fmt.Errorf("create failed: %w", handleFailure(pCtx, backend, pCtx.State.Orphans(err), err, keepOnFailure))
	}

	// The nodes exist now. An interrupt must not keep their topology from
	// being saved.
	topo := pCtx.State.Topology
	if err := store.Save(context.WithoutCancel(ctx), topo); err != nil {
		err = fmt.Errorf("failed to save topology to %s: %w", store.Location(), err)
		return handleFailure(pCtx, backend, topo.Handles(), err, keepOnFailure)
	}

	_, _ = fmt.Fprint(output, renderTopology(topo, store.Location()))
	return nil
}

// handleFailure rolls back the nodes a failed run left behind and returns
// the error to report.
func handleFailure(pCtx *provisioning.Context, deleter provisioning.NodeDeleter, orphans []cluster.NodeHandle, err error, keep bool) error {
	log := logr.FromContextOrDiscard(pCtx)
	if len(orphans) == 0 {
		return err
	}

	if keep {
		log.Info("Keeping created nodes", "nodes", handleNames(orphans))
		return err
	}

	log.Info("Rolling back created nodes", "count", len(orphans))
	rbErr := provisioning.Rollback(context.WithoutCancel(pCtx), deleter, orphans, provisioning.RollbackOptions{
		ClusterName: pCtx.Config.Name,
		Concurrency: pCtx.Config.Concurrency,
		Observer:    pCtx.Observer,
		Metrics:     pCtx.Metrics,
	})
	if rbErr != nil {
		return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
	}
	return err
}

func handleNames(handles []cluster.NodeHandle) []string {
	names := make([]string, len(handles))
	for i, h := range handles {
		names[i] = h.Name
	}
	return names
}

func writeMetrics(log logr.Logger, m *provisioning.Metrics, path string) {
	if err := m.WriteTextfile(path); err != nil {
		log.Error(err, "Failed to write metrics file", "path", path)
	}
}
