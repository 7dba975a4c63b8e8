package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/config"
	"github.com/imamik/hforge/internal/platform/gce"
	"github.com/imamik/hforge/internal/platform/hcloud"
	"github.com/imamik/hforge/internal/provisioning"
	"github.com/imamik/hforge/internal/state"
	"github.com/imamik/hforge/internal/util/keygen"
	"github.com/imamik/hforge/internal/util/labels"
)

// Backend is a provider client the CLI drives: it creates and deletes nodes
// and lists the nodes of a cluster.
type Backend interface {
	cluster.Provisioner
	provisioning.NodeLister
}

// Factory function variables - can be replaced in tests.
var (
	// newBackend creates the provider client for cfg. publicKey is installed
	// on every node; it is empty when no node will be created.
	newBackend = defaultBackend

	// newStateStore creates the store the topology is saved to.
	newStateStore = state.New

	// ensureKeyPair returns the public half of the SSH key, generating the
	// pair when asked to.
	ensureKeyPair = keygen.EnsureKeyPair
)

func defaultBackend(ctx context.Context, cfg *config.Config, publicKey string) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderGCE:
		client, err := gce.NewFromConfig(ctx, cfg, publicKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderHCloud:
		token := os.Getenv("HCLOUD_TOKEN")
		if token == "" {
			return nil, fmt.Errorf("HCLOUD_TOKEN environment variable is required")
		}
		client := hcloud.NewFromConfig(token, cfg)
		if publicKey != "" {
			keyLabels := labels.NewLabelBuilder(cfg.Name).Build()
			if _, err := client.EnsureSSHKey(ctx, cfg.HCloud.SSHKeyName, publicKey, keyLabels); err != nil {
				return nil, fmt.Errorf("failed to upload ssh key: %w", err)
			}
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
