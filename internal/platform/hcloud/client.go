package hcloud

import (
	"context"

	"github.com/imamik/hforge/internal/cluster"
)

// NodeManager is everything the CLI needs from a Hetzner backend.
type NodeManager interface {
	cluster.Provisioner

	// ListNodes returns every server labelled with the cluster name.
	ListNodes(ctx context.Context, clusterName string) ([]cluster.NodeHandle, error)

	// EnsureSSHKey uploads the public key under name unless a key with that
	// name exists already. An existing key must have the same fingerprint.
	EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (int64, error)
}

var _ NodeManager = (*RealClient)(nil)
