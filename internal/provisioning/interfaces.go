package provisioning

import (
	"context"

	"github.com/imamik/hforge/internal/cluster"
)

// Phase names.
const (
	PhaseValidation = "validation"
	PhasePlan       = "plan"
	PhaseLaunch     = "launch"
	PhaseAssemble   = "assemble"
	PhaseRollback   = "rollback"
	PhaseDestroy    = "destroy"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// NodeDeleter deletes nodes. Every cluster.Provisioner is one.
type NodeDeleter interface {
	DeleteNode(ctx context.Context, handle cluster.NodeHandle) error
}

// NodeLister finds the nodes a provider holds for a cluster.
type NodeLister interface {
	ListNodes(ctx context.Context, clusterName string) ([]cluster.NodeHandle, error)
}
