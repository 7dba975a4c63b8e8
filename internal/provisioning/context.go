package provisioning

import (
	"context"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/config"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config      *config.Config
	State       *State
	Provisioner cluster.Provisioner
	Observer    Observer
	Metrics     *Metrics
}

// NewContext creates a new provisioning context. Events are tagged with the
// cluster name.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	provisioner cluster.Provisioner,
	observer Observer,
) *Context {
	return &Context{
		Context:     ctx,
		Config:      cfg,
		State:       NewState(),
		Provisioner: provisioner,
		Observer:    observer.WithFields(map[string]string{"cluster": cfg.Name}),
		Metrics:     NewMetrics(),
	}
}
