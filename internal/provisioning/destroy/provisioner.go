package destroy

import (
	"errors"
	"fmt"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/provisioning"
)

// Provisioner handles cluster destruction.
type Provisioner struct {
	lister provisioning.NodeLister
}

// NewProvisioner creates a new destroy provisioner. The CLI always passes
// its backend. With a nil lister only a loaded topology can be destroyed,
// and Provision fails when State.Topology is empty.
func NewProvisioner(lister provisioning.NodeLister) *Provisioner {
	return &Provisioner{lister: lister}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return provisioning.PhaseDestroy
}

// Provision deletes every node of the cluster.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	handles, err := p.targets(ctx)
	if err != nil {
		return err
	}

	if len(handles) == 0 {
		ctx.Observer.Event(provisioning.Event{
			Type:    provisioning.EventPhaseCompleted,
			Phase:   provisioning.PhaseDestroy,
			Message: "no nodes found",
		})
		return nil
	}

	return provisioning.Rollback(ctx, ctx.Provisioner, handles, provisioning.RollbackOptions{
		ClusterName: ctx.Config.Name,
		Concurrency: ctx.Config.Concurrency,
		Observer:    ctx.Observer,
		Metrics:     ctx.Metrics,
	})
}

// targets prefers the saved topology. Listing by label also catches nodes
// of a run that failed before its topology was saved.
func (p *Provisioner) targets(ctx *provisioning.Context) ([]cluster.NodeHandle, error) {
	if topo := ctx.State.Topology; topo != nil {
		return topo.Handles(), nil
	}
	if p.lister == nil {
		return nil, errors.New("no saved topology and no way to list provider nodes")
	}

	handles, err := p.lister.ListNodes(ctx, ctx.Config.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster nodes: %w", err)
	}
	return handles, nil
}
