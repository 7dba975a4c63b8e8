package provisioning

import (
	"errors"
	"time"

	"github.com/imamik/hforge/internal/cluster"
)

// PlanPhase builds the node specs from the configuration.
type PlanPhase struct{}

// NewPlanPhase creates a new plan phase.
func NewPlanPhase() *PlanPhase {
	return &PlanPhase{}
}

// Name implements the Phase interface.
func (*PlanPhase) Name() string {
	return PhasePlan
}

// Provision implements the Phase interface.
func (*PlanPhase) Provision(ctx *Context) error {
	plan, err := cluster.BuildPlan(ctx.Config.PlanOptions())
	if err != nil {
		return err
	}
	ctx.State.Plan = plan
	return nil
}

// LaunchPhase creates every planned node concurrently.
type LaunchPhase struct{}

// NewLaunchPhase creates a new launch phase.
func NewLaunchPhase() *LaunchPhase {
	return &LaunchPhase{}
}

// Name implements the Phase interface.
func (*LaunchPhase) Name() string {
	return PhaseLaunch
}

// Provision implements the Phase interface. A failed launch returns the
// launcher's *cluster.ProvisionError unchanged.
func (*LaunchPhase) Provision(ctx *Context) error {
	if ctx.State.Plan == nil {
		return errors.New("no plan to launch")
	}

	launcher := cluster.NewLauncher(ctx.Provisioner,
		cluster.WithConcurrency(ctx.Config.Concurrency),
		cluster.WithObserver(NewLaunchObserver(ctx.Config.Name, ctx.Observer, ctx.Metrics)),
	)

	start := time.Now()
	result, err := launcher.Launch(ctx, ctx.State.Plan)
	if err != nil {
		ctx.Metrics.RecordLaunch(ctx.Config.Name, ResultFailure, time.Since(start))
		return err
	}
	ctx.Metrics.RecordLaunch(ctx.Config.Name, ResultSuccess, time.Since(start))
	ctx.State.Result = result
	return nil
}

// AssemblePhase turns the launch result into the cluster topology.
type AssemblePhase struct{}

// NewAssemblePhase creates a new assemble phase.
func NewAssemblePhase() *AssemblePhase {
	return &AssemblePhase{}
}

// Name implements the Phase interface.
func (*AssemblePhase) Name() string {
	return PhaseAssemble
}

// Provision implements the Phase interface.
func (*AssemblePhase) Provision(ctx *Context) error {
	topo, err := cluster.Assemble(ctx.State.Plan, ctx.State.Result, ctx.Config.Credentials())
	if err != nil {
		return err
	}
	topo.Name = ctx.Config.Name
	topo.Provider = ctx.Config.Provider
	ctx.State.Topology = topo
	return nil
}
