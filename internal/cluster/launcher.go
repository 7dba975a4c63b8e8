package cluster

import (
	"context"
	"errors"
	"time"

	"github.com/imamik/hforge/internal/util/async"
)

// NodeHandle identifies a node the provider created.
type NodeHandle struct {
	ProviderID     string `yaml:"provider_id"`
	Name           string `yaml:"name"`
	PublicAddress  string `yaml:"public_address"`
	PrivateAddress string `yaml:"private_address"`
}

// Provisioner creates and deletes nodes on a cloud provider.
// Implementations must be safe for concurrent use and should return
// *ProviderError values.
type Provisioner interface {
	CreateNode(ctx context.Context, spec NodeSpec) (NodeHandle, error)
	DeleteNode(ctx context.Context, handle NodeHandle) error
}

// Observer is notified about every creation call. Methods are called from
// multiple goroutines.
type Observer interface {
	NodeCreating(spec NodeSpec)
	NodeCreated(spec NodeSpec, handle NodeHandle, elapsed time.Duration)
	NodeFailed(spec NodeSpec, err *ProviderError, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) NodeCreating(NodeSpec) {}
func (nopObserver) NodeCreated(NodeSpec, NodeHandle, time.Duration) {}
func (nopObserver) NodeFailed(NodeSpec, *ProviderError, time.Duration) {}

// LaunchResult holds the handles of a fully successful launch.
// Factories[i] was created from Plan.Factories[i].
type LaunchResult struct {
	Orchestrator NodeHandle
	Factories    []NodeHandle
}

// Launcher issues every creation call of a plan concurrently.
type Launcher struct {
	provisioner Provisioner
	concurrency int
	observer    Observer
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithConcurrency bounds the number of factory calls in flight.
// Zero or less leaves them unbounded. The orchestrator call is never queued.
func WithConcurrency(n int) LauncherOption {
	return func(l *Launcher) {
		l.concurrency = n
	}
}

// WithObserver sets the observer notified about each creation call.
func WithObserver(o Observer) LauncherOption {
	return func(l *Launcher) {
		if o != nil {
			l.observer = o
		}
	}
}

// NewLauncher creates a launcher backed by the given provisioner.
func NewLauncher(p Provisioner, opts ...LauncherOption) *Launcher {
	l := &Launcher{
		provisioner: p,
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type outcome struct {
	handle NodeHandle
	err    *ProviderError
}

// Launch creates every node of the plan and returns their handles.
//
// The orchestrator call runs independently of the factory calls. Calls are
// never cancelled once issued: when anything fails, Launch waits for all
// outstanding calls and returns a *ProvisionError that lists every failure and
// every node that was created regardless, so the caller can roll them back.
func (l *Launcher) Launch(ctx context.Context, plan *Plan) (*LaunchResult, error) {
	if plan == nil {
		return nil, &InvalidPlanError{Reason: "plan is nil"}
	}

	// Issued calls outlive the caller's context. Backends bound them with
	// their own timeouts.
	callCtx := context.WithoutCancel(ctx)

	orchestrator := make(chan outcome, 1)
	go func() {
		h, err := l.create(callCtx, plan.Orchestrator)
		orchestrator <- outcome{handle: h, err: err}
	}()

	factories, errs := async.Collect(callCtx, len(plan.Factories), l.concurrency,
		func(ctx context.Context, i int) (NodeHandle, error) {
			h, err := l.create(ctx, plan.Factories[i])
			if err != nil {
				return NodeHandle{}, err
			}
			return h, nil
		})

	orch := <-orchestrator

	failed := &ProvisionError{}
	if orch.err != nil {
		failed.Failures = append(failed.Failures, NodeFailure{Spec: plan.Orchestrator, Cause: orch.err})
	}
	for i, err := range errs {
		if err != nil {
			failed.Failures = append(failed.Failures, NodeFailure{Spec: plan.Factories[i], Cause: toProviderError(err)})
			continue
		}
		failed.FactoryHandles = append(failed.FactoryHandles, factories[i])
	}

	if len(failed.Failures) > 0 {
		if orch.err == nil {
			h := orch.handle
			failed.OrchestratorHandle = &h
		}
		return nil, failed
	}

	return &LaunchResult{
		Orchestrator: orch.handle,
		Factories:    factories,
	}, nil
}

func (l *Launcher) create(ctx context.Context, spec NodeSpec) (NodeHandle, *ProviderError) {
	l.observer.NodeCreating(spec)
	start := time.Now()

	h, err := l.provisioner.CreateNode(ctx, spec)
	elapsed := time.Since(start)
	if err != nil {
		perr := toProviderError(err)
		l.observer.NodeFailed(spec, perr, elapsed)
		return NodeHandle{}, perr
	}

	if h.Name == "" {
		h.Name = spec.Name
	}
	l.observer.NodeCreated(spec, h, elapsed)
	return h, nil
}

// toProviderError normalises any error returned by a provisioner.
func toProviderError(err error) *ProviderError {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{Code: CodeCanceled, Message: err.Error(), Err: err}
	}
	return &ProviderError{Code: CodeUnknown, Message: err.Error(), Err: err}
}
