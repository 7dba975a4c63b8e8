package cluster

import (
	"fmt"
	"strings"
)

// Provider error codes produced by the launcher itself when a provisioner
// returns something other than a *ProviderError.
const (
	CodeUnknown  = "unknown"
	CodeCanceled = "canceled"
)

// InvalidPlanError reports a plan that cannot be built from its inputs.
type InvalidPlanError struct {
	Reason string
}

func (e *InvalidPlanError) Error() string {
	return "invalid cluster plan: " + e.Reason
}

// ProviderError is a single failed remote call.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NodeFailure pairs a spec with the provider error that prevented its creation.
type NodeFailure struct {
	Spec  NodeSpec
	Cause *ProviderError
}

// ProvisionError aggregates every failure of one launch together with the
// handles that were created anyway and now need cleanup.
type ProvisionError struct {
	Failures []NodeFailure
	// OrchestratorHandle is set when the orchestrator was created but a
	// factory failed.
	OrchestratorHandle *NodeHandle
	// FactoryHandles holds the factories that were created, in plan order.
	FactoryHandles []NodeHandle
}

func (e *ProvisionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to provision %d node(s):", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, " %s (%s): %v;", f.Spec.Name, f.Spec.Role, f.Cause)
	}
	if n := len(e.Orphaned()); n > 0 {
		fmt.Fprintf(&b, " %d created node(s) need rollback", n)
	} else {
		b.WriteString(" no nodes need rollback")
	}
	return b.String()
}

// Unwrap exposes each provider error to errors.Is and errors.As.
func (e *ProvisionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Cause)
	}
	return errs
}

// Orphaned returns every node that was created before the launch failed:
// the orchestrator first (if any), then the factories in plan order.
func (e *ProvisionError) Orphaned() []NodeHandle {
	out := make([]NodeHandle, 0, len(e.FactoryHandles)+1)
	if e.OrchestratorHandle != nil {
		out = append(out, *e.OrchestratorHandle)
	}
	return append(out, e.FactoryHandles...)
}

// FailedSpecs returns the names of the nodes that could not be created.
func (e *ProvisionError) FailedSpecs() []string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Spec.Name
	}
	return names
}

// AssemblyError reports launch results that cannot be mapped to instance records.
type AssemblyError struct {
	Node   string
	Reason string
}

func (e *AssemblyError) Error() string {
	if e.Node == "" {
		return "failed to assemble cluster: " + e.Reason
	}
	return fmt.Sprintf("failed to assemble cluster: node %s: %s", e.Node, e.Reason)
}
