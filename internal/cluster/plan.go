package cluster

import (
	"fmt"
	"maps"

	"github.com/imamik/hforge/internal/util/naming"
)

// Role identifies what a node does in the cluster.
type Role string

const (
	RoleOrchestrator Role = "orchestrator"
	RoleCPUFactory   Role = "cpu-factory"
	RoleGPUFactory   Role = "gpu-factory"
)

// IsFactory reports whether the role is one of the factory roles.
func (r Role) IsFactory() bool {
	return r == RoleCPUFactory || r == RoleGPUFactory
}

// ImageRef points at a boot image. Name wins over Family when both are set.
type ImageRef struct {
	Project string `yaml:"project,omitempty"`
	Family  string `yaml:"family,omitempty"`
	Name    string `yaml:"name,omitempty"`
}

// IsZero reports whether no image was referenced.
func (r ImageRef) IsZero() bool {
	return r.Name == "" && r.Family == ""
}

func (r ImageRef) String() string {
	ref := r.Name
	if ref == "" {
		ref = "family/" + r.Family
	}
	if r.Project != "" {
		return r.Project + "/" + ref
	}
	return ref
}

// Accelerator describes GPUs attached to a node.
type Accelerator struct {
	Type  string `yaml:"type"`
	Count int    `yaml:"count"`
}

// NodeSpec describes a single node to create.
type NodeSpec struct {
	Name        string
	MachineType string
	Image       ImageRef
	Accelerator *Accelerator
	Role        Role
	Location    string
	Labels      map[string]string
}

// NodeTemplate holds the per-role settings a plan stamps onto its specs.
type NodeTemplate struct {
	MachineType string
	Image       ImageRef
	Location    string
	Accelerator *Accelerator
	Labels      map[string]string
}

// PlanOptions are the inputs of BuildPlan.
type PlanOptions struct {
	Prefix         string
	FactoryCount   int
	HasAccelerator bool
	Orchestrator   NodeTemplate
	Factory        NodeTemplate
}

// Plan is the set of specs for one orchestrator and its factories.
type Plan struct {
	Orchestrator NodeSpec
	Factories    []NodeSpec
}

// BuildPlan builds the specs for one provisioning run.
func BuildPlan(opts PlanOptions) (*Plan, error) {
	if opts.FactoryCount <= 0 {
		return nil, &InvalidPlanError{Reason: fmt.Sprintf("factory count must be positive, got %d", opts.FactoryCount)}
	}
	if opts.Prefix == "" {
		return nil, &InvalidPlanError{Reason: "name prefix must not be empty"}
	}

	factoryRole := RoleCPUFactory
	var accel *Accelerator
	if opts.HasAccelerator {
		a := opts.Factory.Accelerator
		if a == nil || a.Type == "" || a.Count < 1 {
			return nil, &InvalidPlanError{Reason: "accelerated factories need an accelerator type and a count of at least 1"}
		}
		factoryRole = RoleGPUFactory
		accel = &Accelerator{Type: a.Type, Count: a.Count}
	}

	plan := &Plan{
		Orchestrator: NodeSpec{
			Name:        naming.Orchestrator(opts.Prefix),
			MachineType: opts.Orchestrator.MachineType,
			Image:       opts.Orchestrator.Image,
			Location:    opts.Orchestrator.Location,
			Role:        RoleOrchestrator,
			Labels:      maps.Clone(opts.Orchestrator.Labels),
		},
		Factories: make([]NodeSpec, opts.FactoryCount),
	}

	for i := range opts.FactoryCount {
		spec := NodeSpec{
			Name:        naming.Factory(opts.Prefix, i+1),
			MachineType: opts.Factory.MachineType,
			Image:       opts.Factory.Image,
			Location:    opts.Factory.Location,
			Role:        factoryRole,
			Labels:      maps.Clone(opts.Factory.Labels),
		}
		if accel != nil {
			a := *accel
			spec.Accelerator = &a
		}
		plan.Factories[i] = spec
	}

	return plan, nil
}

// Specs returns every spec in the plan, orchestrator first.
func (p *Plan) Specs() []NodeSpec {
	out := make([]NodeSpec, 0, len(p.Factories)+1)
	out = append(out, p.Orchestrator)
	return append(out, p.Factories...)
}

// Size is the number of nodes the plan creates.
func (p *Plan) Size() int {
	return len(p.Factories) + 1
}
