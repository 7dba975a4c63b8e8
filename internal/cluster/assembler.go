package cluster

import "fmt"

// Credentials are the session-wide SSH settings stamped onto every record.
type Credentials struct {
	SSHUser string
	SSHKey  string
}

// InstanceRecord is the long-lived handle downstream SSH orchestration uses.
type InstanceRecord struct {
	Name           string `yaml:"name"`
	ProviderID     string `yaml:"provider_id"`
	Role           Role   `yaml:"role"`
	PublicAddress  string `yaml:"public_address"`
	PrivateAddress string `yaml:"private_address"`
	SSHUser        string `yaml:"ssh_user"`
	SSHKey         string `yaml:"ssh_key"`
}

// Handle returns the provider handle the record was built from.
func (r InstanceRecord) Handle() NodeHandle {
	return NodeHandle{
		ProviderID:     r.ProviderID,
		Name:           r.Name,
		PublicAddress:  r.PublicAddress,
		PrivateAddress: r.PrivateAddress,
	}
}

// Topology is an assembled cluster: one orchestrator and its factories in
// plan order.
type Topology struct {
	Name         string           `yaml:"name"`
	Provider     string           `yaml:"provider,omitempty"`
	Orchestrator InstanceRecord   `yaml:"orchestrator"`
	Factories    []InstanceRecord `yaml:"factories"`
}

// Nodes returns every record, orchestrator first.
func (t *Topology) Nodes() []InstanceRecord {
	out := make([]InstanceRecord, 0, len(t.Factories)+1)
	out = append(out, t.Orchestrator)
	return append(out, t.Factories...)
}

// Handles returns the provider handles of every node, orchestrator first.
func (t *Topology) Handles() []NodeHandle {
	nodes := t.Nodes()
	out := make([]NodeHandle, len(nodes))
	for i, n := range nodes {
		out[i] = n.Handle()
	}
	return out
}

// Assemble maps a successful launch onto typed instance records.
func Assemble(plan *Plan, result *LaunchResult, creds Credentials) (*Topology, error) {
	if plan == nil || result == nil {
		return nil, &AssemblyError{Reason: "missing plan or launch result"}
	}
	if len(result.Factories) != len(plan.Factories) {
		return nil, &AssemblyError{Reason: fmt.Sprintf("expected %d factory handles, got %d", len(plan.Factories), len(result.Factories))}
	}

	orchestrator, err := record(plan.Orchestrator, result.Orchestrator, creds)
	if err != nil {
		return nil, err
	}

	topo := &Topology{
		Orchestrator: orchestrator,
		Factories:    make([]InstanceRecord, len(plan.Factories)),
	}
	for i, spec := range plan.Factories {
		rec, err := record(spec, result.Factories[i], creds)
		if err != nil {
			return nil, err
		}
		topo.Factories[i] = rec
	}
	return topo, nil
}

func record(spec NodeSpec, h NodeHandle, creds Credentials) (InstanceRecord, error) {
	switch {
	case h.ProviderID == "":
		return InstanceRecord{}, &AssemblyError{Node: spec.Name, Reason: "missing provider id"}
	case h.PublicAddress == "":
		return InstanceRecord{}, &AssemblyError{Node: spec.Name, Reason: "missing public address"}
	case h.PrivateAddress == "":
		return InstanceRecord{}, &AssemblyError{Node: spec.Name, Reason: "missing private address"}
	}

	name := h.Name
	if name == "" {
		name = spec.Name
	}
	return InstanceRecord{
		Name:           name,
		ProviderID:     h.ProviderID,
		Role:           spec.Role,
		PublicAddress:  h.PublicAddress,
		PrivateAddress: h.PrivateAddress,
		SSHUser:        creds.SSHUser,
		SSHKey:         creds.SSHKey,
	}, nil
}
