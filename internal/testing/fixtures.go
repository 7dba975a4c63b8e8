package testing

import (
	"fmt"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/util/naming"
)

// PlanFixture builds a CPU plan for prefix with n factories.
func PlanFixture(prefix string, n int) *cluster.Plan {
	plan, err := cluster.BuildPlan(cluster.PlanOptions{
		Prefix:       prefix,
		FactoryCount: n,
		Orchestrator: cluster.NodeTemplate{MachineType: "cx22", Image: cluster.ImageRef{Name: "ubuntu-24.04"}},
		Factory:      cluster.NodeTemplate{MachineType: "cx32", Image: cluster.ImageRef{Name: "ubuntu-24.04"}},
	})
	if err != nil {
		panic(err)
	}
	return plan
}

// TopologyFixture returns an assembled topology for prefix with n factories.
func TopologyFixture(prefix string, n int) *cluster.Topology {
	topo := &cluster.Topology{
		Name:         prefix,
		Provider:     "hcloud",
		Orchestrator: record(naming.Orchestrator(prefix), cluster.RoleOrchestrator, 1),
		Factories:    make([]cluster.InstanceRecord, n),
	}
	for i := range n {
		topo.Factories[i] = record(naming.Factory(prefix, i+1), cluster.RoleCPUFactory, i+2)
	}
	return topo
}

func record(name string, role cluster.Role, n int) cluster.InstanceRecord {
	return cluster.InstanceRecord{
		Name:           name,
		ProviderID:     fmt.Sprintf("%d", 1000+n),
		Role:           role,
		PublicAddress:  fmt.Sprintf("203.0.113.%d", n),
		PrivateAddress: fmt.Sprintf("10.0.0.%d", n),
		SSHUser:        "root",
		SSHKey:         "/tmp/hforge-test-key",
	}
}
