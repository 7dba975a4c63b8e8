package config

import (
	"maps"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/util/labels"
)

// Location returns the provider location nodes are created in.
func (c *Config) Location() string {
	if c.Provider == ProviderGCE {
		return c.GCE.Zone
	}
	return c.HCloud.Location
}

// PlanOptions turns the configuration into launcher plan inputs.
func (c *Config) PlanOptions() cluster.PlanOptions {
	nodeLabels := labels.NewLabelBuilder(c.Name).Merge(c.Labels).Build()

	opts := cluster.PlanOptions{
		Prefix:         c.Name,
		FactoryCount:   c.Factories.Count,
		HasAccelerator: c.Factories.Accelerator != nil,
		Orchestrator: cluster.NodeTemplate{
			MachineType: c.Orchestrator.MachineType,
			Image:       c.Orchestrator.Image,
			Location:    c.Location(),
			Labels:      nodeLabels,
		},
		Factory: cluster.NodeTemplate{
			MachineType: c.Factories.MachineType,
			Image:       c.Factories.Image,
			Location:    c.Location(),
			Labels:      maps.Clone(nodeLabels),
		},
	}
	if a := c.Factories.Accelerator; a != nil {
		opts.Factory.Accelerator = &cluster.Accelerator{Type: a.Type, Count: a.Count}
	}
	return opts
}

// Credentials returns the SSH settings stamped onto every instance record.
func (c *Config) Credentials() cluster.Credentials {
	return cluster.Credentials{
		SSHUser: c.SSH.User,
		SSHKey:  c.SSH.PrivateKey,
	}
}
