package testing

import (
	"maps"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with sensible defaults:
// a Hetzner Cloud cluster named "test" with two CPU factories.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Name:         "test",
			Provider:     config.ProviderHCloud,
			Orchestrator: config.NodeConfig{MachineType: "cx22"},
			Factories: config.FactoryConfig{
				NodeConfig: config.NodeConfig{MachineType: "cx32"},
				Count:      2,
			},
			SSH:    config.SSHConfig{PrivateKey: "/tmp/hforge-test-key"},
			HCloud: config.HCloudConfig{Network: "test-net"},
		},
	}
}

// WithName sets the cluster name.
func (b *ConfigBuilder) WithName(name string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Name = name
	return nb
}

// WithFactories sets the factory count and machine type.
func (b *ConfigBuilder) WithFactories(count int, machineType string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Factories.Count = count
	nb.cfg.Factories.MachineType = machineType
	return nb
}

// WithGCE switches the cluster to Google Compute Engine.
func (b *ConfigBuilder) WithGCE(project, zone string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Provider = config.ProviderGCE
	nb.cfg.HCloud = config.HCloudConfig{}
	nb.cfg.GCE = config.GCEConfig{Project: project, Zone: zone}
	nb.cfg.Orchestrator.MachineType = "n1-standard-2"
	nb.cfg.Factories.MachineType = "n1-standard-8"
	return nb
}

// WithAccelerator attaches GPUs to every factory.
func (b *ConfigBuilder) WithAccelerator(accelType string, count int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Factories.Accelerator = &cluster.Accelerator{Type: accelType, Count: count}
	return nb
}

// WithConcurrency bounds in-flight factory creations.
func (b *ConfigBuilder) WithConcurrency(n int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Concurrency = n
	return nb
}

// WithLabels adds user labels.
func (b *ConfigBuilder) WithLabels(l map[string]string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Labels = maps.Clone(l)
	return nb
}

// WithStatePath sets the local state file.
func (b *ConfigBuilder) WithStatePath(path string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.State.Path = path
	return nb
}

// WithSSHKey sets the private key path.
func (b *ConfigBuilder) WithSSHKey(path string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.SSH.PrivateKey = path
	return nb
}

// Build returns the defaulted config. It does not validate.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	cfg.ApplyDefaults()
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Labels = maps.Clone(b.cfg.Labels)
	if a := b.cfg.Factories.Accelerator; a != nil {
		accel := *a
		cfg.Factories.Accelerator = &accel
	}
	if s3 := b.cfg.State.S3; s3 != nil {
		s := *s3
		cfg.State.S3 = &s
	}
	return &ConfigBuilder{cfg: cfg}
}

// MinimalConfig returns a minimal valid config for simple tests.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}
