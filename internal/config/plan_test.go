package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/util/labels"
)

func TestPlanOptions_HCloud(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Labels = map[string]string{"team": "ml"}

	opts := cfg.PlanOptions()

	assert.Equal(t, "demo", opts.Prefix)
	assert.Equal(t, 2, opts.FactoryCount)
	assert.False(t, opts.HasAccelerator)
	assert.Equal(t, "cx22", opts.Orchestrator.MachineType)
	assert.Equal(t, "cx32", opts.Factory.MachineType)
	assert.Equal(t, DefaultHCloudLoc, opts.Factory.Location)
	assert.Equal(t, "demo", opts.Factory.Labels[labels.KeyCluster])
	assert.Equal(t, "ml", opts.Orchestrator.Labels["team"])

	plan, err := cluster.BuildPlan(opts)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Size())
}

func TestPlanOptions_GCEAccelerator(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Name:         "gpu",
		Provider:     ProviderGCE,
		Orchestrator: NodeConfig{MachineType: "n1-standard-2"},
		Factories: FactoryConfig{
			NodeConfig:  NodeConfig{MachineType: "n1-standard-8"},
			Count:       2,
			Accelerator: &cluster.Accelerator{Type: "nvidia-tesla-k80", Count: 2},
		},
		GCE: GCEConfig{Project: "p"},
	}
	cfg.ApplyDefaults()

	opts := cfg.PlanOptions()
	require.True(t, opts.HasAccelerator)
	assert.Equal(t, DefaultGCEZone, opts.Factory.Location)
	assert.Equal(t, &cluster.Accelerator{Type: "nvidia-tesla-k80", Count: 2}, opts.Factory.Accelerator)

	plan, err := cluster.BuildPlan(opts)
	require.NoError(t, err)
	for _, f := range plan.Factories {
		assert.Equal(t, cluster.RoleGPUFactory, f.Role)
	}
}

func TestCredentials(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	assert.Equal(t, cluster.Credentials{SSHUser: "root", SSHKey: "/keys/hforge"}, cfg.Credentials())
}
