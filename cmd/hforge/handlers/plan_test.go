package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hforge/internal/config"
)

func TestPlan(t *testing.T) {
	configPath, _ := writeConfig(t)
	out := stubDeps(t, nil)
	newBackend = func(_ context.Context, _ *config.Config, _ string) (Backend, error) {
		t.Fatal("plan must not create a backend")
		return nil, nil
	}

	require.NoError(t, Plan(context.Background(), configPath))

	assert.Contains(t, out.String(), "hforge plan: test (hcloud)")
	assert.Contains(t, out.String(), "test-orchestrator")
	assert.Contains(t, out.String(), "test-factory-1")
	assert.Contains(t, out.String(), "test-factory-2")
	assert.Contains(t, out.String(), "3 node(s)")
}

func TestPlan_InvalidConfig(t *testing.T) {
	err := Plan(context.Background(), "/nonexistent/hforge.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
