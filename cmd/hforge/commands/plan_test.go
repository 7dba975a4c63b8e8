package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	cmd := Plan()

	require.NotNil(t, cmd)
	assert.Equal(t, "plan", cmd.Use)
	assert.Contains(t, cmd.Long, "No provider API is called")
	require.NotNil(t, cmd.Flags().Lookup("config"))
}
