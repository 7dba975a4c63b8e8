package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroy(t *testing.T) {
	cmd := Destroy()

	require.NotNil(t, cmd)
	assert.Equal(t, "destroy", cmd.Use)
	assert.Equal(t, "Delete every node of the cluster", cmd.Short)
	assert.Contains(t, cmd.Long, "WARNING")
	assert.NotNil(t, cmd.RunE)
}

func TestDestroy_ConfigFlag(t *testing.T) {
	cmd := Destroy()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag, "config flag should exist")
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "", flag.DefValue)
}
