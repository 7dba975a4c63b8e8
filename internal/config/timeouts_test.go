package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	for _, env := range []string{
		"HFORGE_TIMEOUT_NODE_CREATE", "HFORGE_TIMEOUT_NODE_ADDRESS",
		"HFORGE_TIMEOUT_DELETE", "HFORGE_POLL_INTERVAL", "HFORGE_RETRY_ATTEMPTS",
	} {
		t.Setenv(env, "")
	}

	to := LoadTimeouts()
	assert.Equal(t, 10*time.Minute, to.NodeCreate)
	assert.Equal(t, 2*time.Minute, to.NodeAddress)
	assert.Equal(t, 5*time.Minute, to.Delete)
	assert.Equal(t, 2*time.Second, to.PollInterval)
	assert.Equal(t, 10, to.RetryAttempts)
}

func TestLoadTimeouts_FromEnv(t *testing.T) {
	t.Setenv("HFORGE_TIMEOUT_NODE_CREATE", "3m")
	t.Setenv("HFORGE_POLL_INTERVAL", "250ms")
	t.Setenv("HFORGE_RETRY_ATTEMPTS", "4")

	to := LoadTimeouts()
	assert.Equal(t, 3*time.Minute, to.NodeCreate)
	assert.Equal(t, 250*time.Millisecond, to.PollInterval)
	assert.Equal(t, 4, to.RetryAttempts)
}

func TestLoadTimeouts_InvalidFallsBack(t *testing.T) {
	t.Setenv("HFORGE_TIMEOUT_DELETE", "soon")
	t.Setenv("HFORGE_RETRY_ATTEMPTS", "-2")

	to := LoadTimeouts()
	assert.Equal(t, 5*time.Minute, to.Delete)
	assert.Equal(t, 10, to.RetryAttempts)
}
