package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the provider-side timeouts. The launcher itself has none:
// each backend bounds its own calls with these values.
type Timeouts struct {
	NodeCreate    time.Duration // Timeout for one node creation including the wait for its action/operation
	NodeAddress   time.Duration // Timeout for waiting until a created node reports its addresses
	Delete        time.Duration // Timeout for one node deletion
	PollInterval  time.Duration // Initial interval between status polls
	RetryAttempts int           // Maximum number of polls for transient lookup failures
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HFORGE_TIMEOUT_NODE_CREATE (default: 10m)
//   - HFORGE_TIMEOUT_NODE_ADDRESS (default: 2m)
//   - HFORGE_TIMEOUT_DELETE (default: 5m)
//   - HFORGE_POLL_INTERVAL (default: 2s)
//   - HFORGE_RETRY_ATTEMPTS (default: 10)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		NodeCreate:    parseDuration("HFORGE_TIMEOUT_NODE_CREATE", 10*time.Minute),
		NodeAddress:   parseDuration("HFORGE_TIMEOUT_NODE_ADDRESS", 2*time.Minute),
		Delete:        parseDuration("HFORGE_TIMEOUT_DELETE", 5*time.Minute),
		PollInterval:  parseDuration("HFORGE_POLL_INTERVAL", 2*time.Second),
		RetryAttempts: parseInt("HFORGE_RETRY_ATTEMPTS", 10),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
