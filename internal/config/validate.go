package config

import (
	"fmt"
	"regexp"
	"slices"
)

// ValidHCloudLocations contains all valid Hetzner Cloud datacenter locations.
// https://docs.hetzner.com/cloud/general/locations/
var ValidHCloudLocations = map[string]bool{
	"nbg1": true, // Nuremberg, Germany
	"fsn1": true, // Falkenstein, Germany
	"hel1": true, // Helsinki, Finland
	"ash":  true, // Ashburn, USA
	"hil":  true, // Hillsboro, USA
	"sin":  true, // Singapore
}

// maxNameLength keeps "{name}-factory-{index}" within provider name limits.
const maxNameLength = 40

var namePattern = regexp.MustCompile(`^[a-z]([-a-z0-9]*[a-z0-9])?$`)

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Name) > maxNameLength || !namePattern.MatchString(c.Name) {
		return fmt.Errorf("invalid name %q: use at most %d lowercase letters, digits and dashes, starting with a letter", c.Name, maxNameLength)
	}

	if err := c.validateNodes(); err != nil {
		return fmt.Errorf("node validation failed: %w", err)
	}

	if c.SSH.PrivateKey == "" {
		return fmt.Errorf("ssh.private_key is required")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}

	switch c.Provider {
	case ProviderHCloud:
		if err := c.validateHCloud(); err != nil {
			return fmt.Errorf("hcloud validation failed: %w", err)
		}
	case ProviderGCE:
		if err := c.validateGCE(); err != nil {
			return fmt.Errorf("gce validation failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown provider %q: must be one of %v", c.Provider, []string{ProviderHCloud, ProviderGCE})
	}

	if s3 := c.State.S3; s3 != nil {
		if s3.Bucket == "" || s3.Region == "" {
			return fmt.Errorf("state.s3 needs both bucket and region")
		}
	}

	return nil
}

func (c *Config) validateNodes() error {
	if c.Orchestrator.MachineType == "" {
		return fmt.Errorf("orchestrator.machine_type is required")
	}
	if c.Factories.MachineType == "" {
		return fmt.Errorf("factories.machine_type is required")
	}
	if c.Factories.Count < 1 {
		return fmt.Errorf("factories.count must be at least 1, got %d", c.Factories.Count)
	}
	if a := c.Factories.Accelerator; a != nil {
		if a.Type == "" {
			return fmt.Errorf("factories.accelerator.type is required")
		}
		if a.Count < 1 {
			return fmt.Errorf("factories.accelerator.count must be at least 1, got %d", a.Count)
		}
	}
	return nil
}

func (c *Config) validateHCloud() error {
	if !ValidHCloudLocations[c.HCloud.Location] {
		return fmt.Errorf("invalid location %q: must be one of %v", c.HCloud.Location, sortedKeys(ValidHCloudLocations))
	}
	if c.HCloud.Network == "" {
		return fmt.Errorf("network is required: factories reach the orchestrator over private addresses")
	}
	if c.Factories.Accelerator != nil {
		return fmt.Errorf("accelerators are not available on Hetzner Cloud servers")
	}
	return nil
}

func (c *Config) validateGCE() error {
	if c.GCE.Project == "" {
		return fmt.Errorf("project is required")
	}
	if c.GCE.Zone == "" {
		return fmt.Errorf("zone is required")
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
