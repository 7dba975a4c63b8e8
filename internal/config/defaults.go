package config

import (
	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/util/naming"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultProvider      = ProviderHCloud
	DefaultSSHUser       = "root"
	DefaultHCloudLoc     = "nbg1"
	DefaultHCloudImage   = "ubuntu-24.04"
	DefaultGCEZone       = "us-central1-a"
	DefaultGCENetwork    = "default"
	DefaultGCEImageFam   = "pytorch-1-1-cpu"
	DefaultGCEImageProj  = "deeplearning-platform-release"
	DefaultStateFileName = ".state.yaml"
)

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.SSH.User == "" {
		c.SSH.User = DefaultSSHUser
	}

	switch c.Provider {
	case ProviderHCloud:
		if c.HCloud.Location == "" {
			c.HCloud.Location = DefaultHCloudLoc
		}
		if c.HCloud.SSHKeyName == "" {
			c.HCloud.SSHKeyName = c.Name
		}
		if c.Orchestrator.Image.IsZero() {
			c.Orchestrator.Image.Name = DefaultHCloudImage
		}
		if c.Factories.Image.IsZero() {
			c.Factories.Image.Name = DefaultHCloudImage
		}
	case ProviderGCE:
		if c.GCE.Zone == "" {
			c.GCE.Zone = DefaultGCEZone
		}
		if c.GCE.Network == "" {
			c.GCE.Network = DefaultGCENetwork
		}
		if c.Orchestrator.Image.IsZero() {
			c.Orchestrator.Image = defaultGCEImage()
		}
		if c.Factories.Image.IsZero() {
			c.Factories.Image = defaultGCEImage()
		}
	}

	if c.State.S3 != nil {
		if c.State.S3.Key == "" {
			c.State.S3.Key = naming.StateObject(c.Name)
		}
	} else if c.State.Path == "" && c.Name != "" {
		c.State.Path = c.Name + DefaultStateFileName
	}
}

func defaultGCEImage() cluster.ImageRef {
	return cluster.ImageRef{Project: DefaultGCEImageProj, Family: DefaultGCEImageFam}
}
