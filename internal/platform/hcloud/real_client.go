package hcloud

import (
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/hforge/internal/config"
)

// RealClient provisions cluster nodes as Hetzner Cloud servers.
type RealClient struct {
	client     *hcloud.Client
	timeouts   *config.Timeouts
	network    string
	sshKeyName string

	// lookups caches the network and SSH key resolved by name. Every
	// CreateNode of a launch shares them.
	lookups *lookupCache
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// WithNetwork sets the private network every server is attached to.
func WithNetwork(name string) ClientOption {
	return func(c *RealClient) {
		c.network = name
	}
}

// WithSSHKey sets the name of the uploaded SSH key installed on every server.
func WithSSHKey(name string) ClientOption {
	return func(c *RealClient) {
		c.sshKeyName = name
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client:   hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("hforge", "")),
		timeouts: config.LoadTimeouts(),
		lookups:  &lookupCache{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client for the cluster described by cfg.
func NewFromConfig(token string, cfg *config.Config, opts ...ClientOption) *RealClient {
	base := []ClientOption{
		WithNetwork(cfg.HCloud.Network),
		WithSSHKey(cfg.HCloud.SSHKeyName),
	}
	return NewRealClient(token, append(base, opts...)...)
}

// HCloudClient returns the underlying hcloud.Client for advanced operations.
func (c *RealClient) HCloudClient() *hcloud.Client {
	return c.client
}
