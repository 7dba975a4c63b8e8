package gce

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/config"
)

// Client provisions cluster nodes as GCE instances in one project and zone.
type Client struct {
	service    *compute.Service
	apiOptions []option.ClientOption
	timeouts   *config.Timeouts

	project    string
	zone       string
	network    string
	subnetwork string

	sshUser   string
	publicKey string
}

var _ cluster.Provisioner = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithService sets a ready compute service (useful for testing).
func WithService(svc *compute.Service) ClientOption {
	return func(c *Client) {
		c.service = svc
	}
}

// WithAPIOptions adds options used to build the compute service.
func WithAPIOptions(opts ...option.ClientOption) ClientOption {
	return func(c *Client) {
		c.apiOptions = append(c.apiOptions, opts...)
	}
}

// WithCredentialsFile authenticates with a service account key file instead
// of application default credentials.
func WithCredentialsFile(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.apiOptions = append(c.apiOptions, option.WithCredentialsFile(path))
		}
	}
}

// WithNetwork sets the VPC network and, optionally, the subnetwork of every
// instance.
func WithNetwork(network, subnetwork string) ClientOption {
	return func(c *Client) {
		c.network = network
		c.subnetwork = subnetwork
	}
}

// WithSSHKey installs publicKey for user on every instance.
func WithSSHKey(user, publicKey string) ClientOption {
	return func(c *Client) {
		c.sshUser = user
		c.publicKey = strings.TrimSpace(publicKey)
	}
}

// NewClient creates a client for project and zone.
func NewClient(ctx context.Context, project, zone string, opts ...ClientOption) (*Client, error) {
	if project == "" {
		return nil, fmt.Errorf("missing project")
	}
	if zone == "" {
		return nil, fmt.Errorf("missing zone")
	}

	c := &Client{
		project:  project,
		zone:     zone,
		network:  config.DefaultGCENetwork,
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.service == nil {
		apiOpts := append([]option.ClientOption{option.WithScopes(compute.ComputeScope)}, c.apiOptions...)
		svc, err := compute.NewService(ctx, apiOpts...)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to Google Cloud: %w", err)
		}
		c.service = svc
	}
	return c, nil
}

// NewFromConfig creates a client for the cluster described by cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config, publicKey string, opts ...ClientOption) (*Client, error) {
	base := []ClientOption{
		WithCredentialsFile(cfg.GCE.CredentialsFile),
		WithNetwork(cfg.GCE.Network, cfg.GCE.Subnetwork),
		WithSSHKey(cfg.SSH.User, publicKey),
	}
	return NewClient(ctx, cfg.GCE.Project, cfg.GCE.Zone, append(base, opts...)...)
}

// region derives the region from the zone, e.g. us-central1 from us-central1-a.
func (c *Client) region() string {
	if i := strings.LastIndex(c.zone, "-"); i > 0 {
		return c.zone[:i]
	}
	return c.zone
}

// addAPIPrefix turns a bare resource name into a partial URL. Values that
// already are URLs or paths are kept.
func addAPIPrefix(value, prefix string) string {
	if value == "" || strings.Contains(value, "/") {
		return value
	}
	return prefix + value
}

func last(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}
