package hcloud

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"sync"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/util/labels"
	"github.com/imamik/hforge/internal/util/retry"
)

type lookupCache struct {
	mu      sync.Mutex
	network *hcloud.Network
	sshKey  *hcloud.SSHKey
}

// CreateNode creates one server for spec and returns it once it has a
// public IPv4 and a private address.
func (c *RealClient) CreateNode(ctx context.Context, spec cluster.NodeSpec) (cluster.NodeHandle, error) {
	if spec.Accelerator != nil {
		return cluster.NodeHandle{}, &cluster.ProviderError{
			Code:    CodeUnsupported,
			Message: fmt.Sprintf("server %s: Hetzner Cloud servers have no accelerators", spec.Name),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.NodeCreate)
	defer cancel()

	opts, err := c.serverCreateOpts(ctx, spec)
	if err != nil {
		return cluster.NodeHandle{}, toProviderError(err)
	}

	var result hcloud.ServerCreateResult
	err = retry.WithExponentialBackoff(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, opts)
		if err != nil {
			if isRetryableCreate(err) {
				return err
			}
			return retry.Fatal(err)
		}
		result = res
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryAttempts),
		retry.WithInitialDelay(c.timeouts.PollInterval))
	if err != nil {
		return cluster.NodeHandle{}, toProviderError(err)
	}

	server := result.Server
	actions := append([]*hcloud.Action{result.Action}, result.NextActions...)
	if err := waitForActions(ctx, c.client, actions...); err != nil {
		c.cleanupServer(ctx, server)
		return cluster.NodeHandle{}, toProviderError(err)
	}

	server, err = c.waitForAddresses(ctx, server.ID)
	if err != nil {
		c.cleanupServer(ctx, result.Server)
		return cluster.NodeHandle{}, toProviderError(err)
	}

	return handleFor(server), nil
}

func (c *RealClient) serverCreateOpts(ctx context.Context, spec cluster.NodeSpec) (hcloud.ServerCreateOpts, error) {
	network, err := c.resolveNetwork(ctx)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}
	sshKey, err := c.resolveSSHKey(ctx)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	image := spec.Image.Name
	if image == "" {
		image = spec.Image.Family
	}

	serverLabels := maps.Clone(spec.Labels)
	if serverLabels == nil {
		serverLabels = map[string]string{}
	}
	serverLabels[labels.KeyRole] = string(spec.Role)

	return hcloud.ServerCreateOpts{
		Name:       spec.Name,
		ServerType: &hcloud.ServerType{Name: spec.MachineType},
		Image:      &hcloud.Image{Name: image},
		Location:   &hcloud.Location{Name: spec.Location},
		SSHKeys:    []*hcloud.SSHKey{sshKey},
		Networks:   []*hcloud.Network{network},
		Labels:     serverLabels,
		PublicNet: &hcloud.ServerCreatePublicNet{
			EnableIPv4: true,
			EnableIPv6: true,
		},
	}, nil
}

func (c *RealClient) resolveNetwork(ctx context.Context) (*hcloud.Network, error) {
	c.lookups.mu.Lock()
	defer c.lookups.mu.Unlock()

	if c.lookups.network != nil {
		return c.lookups.network, nil
	}
	network, _, err := c.client.Network.Get(ctx, c.network)
	if err != nil {
		return nil, fmt.Errorf("failed to get network %s: %w", c.network, err)
	}
	if network == nil {
		return nil, &cluster.ProviderError{Code: CodeNotFound, Message: fmt.Sprintf("network %s not found", c.network)}
	}
	c.lookups.network = network
	return network, nil
}

func (c *RealClient) resolveSSHKey(ctx context.Context) (*hcloud.SSHKey, error) {
	c.lookups.mu.Lock()
	defer c.lookups.mu.Unlock()

	if c.lookups.sshKey != nil {
		return c.lookups.sshKey, nil
	}
	key, _, err := c.client.SSHKey.Get(ctx, c.sshKeyName)
	if err != nil {
		return nil, fmt.Errorf("failed to get ssh key %s: %w", c.sshKeyName, err)
	}
	if key == nil {
		return nil, &cluster.ProviderError{Code: CodeNotFound, Message: fmt.Sprintf("ssh key %s not found", c.sshKeyName)}
	}
	c.lookups.sshKey = key
	return key, nil
}

// waitForAddresses polls the server until both addresses are assigned.
func (c *RealClient) waitForAddresses(ctx context.Context, id int64) (*hcloud.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.NodeAddress)
	defer cancel()

	var server *hcloud.Server
	err := retry.Poll(ctx, func(ctx context.Context) (bool, error) {
		s, _, err := c.client.Server.GetByID(ctx, id)
		if err != nil {
			return false, fmt.Errorf("failed to get server %d: %w", id, err)
		}
		if s == nil {
			return false, &cluster.ProviderError{Code: CodeNotFound, Message: fmt.Sprintf("server %d disappeared", id)}
		}
		server = s
		return hasAddresses(s), nil
	}, retry.WithInitialDelay(c.timeouts.PollInterval))
	if err != nil {
		return nil, fmt.Errorf("server %d has no addresses: %w", id, err)
	}
	return server, nil
}

// cleanupServer deletes a server whose creation did not complete. It runs
// detached from ctx, which may already be done.
func (c *RealClient) cleanupServer(ctx context.Context, server *hcloud.Server) {
	if server == nil {
		return
	}
	_ = c.deleteServerByID(context.WithoutCancel(ctx), server.ID)
}

// DeleteNode deletes the server behind handle. Deleting a server that no
// longer exists succeeds.
func (c *RealClient) DeleteNode(ctx context.Context, handle cluster.NodeHandle) error {
	id, err := strconv.ParseInt(handle.ProviderID, 10, 64)
	if err != nil {
		if handle.Name == "" {
			return &cluster.ProviderError{Code: CodeInvalidInput, Message: fmt.Sprintf("invalid server id %q", handle.ProviderID)}
		}
		return c.deleteServerByName(ctx, handle.Name)
	}
	if err := c.deleteServerByID(ctx, id); err != nil {
		return toProviderError(err)
	}
	return nil
}

func (c *RealClient) deleteServerByID(ctx context.Context, id int64) error {
	return (&DeleteOperation[*hcloud.Server]{
		ResourceType: "server",
		Get: func(ctx context.Context) (*hcloud.Server, *hcloud.Response, error) {
			return c.client.Server.GetByID(ctx, id)
		},
		Delete: c.deleteServer,
	}).Execute(ctx, c)
}

func (c *RealClient) deleteServerByName(ctx context.Context, name string) error {
	err := (&DeleteOperation[*hcloud.Server]{
		ResourceType: "server",
		Get: func(ctx context.Context) (*hcloud.Server, *hcloud.Response, error) {
			return c.client.Server.GetByName(ctx, name)
		},
		Delete: c.deleteServer,
	}).Execute(ctx, c)
	if err != nil {
		return toProviderError(err)
	}
	return nil
}

func (c *RealClient) deleteServer(ctx context.Context, server *hcloud.Server) error {
	result, _, err := c.client.Server.DeleteWithResult(ctx, server)
	if err != nil {
		return err
	}
	return waitForActions(ctx, c.client, result.Action)
}

// ListNodes returns every server labelled with the cluster name.
func (c *RealClient) ListNodes(ctx context.Context, clusterName string) ([]cluster.NodeHandle, error) {
	servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labels.SelectorForCluster(clusterName)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers of cluster %s: %w", clusterName, err)
	}

	handles := make([]cluster.NodeHandle, 0, len(servers))
	for _, s := range servers {
		handles = append(handles, handleFor(s))
	}
	return handles, nil
}

func hasAddresses(s *hcloud.Server) bool {
	h := handleFor(s)
	return h.PublicAddress != "" && h.PrivateAddress != ""
}

func handleFor(s *hcloud.Server) cluster.NodeHandle {
	h := cluster.NodeHandle{
		ProviderID: strconv.FormatInt(s.ID, 10),
		Name:       s.Name,
	}
	if ip := s.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		h.PublicAddress = ip.String()
	}
	if len(s.PrivateNet) > 0 && s.PrivateNet[0].IP != nil {
		h.PrivateAddress = s.PrivateNet[0].IP.String()
	}
	return h
}
