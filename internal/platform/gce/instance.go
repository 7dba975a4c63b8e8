package gce

import (
	"context"
	"fmt"
	"maps"
	"strconv"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/util/labels"
	"github.com/imamik/hforge/internal/util/retry"
)

const (
	statusDone = "DONE"

	onHostMaintenanceTerminate = "TERMINATE"
	accessConfigNAT            = "ONE_TO_ONE_NAT"
)

// CreateNode inserts one instance for spec and returns it once it has an
// external and an internal address.
func (c *Client) CreateNode(ctx context.Context, spec cluster.NodeSpec) (cluster.NodeHandle, error) {
	if a := spec.Accelerator; a != nil && (a.Type == "" || a.Count < 1) {
		return cluster.NodeHandle{}, &cluster.ProviderError{
			Code:    CodeUnsupported,
			Message: fmt.Sprintf("instance %s: accelerator needs a type and a count of at least 1", spec.Name),
		}
	}
	if spec.Location != "" && spec.Location != c.zone {
		return cluster.NodeHandle{}, &cluster.ProviderError{
			Code:    CodeInvalidInput,
			Message: fmt.Sprintf("instance %s: location %s does not match client zone %s", spec.Name, spec.Location, c.zone),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.NodeCreate)
	defer cancel()

	op, err := c.service.Instances.Insert(c.project, c.zone, c.instanceFor(spec)).Context(ctx).Do()
	if err != nil {
		return cluster.NodeHandle{}, toProviderError(err)
	}

	if err := c.waitZoneOperation(ctx, op); err != nil {
		c.cleanupInstance(ctx, spec.Name)
		return cluster.NodeHandle{}, toProviderError(err)
	}

	inst, err := c.waitForAddresses(ctx, spec.Name)
	if err != nil {
		c.cleanupInstance(ctx, spec.Name)
		return cluster.NodeHandle{}, toProviderError(err)
	}

	return handleFor(inst), nil
}

// instanceFor builds the insert request body. Accelerated specs get guest
// accelerators and a scheduling policy that survives host maintenance.
func (c *Client) instanceFor(spec cluster.NodeSpec) *compute.Instance {
	nodeLabels := maps.Clone(spec.Labels)
	if nodeLabels == nil {
		nodeLabels = map[string]string{}
	}
	nodeLabels[labels.KeyRole] = string(spec.Role)

	inst := &compute.Instance{
		Name:        spec.Name,
		MachineType: addAPIPrefix(spec.MachineType, "zones/"+c.zone+"/machineTypes/"),
		Labels:      labels.Sanitize(nodeLabels),
		Disks: []*compute.AttachedDisk{{
			Boot:       true,
			AutoDelete: true,
			InitializeParams: &compute.AttachedDiskInitializeParams{
				SourceImage: sourceImage(spec.Image),
			},
		}},
		NetworkInterfaces: c.networkInterfaces(),
	}

	if c.publicKey != "" {
		sshKeys := c.sshUser + ":" + c.publicKey
		inst.Metadata = &compute.Metadata{
			Items: []*compute.MetadataItems{{Key: "ssh-keys", Value: &sshKeys}},
		}
	}

	if a := spec.Accelerator; a != nil {
		inst.GuestAccelerators = []*compute.AcceleratorConfig{{
			AcceleratorCount: int64(a.Count),
			AcceleratorType:  addAPIPrefix(a.Type, "projects/"+c.project+"/zones/"+c.zone+"/acceleratorTypes/"),
		}}
		inst.Scheduling = &compute.Scheduling{
			OnHostMaintenance: onHostMaintenanceTerminate,
			AutomaticRestart:  googleapi.Bool(true),
		}
	}

	return inst
}

// networkInterfaces returns the single interface of every instance, with an
// external NAT address.
func (c *Client) networkInterfaces() []*compute.NetworkInterface {
	return []*compute.NetworkInterface{{
		Network:    addAPIPrefix(c.network, "global/networks/"),
		Subnetwork: addAPIPrefix(c.subnetwork, "regions/"+c.region()+"/subnetworks/"),
		AccessConfigs: []*compute.AccessConfig{{
			Name: "External NAT",
			Type: accessConfigNAT,
		}},
	}}
}

// sourceImage returns the partial URL of an image or image family.
func sourceImage(ref cluster.ImageRef) string {
	prefix := "global/images/"
	if ref.Project != "" {
		prefix = "projects/" + ref.Project + "/global/images/"
	}
	if ref.Name != "" {
		return addAPIPrefix(ref.Name, prefix)
	}
	return prefix + "family/" + ref.Family
}

// waitZoneOperation waits for a zonal operation to be completed or timed out.
func (c *Client) waitZoneOperation(ctx context.Context, op *compute.Operation) error {
	zone := c.zone
	if op.Zone != "" {
		zone = last(op.Zone)
	}

	return retry.Poll(ctx, func(ctx context.Context) (bool, error) {
		if op.Status == statusDone {
			if op.Error != nil && len(op.Error.Errors) > 0 {
				return false, &OperationError{Operation: op.Name, Errors: op.Error.Errors}
			}
			return true, nil
		}

		refreshed, err := c.service.ZoneOperations.Get(c.project, zone, op.Name).Context(ctx).Do()
		if err != nil {
			return false, fmt.Errorf("failed to get operation %s: %w", op.Name, err)
		}
		op = refreshed
		return false, nil
	}, retry.WithInitialDelay(c.timeouts.PollInterval))
}

// waitForAddresses polls the instance until both addresses are assigned.
func (c *Client) waitForAddresses(ctx context.Context, name string) (*compute.Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.NodeAddress)
	defer cancel()

	var inst *compute.Instance
	err := retry.Poll(ctx, func(ctx context.Context) (bool, error) {
		i, err := c.service.Instances.Get(c.project, c.zone, name).Context(ctx).Do()
		if err != nil {
			return false, fmt.Errorf("failed to get instance %s: %w", name, err)
		}
		inst = i
		h := handleFor(i)
		return h.PublicAddress != "" && h.PrivateAddress != "", nil
	}, retry.WithInitialDelay(c.timeouts.PollInterval))
	if err != nil {
		return nil, fmt.Errorf("instance %s has no addresses: %w", name, err)
	}
	return inst, nil
}

// cleanupInstance deletes an instance whose creation did not complete. It
// runs detached from ctx, which may already be done.
func (c *Client) cleanupInstance(ctx context.Context, name string) {
	_ = c.deleteInstance(context.WithoutCancel(ctx), name)
}

// DeleteNode deletes the instance behind handle. Deleting an instance that no
// longer exists succeeds.
func (c *Client) DeleteNode(ctx context.Context, handle cluster.NodeHandle) error {
	name := handle.Name
	if name == "" {
		name = handle.ProviderID
	}
	if name == "" {
		return &cluster.ProviderError{Code: cluster.CodeUnknown, Message: "node handle has neither name nor id"}
	}
	if err := c.deleteInstance(ctx, name); err != nil {
		return toProviderError(err)
	}
	return nil
}

func (c *Client) deleteInstance(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Delete)
	defer cancel()

	op, err := c.service.Instances.Delete(c.project, c.zone, name).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete instance %s: %w", name, err)
	}
	return c.waitZoneOperation(ctx, op)
}

// ListNodes returns every instance labelled with the cluster name.
func (c *Client) ListNodes(ctx context.Context, clusterName string) ([]cluster.NodeHandle, error) {
	selector := labels.Sanitize(map[string]string{labels.KeyCluster: clusterName})
	key := labels.GCEKey(labels.KeyCluster)
	filter := fmt.Sprintf("labels.%s = %s", key, selector[key])

	var handles []cluster.NodeHandle
	err := c.service.Instances.List(c.project, c.zone).Filter(filter).Pages(ctx, func(list *compute.InstanceList) error {
		for _, inst := range list.Items {
			handles = append(handles, handleFor(inst))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instances of cluster %s: %w", clusterName, err)
	}
	return handles, nil
}

func handleFor(inst *compute.Instance) cluster.NodeHandle {
	h := cluster.NodeHandle{
		ProviderID: strconv.FormatUint(inst.Id, 10),
		Name:       inst.Name,
	}
	if len(inst.NetworkInterfaces) > 0 {
		nic := inst.NetworkInterfaces[0]
		h.PrivateAddress = nic.NetworkIP
		if len(nic.AccessConfigs) > 0 {
			h.PublicAddress = nic.AccessConfigs[0].NatIP
		}
	}
	return h
}
