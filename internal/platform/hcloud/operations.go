package hcloud

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/hforge/internal/util/retry"
)

// DeleteOperation encapsulates deletion logic for any hcloud resource.
// It provides consistent retry, timeout, and error handling across resource types.
//
// Usage example:
//
//	return (&DeleteOperation[*hcloud.Server]{
//	    ResourceType: "server",
//	    Get: func(ctx context.Context) (*hcloud.Server, *hcloud.Response, error) {
//	        return c.client.Server.GetByID(ctx, id)
//	    },
//	    Delete: c.deleteServer,
//	}).Execute(ctx, c)
type DeleteOperation[T any] struct {
	ResourceType string

	// Get looks the resource up. A nil resource means it is already gone.
	Get func(ctx context.Context) (T, *hcloud.Response, error)

	// Delete removes the resource and waits for the removal to finish.
	Delete func(ctx context.Context, resource T) error
}

// Execute performs the delete operation with retry logic and timeout handling.
// The operation is idempotent - it succeeds if the resource doesn't exist.
// Locked resources are retried with exponential backoff.
func (op *DeleteOperation[T]) Execute(ctx context.Context, client *RealClient) error {
	ctx, cancel := context.WithTimeout(ctx, client.timeouts.Delete)
	defer cancel()

	return retry.WithExponentialBackoff(ctx, func() error {
		resource, _, err := op.Get(ctx)
		if err != nil {
			return retry.Fatal(fmt.Errorf("failed to get %s: %w", op.ResourceType, err))
		}

		if reflect.ValueOf(resource).IsNil() {
			return nil
		}

		if err := op.Delete(ctx, resource); err != nil {
			if IsNotFound(err) {
				return nil
			}
			if isResourceLocked(err) {
				return err // Retryable
			}
			return retry.Fatal(fmt.Errorf("failed to delete %s: %w", op.ResourceType, err))
		}
		return nil
	},
		retry.WithMaxRetries(client.timeouts.RetryAttempts),
		retry.WithInitialDelay(client.timeouts.PollInterval))
}

// EnsureOperation encapsulates get-or-create logic for any hcloud resource.
// An existing resource is checked with Validate when one is given.
type EnsureOperation[T any, CreateOpts any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Create creates the resource with the given options
	Create func(ctx context.Context, opts CreateOpts) (T, *hcloud.Response, error)

	// Validate checks if existing resource matches desired state (optional)
	Validate func(resource T) error

	// CreateOpts are the options used when the resource does not exist
	CreateOpts CreateOpts
}

// Execute performs the ensure operation: get existing resource, validate it, or create new.
func (op *EnsureOperation[T, CreateOpts]) Execute(ctx context.Context) (T, error) {
	var zero T

	resource, _, err := op.Get(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s: %w", op.ResourceType, err)
	}

	if !reflect.ValueOf(resource).IsNil() {
		if op.Validate != nil {
			if err := op.Validate(resource); err != nil {
				return zero, err
			}
		}
		return resource, nil
	}

	resource, _, err = op.Create(ctx, op.CreateOpts)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", op.ResourceType, err)
	}
	return resource, nil
}

// waitForActions waits for one or more actions to complete. Nil actions are skipped.
func waitForActions(ctx context.Context, client *hcloud.Client, actions ...*hcloud.Action) error {
	pending := make([]*hcloud.Action, 0, len(actions))
	for _, a := range actions {
		if a != nil {
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	return client.Action.WaitFor(ctx, pending...)
}
