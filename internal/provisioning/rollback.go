package provisioning

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/util/async"
)

// RollbackOptions configures Rollback.
type RollbackOptions struct {
	// ClusterName labels metrics and events.
	ClusterName string
	// Concurrency bounds in-flight deletions. 0 means unbounded.
	Concurrency int
	Observer    Observer
	Metrics     *Metrics
}

// Rollback deletes every handle concurrently. All deletions are attempted;
// their failures are returned joined in handle order.
func Rollback(ctx context.Context, deleter NodeDeleter, handles []cluster.NodeHandle, opts RollbackOptions) error {
	observer := opts.Observer
	if observer == nil {
		observer = NewLogObserver(logr.Discard())
	}

	tasks := make([]async.Task, len(handles))
	for i, h := range handles {
		tasks[i] = async.Task{
			Name: h.Name,
			Func: func(ctx context.Context) error {
				observer.Event(Event{
					Type:    EventNodeDeleting,
					Phase:   PhaseRollback,
					Node:    h.Name,
					Message: "deleting node",
					Fields:  map[string]string{"id": h.ProviderID},
				})
				if err := deleter.DeleteNode(ctx, h); err != nil {
					opts.Metrics.RecordNodeDelete(opts.ClusterName, ResultFailure)
					observer.Event(Event{
						Type:    EventNodeDeleteFailed,
						Phase:   PhaseRollback,
						Node:    h.Name,
						Message: "node deletion failed",
						Err:     err,
						Fields:  map[string]string{"id": h.ProviderID},
					})
					return err
				}
				opts.Metrics.RecordNodeDelete(opts.ClusterName, ResultSuccess)
				observer.Event(Event{
					Type:    EventNodeDeleted,
					Phase:   PhaseRollback,
					Node:    h.Name,
					Message: "node deleted",
					Fields:  map[string]string{"id": h.ProviderID},
				})
				return nil
			},
		}
	}

	if err := async.RunParallel(ctx, tasks, opts.Concurrency); err != nil {
		return fmt.Errorf("failed to delete nodes: %w", err)
	}
	return nil
}
