package provisioning

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/hforge/internal/cluster"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "launch", "rollback")
	Message   string            // Human-readable message
	Node      string            // Node name if applicable
	Err       error             // Cause of a failure event
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventNodeCreating indicates a node creation call was issued.
	EventNodeCreating EventType = "node.creating"
	// EventNodeCreated indicates a node was created successfully.
	EventNodeCreated EventType = "node.created"
	// EventNodeFailed indicates a node creation call failed.
	EventNodeFailed EventType = "node.failed"
	// EventNodeDeleting indicates a node is being deleted.
	EventNodeDeleting EventType = "node.deleting"
	// EventNodeDeleted indicates a node was deleted successfully.
	EventNodeDeleted EventType = "node.deleted"
	// EventNodeDeleteFailed indicates a node could not be deleted.
	EventNodeDeleteFailed EventType = "node.delete_failed"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"
)

// IsFailure reports whether the event type describes a failure.
func (t EventType) IsFailure() bool {
	return t == EventPhaseFailed || t == EventNodeFailed || t == EventNodeDeleteFailed
}

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer that writes every event to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Event implements Observer interface.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	fields := maps.Clone(o.contextFields)
	if fields == nil {
		fields = make(map[string]string)
	}
	maps.Copy(fields, event.Fields)

	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Node != "" {
		kv = append(kv, "node", event.Node)
	}
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		kv = append(kv, k, fields[k])
	}

	if event.Type.IsFailure() {
		o.log.Error(event.Err, event.Message, kv...)
		return
	}
	o.log.V(verbosity(event.Type)).Info(event.Message, kv...)
}

// WithFields implements Observer interface.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := maps.Clone(o.contextFields)
	if newFields == nil {
		newFields = make(map[string]string)
	}
	maps.Copy(newFields, fields)

	return &LogObserver{
		log:           o.log,
		contextFields: newFields,
	}
}

// Per-call node events are debug output; phases and results are not.
func verbosity(t EventType) int {
	if t == EventNodeCreating || t == EventNodeDeleting {
		return 1
	}
	return 0
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "failed",
		Err:     err,
	})
}

// launchObserver forwards launcher callbacks to an Observer and Metrics.
type launchObserver struct {
	clusterName string
	observer    Observer
	metrics     *Metrics
}

// NewLaunchObserver adapts an Observer to the launcher's callbacks and
// records node creation metrics. metrics may be nil.
func NewLaunchObserver(clusterName string, observer Observer, metrics *Metrics) cluster.Observer {
	return &launchObserver{clusterName: clusterName, observer: observer, metrics: metrics}
}

func (l *launchObserver) NodeCreating(spec cluster.NodeSpec) {
	l.observer.Event(Event{
		Type:    EventNodeCreating,
		Phase:   PhaseLaunch,
		Node:    spec.Name,
		Message: "creating node",
		Fields:  specFields(spec),
	})
}

func (l *launchObserver) NodeCreated(spec cluster.NodeSpec, handle cluster.NodeHandle, elapsed time.Duration) {
	l.metrics.RecordNodeCreate(l.clusterName, string(spec.Role), ResultSuccess, elapsed)
	fields := specFields(spec)
	fields["id"] = handle.ProviderID
	fields["public_ip"] = handle.PublicAddress
	fields["private_ip"] = handle.PrivateAddress
	fields["elapsed"] = elapsed.Round(time.Millisecond).String()
	l.observer.Event(Event{
		Type:    EventNodeCreated,
		Phase:   PhaseLaunch,
		Node:    spec.Name,
		Message: "node created",
		Fields:  fields,
	})
}

func (l *launchObserver) NodeFailed(spec cluster.NodeSpec, err *cluster.ProviderError, elapsed time.Duration) {
	l.metrics.RecordNodeCreate(l.clusterName, string(spec.Role), ResultFailure, elapsed)
	fields := specFields(spec)
	fields["code"] = err.Code
	fields["elapsed"] = elapsed.Round(time.Millisecond).String()
	l.observer.Event(Event{
		Type:    EventNodeFailed,
		Phase:   PhaseLaunch,
		Node:    spec.Name,
		Message: "node creation failed",
		Err:     err,
		Fields:  fields,
	})
}

func specFields(spec cluster.NodeSpec) map[string]string {
	fields := map[string]string{
		"role":         string(spec.Role),
		"machine_type": spec.MachineType,
	}
	if spec.Accelerator != nil {
		fields["accelerator"] = fmt.Sprintf("%dx%s", spec.Accelerator.Count, spec.Accelerator.Type)
	}
	return fields
}
