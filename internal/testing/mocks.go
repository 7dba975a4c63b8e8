package testing

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/hforge/internal/cluster"
)

// FakeProvisioner is an in-memory cluster.Provisioner. Node creation succeeds
// unless a failure was registered for the node name. It is safe for
// concurrent use and records every call.
type FakeProvisioner struct {
	mu sync.Mutex

	delays       map[string]time.Duration
	failures     map[string]error
	deleteErrors map[string]error

	// CreateHook, when set, runs at the start of every CreateNode call.
	CreateHook func(ctx context.Context, spec cluster.NodeSpec)

	created  []cluster.NodeSpec
	deleted  []cluster.NodeHandle
	inFlight int
	peak     int
	seq      int
}

// NewFakeProvisioner creates a provisioner that creates every node.
func NewFakeProvisioner() *FakeProvisioner {
	return &FakeProvisioner{
		delays:       make(map[string]time.Duration),
		failures:     make(map[string]error),
		deleteErrors: make(map[string]error),
	}
}

// DelayOn makes the creation of the named node take d.
func (f *FakeProvisioner) DelayOn(name string, d time.Duration) *FakeProvisioner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[name] = d
	return f
}

// FailOn makes the creation of the named node return err.
func (f *FakeProvisioner) FailOn(name string, err error) *FakeProvisioner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[name] = err
	return f
}

// FailDeleteOn makes the deletion of the named node return err.
func (f *FakeProvisioner) FailDeleteOn(name string, err error) *FakeProvisioner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteErrors[name] = err
	return f
}

// CreateNode implements cluster.Provisioner.
func (f *FakeProvisioner) CreateNode(ctx context.Context, spec cluster.NodeSpec) (cluster.NodeHandle, error) {
	if f.CreateHook != nil {
		f.CreateHook(ctx, spec)
	}

	f.mu.Lock()
	f.inFlight++
	f.peak = max(f.peak, f.inFlight)
	delay := f.delays[spec.Name]
	failure := f.failures[spec.Name]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if failure != nil {
		return cluster.NodeHandle{}, failure
	}

	f.seq++
	f.created = append(f.created, spec)
	return cluster.NodeHandle{
		ProviderID:     "fake-" + spec.Name,
		Name:           spec.Name,
		PublicAddress:  fmt.Sprintf("203.0.113.%d", f.seq),
		PrivateAddress: fmt.Sprintf("10.0.0.%d", f.seq),
	}, nil
}

// DeleteNode implements cluster.Provisioner.
func (f *FakeProvisioner) DeleteNode(_ context.Context, handle cluster.NodeHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErrors[handle.Name]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, handle)
	return nil
}

// Created returns the specs of every node created so far, in completion order.
func (f *FakeProvisioner) Created() []cluster.NodeSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.created)
}

// Deleted returns the handles of every deleted node, in completion order.
func (f *FakeProvisioner) Deleted() []cluster.NodeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.deleted)
}

// DeletedNames returns the sorted names of every deleted node.
func (f *FakeProvisioner) DeletedNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.deleted))
	for i, h := range f.deleted {
		names[i] = h.Name
	}
	slices.Sort(names)
	return names
}

// PeakInFlight returns the largest number of concurrent CreateNode calls seen.
func (f *FakeProvisioner) PeakInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

// MockProvisioner is a mock implementation of the cluster.Provisioner interface.
type MockProvisioner struct {
	mock.Mock
}

// CreateNode creates a mock node.
func (m *MockProvisioner) CreateNode(ctx context.Context, spec cluster.NodeSpec) (cluster.NodeHandle, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(cluster.NodeHandle), args.Error(1)
}

// DeleteNode deletes a mock node.
func (m *MockProvisioner) DeleteNode(ctx context.Context, handle cluster.NodeHandle) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}
