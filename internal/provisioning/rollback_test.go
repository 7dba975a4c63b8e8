package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hforge/internal/cluster"
	hftest "github.com/imamik/hforge/internal/testing"
)

func TestRollback_DeletesEveryHandle(t *testing.T) {
	t.Parallel()
	fake := hftest.NewFakeProvisioner()
	rec := &recordingObserver{}
	metrics := NewMetrics()
	handles := hftest.TopologyFixture("demo", 3).Handles()

	err := Rollback(hftest.TestContext(t), fake, handles, RollbackOptions{
		ClusterName: "demo",
		Observer:    rec,
		Metrics:     metrics,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"demo-factory-1", "demo-factory-2", "demo-factory-3", "demo-orchestrator"}, fake.DeletedNames())
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.nodesDeleted.WithLabelValues("demo", ResultSuccess)), 0)
	assert.Len(t, rec.ByNode("demo-orchestrator"), 2)
}

func TestRollback_JoinsEveryFailure(t *testing.T) {
	t.Parallel()
	locked := errors.New("locked")
	gone := errors.New("server is being deleted")
	fake := hftest.NewFakeProvisioner().
		FailDeleteOn("demo-factory-1", locked).
		FailDeleteOn("demo-orchestrator", gone)

	err := Rollback(hftest.TestContext(t), fake, hftest.TopologyFixture("demo", 2).Handles(), RollbackOptions{Concurrency: 1})
	require.Error(t, err)

	assert.ErrorIs(t, err, locked)
	assert.ErrorIs(t, err, gone)
	assert.Contains(t, err.Error(), "demo-factory-1: locked")
	assert.Contains(t, err.Error(), "demo-orchestrator: server is being deleted")
	assert.Equal(t, []string{"demo-factory-2"}, fake.DeletedNames())
}

func TestRollback_NoHandles(t *testing.T) {
	t.Parallel()
	m := &hftest.MockProvisioner{}
	require.NoError(t, Rollback(context.Background(), m, nil, RollbackOptions{}))
	m.AssertNotCalled(t, "DeleteNode", mock.Anything, mock.Anything)
}

func TestRollback_PassesHandlesThrough(t *testing.T) {
	t.Parallel()
	h := cluster.NodeHandle{ProviderID: "42", Name: "demo-factory-1"}
	m := &hftest.MockProvisioner{}
	m.On("DeleteNode", mock.Anything, h).Return(nil).Once()

	require.NoError(t, Rollback(context.Background(), m, []cluster.NodeHandle{h}, RollbackOptions{}))
	m.AssertExpectations(t)
}
