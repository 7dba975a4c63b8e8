package handlers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/config"
	"github.com/imamik/hforge/internal/state"
	hftest "github.com/imamik/hforge/internal/testing"
)

// fakeBackend adds label listing to the shared fake provisioner.
type fakeBackend struct {
	*hftest.FakeProvisioner
	listed  []cluster.NodeHandle
	listErr error
}

func (b *fakeBackend) ListNodes(_ context.Context, _ string) ([]cluster.NodeHandle, error) {
	return b.listed, b.listErr
}

// writeConfig writes a two-factory hcloud config into a temp dir and
// returns its path and the state file path.
func writeConfig(t *testing.T) (configPath, statePath string) {
	t.Helper()
	dir := t.TempDir()
	statePath = filepath.Join(dir, "state.yaml")

	cfg := hftest.NewConfigBuilder().
		WithStatePath(statePath).
		WithSSHKey(filepath.Join(dir, "id_ed25519")).
		Build()
	configPath = filepath.Join(dir, config.DefaultConfigFilename)
	require.NoError(t, config.Save(cfg, configPath))
	return configPath, statePath
}

// stubDeps replaces the factory variables for one test and restores them
// afterwards. The returned buffer receives rendered output.
func stubDeps(t *testing.T, backend Backend) *bytes.Buffer {
	t.Helper()
	origBackend := newBackend
	origKeyPair := ensureKeyPair
	origOutput := output
	origStore := newStateStore
	t.Cleanup(func() {
		newBackend = origBackend
		ensureKeyPair = origKeyPair
		output = origOutput
		newStateStore = origStore
	})

	newBackend = func(_ context.Context, _ *config.Config, _ string) (Backend, error) {
		return backend, nil
	}
	ensureKeyPair = func(_ string, _ bool) (string, bool, error) {
		return "ssh-ed25519 AAAATEST hforge", false, nil
	}

	var buf bytes.Buffer
	output = &buf
	return &buf
}

// failingStore holds no topology and rejects every save.
type failingStore struct {
	saveErr error
	// saveCtxErr is the context error seen by the last Save call.
	saveCtxErr error
	saves      int
}

func (s *failingStore) Save(ctx context.Context, _ *cluster.Topology) error {
	s.saves++
	s.saveCtxErr = ctx.Err()
	return s.saveErr
}

func (s *failingStore) Load(_ context.Context) (*cluster.Topology, error) {
	return nil, state.ErrNotFound
}

func (s *failingStore) Delete(_ context.Context) error { return nil }

func (s *failingStore) Location() string { return "s3://test-bucket/test/topology.yaml" }

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
