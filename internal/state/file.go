package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/hforge/internal/cluster"
)

// FileStore keeps the topology in a local YAML file.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the topology atomically. The file is only readable by the
// owner since it names the SSH key.
func (s *FileStore) Save(_ context.Context, topo *cluster.Topology) error {
	data, err := marshal(topo)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".hforge-state-*")
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// Load reads the topology. It returns ErrNotFound when the file is missing.
func (s *FileStore) Load(_ context.Context) (*cluster.Topology, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return unmarshal(data)
}

// Delete removes the file. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

// Location returns the file path.
func (s *FileStore) Location() string {
	return s.path
}
