package state

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/config"
	"github.com/imamik/hforge/internal/platform/s3"
)

// Environment variables holding the object storage credentials.
const (
	EnvS3AccessKey = "HFORGE_S3_ACCESS_KEY"
	EnvS3SecretKey = "HFORGE_S3_SECRET_KEY"
)

// documentVersion is written into every saved document.
const documentVersion = 1

// ErrNotFound is returned by Load when nothing was saved yet.
var ErrNotFound = errors.New("no saved topology")

// Store saves and loads the topology of one cluster.
type Store interface {
	Save(ctx context.Context, topo *cluster.Topology) error
	Load(ctx context.Context) (*cluster.Topology, error)
	Delete(ctx context.Context) error
	// Location describes where the topology is kept, for display.
	Location() string
}

type document struct {
	Version int               `yaml:"version"`
	Cluster *cluster.Topology `yaml:"cluster"`
}

func marshal(topo *cluster.Topology) ([]byte, error) {
	if topo == nil {
		return nil, fmt.Errorf("topology is nil")
	}
	data, err := yaml.Marshal(document{Version: documentVersion, Cluster: topo})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal topology: %w", err)
	}
	return data, nil
}

func unmarshal(data []byte) (*cluster.Topology, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse topology: %w", err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported topology version %d", doc.Version)
	}
	if doc.Cluster == nil {
		return nil, fmt.Errorf("topology document has no cluster")
	}
	return doc.Cluster, nil
}

// New returns the store selected by cfg: S3 when a bucket is configured,
// a local file otherwise.
func New(ctx context.Context, cfg config.StateConfig) (Store, error) {
	if cfg.S3 == nil {
		if cfg.Path == "" {
			return nil, fmt.Errorf("state path is required")
		}
		return NewFileStore(cfg.Path), nil
	}

	client, err := s3.NewClient(ctx, cfg.S3.Endpoint, cfg.S3.Region,
		os.Getenv(EnvS3AccessKey), os.Getenv(EnvS3SecretKey))
	if err != nil {
		return nil, err
	}
	return NewS3Store(client, cfg.S3.Bucket, cfg.S3.Key), nil
}
