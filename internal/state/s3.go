package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/platform/s3"
)

// ObjectStorage is the part of the S3 client the store needs.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}

// S3Store keeps the topology as one object in a bucket.
type S3Store struct {
	objects ObjectStorage
	bucket  string
	key     string
}

var _ Store = (*S3Store)(nil)

// NewS3Store creates a store writing bucket/key through objects.
func NewS3Store(objects ObjectStorage, bucket, key string) *S3Store {
	return &S3Store{objects: objects, bucket: bucket, key: key}
}

// Save uploads the topology, creating the bucket when needed.
func (s *S3Store) Save(ctx context.Context, topo *cluster.Topology) error {
	data, err := marshal(topo)
	if err != nil {
		return err
	}
	if err := s.objects.EnsureBucket(ctx, s.bucket); err != nil {
		return err
	}
	return s.objects.PutObject(ctx, s.bucket, s.key, data)
}

// Load downloads the topology. It returns ErrNotFound when the object is missing.
func (s *S3Store) Load(ctx context.Context) (*cluster.Topology, error) {
	data, err := s.objects.GetObject(ctx, s.bucket, s.key)
	if err != nil {
		if errors.Is(err, s3.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Location())
		}
		return nil, err
	}
	return unmarshal(data)
}

// Delete removes the object.
func (s *S3Store) Delete(ctx context.Context) error {
	return s.objects.DeleteObject(ctx, s.bucket, s.key)
}

// Location returns the s3:// URL of the object.
func (s *S3Store) Location() string {
	return "s3://" + s.bucket + "/" + s.key
}
