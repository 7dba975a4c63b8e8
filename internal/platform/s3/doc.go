// Package s3 provides a small client for S3-compatible object storage.
//
// It stores the saved cluster topology: bucket creation, object upload,
// download and removal. Custom endpoints (Hetzner Object Storage, MinIO) are
// addressed path-style.
package s3
