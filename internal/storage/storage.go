package storage

import "context"

// ObjectStorage captures the minimal S3-compatible operations the report
// exporter needs.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, contentType string, data []byte) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// ObjectInfo is metadata for a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}
