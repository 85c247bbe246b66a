package storage

import "context"

// ObjectStore is the slice of object storage the services need.
// Implemented by S3Store; tests substitute a fake.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	ListPrefix(ctx context.Context, prefix string) ([]string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}
