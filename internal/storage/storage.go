package storage

import (
	"context"
	"io"
)

// StorageDriver defines how we interact with the binary storage
type StorageDriver interface {
	// Save writes the content to the storage under the given key. Saved
	// objects are publicly readable.
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Get returns a ReadCloser to stream the file back and its content type
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes the file
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a key. This is pure string composition,
	// it performs no network call and cannot fail.
	URL(key string) string
}
