package storage

import (
	"context"
	"io"
)

// Storage holds generated documents (rental contracts) on a backend that is
// local filesystem in development and could be object storage in production.
type Storage interface {
	// Save writes the document at key, creating parent directories as needed.
	Save(ctx context.Context, key string, data []byte) error

	// Open returns the document for reading.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether the document is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the document. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL under which the document is served.
	URL(key string) string
}
