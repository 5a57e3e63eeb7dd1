// Package object defines the contract for blob storage backends.
package object

import (
	"context"
	"io"
	"time"
)

// Store saves, retrieves and signs access to binary objects. Keys are
// caller-chosen relative paths; a stored metadata row always refers to a
// key that was written successfully.
type Store interface {
	// Save writes the reader under the key and returns the byte count and
	// sniffed mime type.
	Save(ctx context.Context, key string, r io.Reader) (sizeBytes int64, mimeType string, err error)
	// Open returns the object contents for reading.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// SignedURL returns a time-limited download URL for the object.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
