// Package blob stores uploaded document bytes outside the database.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a key has no stored blob.
var ErrNotFound = errors.New("blob: not found")

// Store reads and writes opaque blobs by key. Keys may contain slashes
// to namespace blobs per claim.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
