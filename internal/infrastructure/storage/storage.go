// Package storage persists sealed vault blobs. Backends never see plaintext.
package storage

import (
	"context"
	"errors"
)

// DefaultVault is the blob name used when a backend holds a single vault.
const DefaultVault = "default"

var ErrNotFound = errors.New("vault blob not found")

type BlobStore interface {
	// Load returns ErrNotFound when no blob is stored under name.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save inserts or replaces the blob atomically.
	Save(ctx context.Context, name string, blob []byte) error
	Exists(ctx context.Context, name string) (bool, error)
	Close() error
}
