// Package memory is a process-local BlobStore for development servers and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"credvault/internal/infrastructure/storage"
)

type Storage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ storage.BlobStore = (*Storage)(nil)

func New() *Storage {
	return &Storage{blobs: make(map[string][]byte)}
}

func (s *Storage) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return slices.Clone(blob), nil
}

func (s *Storage) Save(_ context.Context, name string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = slices.Clone(blob)
	return nil
}

func (s *Storage) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[name]
	return ok, nil
}

func (s *Storage) Close() error {
	return nil
}
