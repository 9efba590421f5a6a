package memory

import (
	"context"
	"sync"
)

// Store is an in-memory key-value store. It backs tests and can serve
// as an ephemeral store when no durable file is wanted.
type Store struct {
	mu   sync.RWMutex
	data map[string]string

	// FailWrites forces Set/Delete to return FailErr, for exercising
	// the optimistic-write paths in tests.
	FailWrites bool
	FailErr    error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return s.FailErr
	}
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return s.FailErr
	}
	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}
