// Package memory provides an in-memory implementation of the
// apiclient.ValidatorStore interface. Entries live for the lifetime of the
// process, which matches how long a browser session's conditional-GET cache
// is useful. This is the default store for single-process deployments.
package memory

import (
	"context"
	"sync"
)

// Store implements apiclient.ValidatorStore using an in-memory map.
type Store struct {
	mu         sync.RWMutex
	validators map[string]string
}

// New creates a new in-memory validator store.
func New() *Store {
	return &Store{
		validators: make(map[string]string),
	}
}

// Get implements apiclient.ValidatorStore.
func (s *Store) Get(ctx context.Context, endpoint string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validators[endpoint], nil
}

// Set implements apiclient.ValidatorStore.
func (s *Store) Set(ctx context.Context, endpoint, validator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validators[endpoint] = validator
	return nil
}

// Delete implements apiclient.ValidatorStore.
func (s *Store) Delete(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.validators, endpoint)
	return nil
}

// Clear implements apiclient.ValidatorStore.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validators = make(map[string]string)
	return nil
}

// Len returns the number of cached validators.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.validators)
}
