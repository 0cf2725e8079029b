// Package memory provides in-process adapters: a state store for tests and
// single-instance deployments, and a graph source fed programmatically.
package memory

import (
	"context"
	"sync"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Store implements ports.StateStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]*domain.TraversalState
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]*domain.TraversalState)}
}

// Save persists a deep copy so the caller can keep mutating its state.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.TraversalState) error {
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load returns a copy so callers can never mutate stored state by pointer.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.TraversalState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
