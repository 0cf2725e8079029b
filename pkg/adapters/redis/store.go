// Package redis provides Redis-backed adapters: a TraversalState store with
// TTL expiry and a distributed session locker for multi-replica serving.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Store implements ports.StateStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithTTL sets the expiration for stored sessions (default: none).
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix sets the key prefix (default "greenflow:session:").
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// NewStore creates a store over an existing Redis client.
func NewStore(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "greenflow:session:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save serializes the state as JSON under the session key.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.TraversalState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session %s: %w", sessionID, err)
	}
	return nil
}

// Load fetches and deserializes the session state.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.TraversalState, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load session %s: %w", sessionID, err)
	}

	var state domain.TraversalState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	if state.Locals == nil {
		state.Locals = make(map[string]float64)
	}
	return &state, nil
}

// Delete removes the session key.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", sessionID, err)
	}
	return nil
}

// List scans for session keys under the prefix.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis list sessions: %w", err)
	}
	return ids, nil
}
