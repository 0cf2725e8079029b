package claims

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and single-process runs.
type MemoryStore struct {
	mu     sync.RWMutex
	claims map[string]Claim
	docs   map[string]Document
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		claims: make(map[string]Claim),
		docs:   make(map[string]Document),
	}
}

func (s *MemoryStore) CreateClaim(_ context.Context, c *Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetClaim(_ context.Context, id string) (*Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) UpdateClaim(_ context.Context, c *Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[c.ID]; !ok {
		return ErrNotFound
	}
	s.claims[c.ID] = *c
	return nil
}

func (s *MemoryStore) ListClaims(_ context.Context, userID string) ([]*Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Claim
	for _, c := range s.claims {
		if userID != "" && c.UserID != userID {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) DeleteClaim(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[id]; !ok {
		return ErrNotFound
	}
	delete(s.claims, id)
	for docID, d := range s.docs {
		if d.ClaimID == id {
			delete(s.docs, docID)
		}
	}
	return nil
}

func (s *MemoryStore) AddDocument(_ context.Context, d *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[d.ClaimID]; !ok {
		return ErrNotFound
	}
	s.docs[d.ID] = *d
	return nil
}

func (s *MemoryStore) ListDocuments(_ context.Context, claimID string) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Document
	for _, d := range s.docs {
		if d.ClaimID == claimID {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
