package ports

import (
	"context"

	"github.com/verdanta/greenflow/pkg/domain"
)

// StateStore persists TraversalState between answers, enabling resumable
// sessions. Returns domain.ErrSessionNotFound for unknown session IDs.
type StateStore interface {
	Save(ctx context.Context, sessionID string, state *domain.TraversalState) error
	Load(ctx context.Context, sessionID string) (*domain.TraversalState, error)
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
