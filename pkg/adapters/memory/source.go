package memory

import (
	"context"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Source implements ports.GraphSource over a fixed set of graphs, mainly
// for tests and the examples.
type Source struct {
	graphs []*domain.Graph
}

// NewSource creates a source yielding the given graphs.
func NewSource(graphs ...*domain.Graph) *Source {
	return &Source{graphs: graphs}
}

// Graphs returns the configured graphs.
func (s *Source) Graphs(ctx context.Context) ([]*domain.Graph, error) {
	return s.graphs, nil
}
