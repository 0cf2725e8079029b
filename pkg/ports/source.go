package ports

import (
	"context"

	"github.com/verdanta/greenflow/pkg/domain"
)

// GraphSource loads questionnaire definitions from external storage
// (editor export files, an authoring API) at boot. Sources only produce
// graphs; validation and registration happen in the caller.
type GraphSource interface {
	Graphs(ctx context.Context) ([]*domain.Graph, error)
}
