package ports

import (
	"context"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Traverser is the questionnaire engine as seen by adapters (HTTP, MCP, CLI).
// Every call is a pure function of its inputs: a fresh state is returned and
// the argument state is never mutated.
type Traverser interface {
	// Start creates a session state on the named graph and advances through
	// leading non-visual nodes until a question or terminal is reached.
	Start(ctx context.Context, sessionID, graphName string) (*domain.TraversalState, *domain.Outcome, error)

	// Advance applies the user's answer to the current question and resolves
	// the next question or terminal outcome.
	Advance(ctx context.Context, state *domain.TraversalState, answer any) (*domain.TraversalState, *domain.Outcome, error)

	// FollowRedirect continues a session on the redirect target graph,
	// carrying the weight accumulator over.
	FollowRedirect(ctx context.Context, state *domain.TraversalState, target string) (*domain.TraversalState, *domain.Outcome, error)

	// Progress computes the integer progress percent for the active graph.
	Progress(state *domain.TraversalState) (int, error)
}
