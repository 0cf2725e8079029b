// Package runtime implements the questionnaire traversal core: walking a
// flow graph one answer at a time, accumulating the weight score, and
// resolving function-node branching, until a terminal or redirect is hit.
package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/verdanta/greenflow/internal/logging"
	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/ports"
)

// Engine walks questionnaire graphs. It holds no per-session state: every
// call takes a TraversalState in and returns a fresh one, so many sessions
// can share one Engine and one immutable graph concurrently.
type Engine struct {
	registry ports.GraphRegistry
	globals  ports.GlobalVariables
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	// applyBranchChildren switches the function-node branch semantics from
	// pure routing (observed upstream behavior) to execute-then-route.
	applyBranchChildren bool
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger (default: no-op).
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

// WithBranchChildOps makes conditional blocks apply their child operations
// before routing out through the branch handle. Off by default: a firing
// branch routes immediately and leaves the variable untouched.
func WithBranchChildOps(apply bool) EngineOption {
	return func(e *Engine) { e.applyBranchChildren = apply }
}

// NewEngine creates an engine over the given registry and global variables.
func NewEngine(registry ports.GraphRegistry, globals ports.GlobalVariables, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		globals:  globals,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates a session state on the named graph, enters at its Start
// node, and advances through leading non-visual nodes until a question or
// terminal is reached.
func (e *Engine) Start(ctx context.Context, sessionID, graphName string) (*domain.TraversalState, *domain.Outcome, error) {
	g, err := e.registry.Graph(graphName)
	if err != nil {
		return nil, nil, err
	}

	start, ok := g.StartNode()
	if !ok {
		err := fmt.Errorf("%w: graph %q", domain.ErrNoStartNode, graphName)
		e.fireError(graphName, err)
		return nil, nil, err
	}

	state := domain.NewTraversalState(sessionID, graphName, g.LocalVariables())
	state.CurrentNodeID = start.ID

	e.logger.Debug("session started", "session_id", sessionID, "graph", graphName)

	outcome, err := e.run(ctx, g, state, start, nil, true)
	if err != nil {
		return nil, nil, err
	}
	return state, outcome, nil
}

// Advance applies the user's answer to the question they are looking at and
// resolves the next question or terminal outcome. The argument state is not
// mutated; a fresh state is returned.
func (e *Engine) Advance(ctx context.Context, state *domain.TraversalState, answer any) (*domain.TraversalState, *domain.Outcome, error) {
	if state == nil {
		return nil, nil, fmt.Errorf("advance called with nil state")
	}
	if state.Status == domain.StatusCompleted {
		return nil, nil, fmt.Errorf("%w: session %q", domain.ErrSessionCompleted, state.SessionID)
	}

	g, err := e.registry.Graph(state.Graph)
	if err != nil {
		return nil, nil, err
	}

	current, ok := g.Node(state.CurrentNodeID)
	if !ok {
		return nil, nil, fmt.Errorf("current node %q not found in graph %q", state.CurrentNodeID, state.Graph)
	}

	next := state.Clone()
	outcome, err := e.run(ctx, g, next, current, answer, false)
	if err != nil {
		return nil, nil, err
	}
	return next, outcome, nil
}

// FollowRedirect continues a session on the redirect target graph. The
// weight accumulator carries over; local variables reset to the target
// graph's definitions.
func (e *Engine) FollowRedirect(ctx context.Context, state *domain.TraversalState, target string) (*domain.TraversalState, *domain.Outcome, error) {
	g, err := e.registry.Graph(target)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrRedirectTargetNotFound, target)
	}

	start, ok := g.StartNode()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrNoStartNodeInTarget, target)
	}

	next := state.Clone()
	next.Graph = target
	next.Locals = g.LocalVariables()
	next.CurrentNodeID = start.ID

	outcome, err := e.run(ctx, g, next, start, nil, true)
	if err != nil {
		return nil, nil, err
	}
	return next, outcome, nil
}

// Progress computes the integer progress percent for the state's active graph.
func (e *Engine) Progress(state *domain.TraversalState) (int, error) {
	g, err := e.registry.Graph(state.Graph)
	if err != nil {
		return 0, err
	}
	return GraphProgress(g, state), nil
}

var _ ports.Traverser = (*Engine)(nil)

func (e *Engine) visit(graph string, node *domain.Node) {
	if e.hooks.OnVisit != nil {
		e.hooks.OnVisit(graph, node)
	}
}

func (e *Engine) fireError(graph string, err error) {
	e.logger.Warn("traversal error", "graph", graph, "err", err)
	if e.hooks.OnError != nil {
		e.hooks.OnError(graph, err)
	}
}
