// Package greenflow is the high-level entry point for the questionnaire
// engine. It wires a graph registry and the traversal runtime behind one
// facade so hosts (HTTP API, MCP, CLI) only deal with sessions and answers.
package greenflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/verdanta/greenflow/internal/logging"
	"github.com/verdanta/greenflow/internal/runtime"
	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/graphcheck"
	"github.com/verdanta/greenflow/pkg/ports"
	"github.com/verdanta/greenflow/pkg/registry"
)

// Engine wraps the traversal runtime and the graph registry.
type Engine struct {
	registry *registry.Registry
	runtime  *runtime.Engine
	logger   *slog.Logger

	sources     []ports.GraphSource
	graphs      []*domain.Graph
	runtimeOpts []runtime.EngineOption
	strict      bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for the engine and runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSource adds a graph source loaded during New.
func WithSource(src ports.GraphSource) Option {
	return func(e *Engine) { e.sources = append(e.sources, src) }
}

// WithGraphs registers graphs directly, bypassing any source.
func WithGraphs(graphs ...*domain.Graph) Option {
	return func(e *Engine) { e.graphs = append(e.graphs, graphs...) }
}

// WithLifecycleHooks registers observability hooks on the runtime.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithBranchChildOps enables execute-then-route semantics for conditional
// blocks inside function nodes.
func WithBranchChildOps(apply bool) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithBranchChildOps(apply))
	}
}

// WithLenientValidation registers graphs even when graphcheck flags them.
// Traversal tolerates incomplete graphs, so interactive authoring setups
// may want to run them anyway.
func WithLenientValidation() Option {
	return func(e *Engine) { e.strict = false }
}

// New builds an engine: graphs from sources and options are validated and
// registered, then the runtime is constructed over the registry.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		registry: registry.New(),
		logger:   logging.NewNop(),
		strict:   true,
	}
	for _, opt := range opts {
		opt(e)
	}

	all := e.graphs
	for _, src := range e.sources {
		loaded, err := src.Graphs(ctx)
		if err != nil {
			return nil, fmt.Errorf("load graphs: %w", err)
		}
		all = append(all, loaded...)
	}

	for _, g := range all {
		if err := e.AddGraph(g); err != nil {
			return nil, err
		}
	}

	e.runtime = runtime.NewEngine(e.registry, e.registry,
		append([]runtime.EngineOption{runtime.WithLogger(e.logger)}, e.runtimeOpts...)...)
	return e, nil
}

// AddGraph validates and registers a graph at runtime (admin import path).
func (e *Engine) AddGraph(g *domain.Graph) error {
	if res := graphcheck.Validate(g); !res.Valid {
		if e.strict {
			return fmt.Errorf("graph %q invalid: %s", g.Name, strings.Join(res.Errors, "; "))
		}
		e.logger.Warn("registering graph with validation errors",
			"graph", g.Name, "errors", strings.Join(res.Errors, "; "))
	}
	return e.registry.Register(g)
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Start begins a session on the named graph with a generated session ID.
func (e *Engine) Start(ctx context.Context, graphName string) (*domain.TraversalState, *domain.Outcome, error) {
	return e.runtime.Start(ctx, NewSessionID(), graphName)
}

// StartSession begins a session with a caller-chosen session ID.
func (e *Engine) StartSession(ctx context.Context, sessionID, graphName string) (*domain.TraversalState, *domain.Outcome, error) {
	return e.runtime.Start(ctx, sessionID, graphName)
}

// Advance applies an answer to the session's current question.
func (e *Engine) Advance(ctx context.Context, state *domain.TraversalState, answer any) (*domain.TraversalState, *domain.Outcome, error) {
	return e.runtime.Advance(ctx, state, answer)
}

// FollowRedirect continues a session on the redirect target graph.
func (e *Engine) FollowRedirect(ctx context.Context, state *domain.TraversalState, target string) (*domain.TraversalState, *domain.Outcome, error) {
	return e.runtime.FollowRedirect(ctx, state, target)
}

// Progress returns the session's progress percent on its active graph.
func (e *Engine) Progress(state *domain.TraversalState) (int, error) {
	return e.runtime.Progress(state)
}

// Graph resolves a registered graph by name.
func (e *Engine) Graph(name string) (*domain.Graph, error) {
	return e.registry.Graph(name)
}

// GraphNames lists registered graph names.
func (e *Engine) GraphNames() []string {
	return e.registry.Names()
}

// Registry exposes the underlying registry (global variables included).
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}
