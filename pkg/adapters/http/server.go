// Package http exposes the questionnaire engine and the claims workflow
// over a REST API.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdanta/greenflow/internal/blob"
	"github.com/verdanta/greenflow/internal/claims"
	"github.com/verdanta/greenflow/internal/identity"
	"github.com/verdanta/greenflow/internal/logging"
	"github.com/verdanta/greenflow/internal/metrics"
	"github.com/verdanta/greenflow/internal/payment"
	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/session"
)

// Engine defines the traversal surface the API needs from the core.
type Engine interface {
	StartSession(ctx context.Context, sessionID, graphName string) (*domain.TraversalState, *domain.Outcome, error)
	Advance(ctx context.Context, state *domain.TraversalState, answer any) (*domain.TraversalState, *domain.Outcome, error)
	FollowRedirect(ctx context.Context, state *domain.TraversalState, target string) (*domain.TraversalState, *domain.Outcome, error)
	Graph(name string) (*domain.Graph, error)
	GraphNames() []string
	AddGraph(g *domain.Graph) error
}

// Server hosts the REST API.
type Server struct {
	engine   Engine
	sessions *session.Manager
	claims   claims.Store
	identity identity.Provider
	payments payment.Gateway
	blobs    blob.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	validate *validator.Validate
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation and the /metrics route.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithPayments enables the checkout endpoints.
func WithPayments(gw payment.Gateway) Option {
	return func(s *Server) { s.payments = gw }
}

// WithBlobs enables document uploads.
func WithBlobs(store blob.Store) Option {
	return func(s *Server) { s.blobs = store }
}

// NewServer wires the API over its collaborators. The engine, session
// manager, claim store and identity provider are required; payments and
// blobs are optional features.
func NewServer(engine Engine, sessions *session.Manager, claimStore claims.Store, provider identity.Provider, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		claims:   claimStore,
		identity: provider,
		logger:   logging.NewNop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)
	if s.metrics != nil {
		r.Use(s.observeRequests)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPISpec)
	r.Get("/swagger", s.handleSwaggerUI)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Get("/{sessionID}", s.handleGetSession)
			r.Delete("/{sessionID}", s.handleDeleteSession)
			r.Post("/{sessionID}/answers", s.handleAnswer)
		})

		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleListGraphs)
			r.Get("/{name}", s.handleGetGraph)
			r.Get("/{name}/mermaid", s.handleGraphMermaid)
			r.With(s.requireAdmin).Post("/", s.handleImportGraph)
		})

		r.Route("/claims", func(r chi.Router) {
			r.Post("/", s.handleCreateClaim)
			r.Get("/", s.handleListClaims)
			r.Get("/{claimID}", s.handleGetClaim)
			r.Delete("/{claimID}", s.handleDeleteClaim)
			r.Post("/{claimID}/documents", s.handleUploadDocument)
			r.Get("/{claimID}/documents", s.handleListDocuments)
			r.Get("/{claimID}/documents/{documentID}", s.handleDownloadDocument)
			r.With(s.requireAdmin).Post("/{claimID}/review", s.handleReviewClaim)
			r.Post("/{claimID}/checkout", s.handleCreateCheckout)
		})

		r.Get("/checkouts/{checkoutID}", s.handleGetCheckout)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
