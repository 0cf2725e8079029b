// Package metrics exposes Prometheus instrumentation for traversal and
// the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Metrics bundles the greenflow collectors behind one registry.
type Metrics struct {
	registry *prometheus.Registry

	sessionsStarted   prometheus.Counter
	sessionsCompleted prometheus.Counter
	redirects         prometheus.Counter
	nodeVisits        *prometheus.CounterVec
	traversalErrors   *prometheus.CounterVec
	finalWeight       prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New builds and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "greenflow_sessions_started_total",
			Help: "Questionnaire sessions started.",
		}),
		sessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "greenflow_sessions_completed_total",
			Help: "Questionnaire sessions that reached a terminal node.",
		}),
		redirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "greenflow_redirects_total",
			Help: "Cross-questionnaire redirects followed.",
		}),
		nodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenflow_node_visits_total",
			Help: "Nodes visited during traversal, by node kind.",
		}, []string{"kind"}),
		traversalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenflow_traversal_errors_total",
			Help: "Traversal errors, by graph.",
		}, []string{"graph"}),
		finalWeight: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "greenflow_final_weight",
			Help:    "Final accumulated weight of completed sessions.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenflow_http_requests_total",
			Help: "HTTP requests served, by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "greenflow_http_request_duration_seconds",
			Help:    "HTTP request latency, by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		m.sessionsStarted,
		m.sessionsCompleted,
		m.redirects,
		m.nodeVisits,
		m.traversalErrors,
		m.finalWeight,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the underlying Prometheus registry for the /metrics
// handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// SessionStarted records a new traversal session.
func (m *Metrics) SessionStarted() { m.sessionsStarted.Inc() }

// Hooks returns lifecycle hooks that feed the traversal collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnVisit: func(_ string, node *domain.Node) {
			m.nodeVisits.WithLabelValues(string(node.Kind)).Inc()
		},
		OnComplete: func(_ string, finalWeight float64) {
			m.sessionsCompleted.Inc()
			m.finalWeight.Observe(finalWeight)
		},
		OnRedirect: func(_, _ string) {
			m.redirects.Inc()
		},
		OnError: func(graph string, _ error) {
			m.traversalErrors.WithLabelValues(graph).Inc()
		},
	}
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(route, method string, status int, seconds float64) {
	m.httpRequests.WithLabelValues(route, method, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(seconds)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
