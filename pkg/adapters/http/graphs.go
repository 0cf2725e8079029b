package http

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdanta/greenflow/internal/importer"
	"github.com/verdanta/greenflow/internal/presentation/graph"
	"github.com/verdanta/greenflow/pkg/domain"
)

// maxImportBytes bounds uploaded questionnaire exports.
const maxImportBytes = 4 << 20

type graphSummary struct {
	Name       string `json:"name"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Questions  int    `json:"questions"`
	StartsWith string `json:"startsWith,omitempty"`
}

func (s *Server) handleListGraphs(w http.ResponseWriter, _ *http.Request) {
	names := s.engine.GraphNames()
	out := make([]graphSummary, 0, len(names))
	for _, name := range names {
		g, err := s.engine.Graph(name)
		if err != nil {
			continue
		}
		summary := graphSummary{
			Name:      g.Name,
			Nodes:     len(g.Nodes),
			Edges:     len(g.Edges),
			Questions: g.VisualCount(),
		}
		if start, ok := g.StartNode(); ok {
			summary.StartsWith = start.ID
		}
		out = append(out, summary)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.engine.Graph(chi.URLParam(r, "name"))
	if err != nil {
		s.writeTraversalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleGraphMermaid renders the graph as a Mermaid flowchart. With a
// session query parameter the session's visited path is overlaid.
func (s *Server) handleGraphMermaid(w http.ResponseWriter, r *http.Request) {
	g, err := s.engine.Graph(chi.URLParam(r, "name"))
	if err != nil {
		s.writeTraversalError(w, err)
		return
	}

	var overlay *graph.Overlay
	if sessionID := r.URL.Query().Get("session"); sessionID != "" {
		state, err := s.sessions.Load(r.Context(), sessionID)
		if err != nil {
			s.writeTraversalError(w, err)
			return
		}
		overlay = &graph.Overlay{CurrentNode: state.CurrentNodeID}
		for _, visit := range state.History {
			if visit.Graph == g.Name {
				overlay.VisitedNodes = append(overlay.VisitedNodes, visit.NodeID)
			}
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(g, overlay))
}

// handleImportGraph registers a questionnaire from an editor export.
// YAML and JSON bodies are accepted, selected by Content-Type.
func (s *Server) handleImportGraph(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}

	var g *domain.Graph
	switch mediaType(r) {
	case "application/json":
		g, err = importer.ParseJSON(body)
	default:
		g, err = importer.ParseYAML(body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, lookupErr := s.engine.Graph(g.Name); lookupErr == nil {
		writeError(w, http.StatusConflict, "graph already registered")
		return
	} else if !errors.Is(lookupErr, domain.ErrGraphNotFound) {
		s.writeTraversalError(w, lookupErr)
		return
	}

	if err := s.engine.AddGraph(g); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.logger.Info("graph imported", "graph", g.Name, "nodes", len(g.Nodes))
	writeJSON(w, http.StatusCreated, graphSummary{
		Name:      g.Name,
		Nodes:     len(g.Nodes),
		Edges:     len(g.Edges),
		Questions: g.VisualCount(),
	})
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}
