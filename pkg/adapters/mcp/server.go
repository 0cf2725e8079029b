// Package mcp exposes the questionnaire engine as an MCP server so agent
// tooling can run assessments conversationally.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/verdanta/greenflow"
	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/session"
)

// Question is the flat projection of the node to present next. Tool output
// schemas are built by reflection, so this type must not reach back into
// the graph model, whose function sequences nest recursively.
type Question struct {
	ID      string   `json:"id" jsonschema_description:"Node identifier of the question"`
	Kind    string   `json:"kind" jsonschema_description:"yesNo, singleChoice or multipleChoice"`
	Label   string   `json:"label,omitempty" jsonschema_description:"Question text to present"`
	Options []string `json:"options,omitempty" jsonschema_description:"Choice labels, when the question has options"`
}

// SessionResponse is the unified tool result: the persisted state plus
// the outcome to act on next.
type SessionResponse struct {
	SessionID      string    `json:"sessionId" jsonschema_description:"Session identifier for follow-up calls"`
	Graph          string    `json:"graph" jsonschema_description:"Active questionnaire name"`
	Status         string    `json:"status" jsonschema_description:"IN_PROGRESS or COMPLETED"`
	Progress       int       `json:"progress" jsonschema_description:"Progress percent on the active questionnaire"`
	Weight         float64   `json:"weight" jsonschema_description:"Accumulated score so far"`
	Outcome        string    `json:"outcome,omitempty" jsonschema_description:"question, completed or redirected"`
	Question       *Question `json:"question,omitempty" jsonschema_description:"Next question to present, when outcome is question"`
	FinalWeight    float64   `json:"finalWeight,omitempty" jsonschema_description:"Accumulated score at completion"`
	RedirectTarget string    `json:"redirectTarget,omitempty" jsonschema_description:"Next questionnaire, when outcome is redirected"`
}

// Engine defines the traversal surface the MCP server needs.
type Engine interface {
	StartSession(ctx context.Context, sessionID, graphName string) (*domain.TraversalState, *domain.Outcome, error)
	Advance(ctx context.Context, state *domain.TraversalState, answer any) (*domain.TraversalState, *domain.Outcome, error)
	FollowRedirect(ctx context.Context, state *domain.TraversalState, target string) (*domain.TraversalState, *domain.Outcome, error)
	Graph(name string) (*domain.Graph, error)
	GraphNames() []string
}

// Server wraps the engine behind MCP tools.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server over the engine and session manager.
func NewServer(engine Engine, sessions *session.Manager) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("greenflow-mcp", strings.TrimSpace(greenflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: list_questionnaires
	s.mcpServer.AddTool(mcp.NewTool("list_questionnaires",
		mcp.WithDescription("List the registered questionnaires with their size and entry node."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type summary struct {
			Name      string `json:"name"`
			Questions int    `json:"questions"`
		}
		var out []summary
		for _, name := range s.engine.GraphNames() {
			g, err := s.engine.Graph(name)
			if err != nil {
				continue
			}
			out = append(out, summary{Name: g.Name, Questions: g.VisualCount()})
		}
		jsonBytes, _ := json.Marshal(out)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: start_questionnaire
	startTool := mcp.NewTool("start_questionnaire",
		mcp.WithDescription("Start an assessment session on the named questionnaire. Returns the first question."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Questionnaire name")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: submit_answer
	answerTool := mcp.NewTool("submit_answer",
		mcp.WithDescription("Answer the session's current question. For multiple choice pass a JSON array of labels."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier from start_questionnaire")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("Answer text, or a JSON array for multiple choice")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(answerTool, mcp.NewStructuredToolHandler(s.handleAnswer))

	// TOOL: inspect_session
	inspectTool := mcp.NewTool("inspect_session",
		mcp.WithDescription("Get the current state of a session: progress, score, and visited questions."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(inspectTool, mcp.NewStructuredToolHandler(s.handleInspect))
}

func toSessionResponse(state *domain.TraversalState, outcome *domain.Outcome) SessionResponse {
	resp := SessionResponse{
		SessionID: state.SessionID,
		Graph:     state.Graph,
		Status:    string(state.Status),
		Progress:  state.Progress,
		Weight:    state.Weight,
	}
	if outcome == nil {
		return resp
	}
	resp.Outcome = string(outcome.Kind)
	resp.FinalWeight = outcome.FinalWeight
	resp.RedirectTarget = outcome.RedirectTarget
	if outcome.Node != nil {
		q := &Question{
			ID:    outcome.Node.ID,
			Kind:  string(outcome.Node.Kind),
			Label: outcome.Node.Label,
		}
		for _, opt := range outcome.Node.Options {
			q.Options = append(q.Options, opt.Label)
		}
		resp.Question = q
	}
	return resp
}

// followRedirects resolves redirect outcomes so tools always land on a
// question or a completion.
func (s *Server) followRedirects(ctx context.Context, state *domain.TraversalState, outcome *domain.Outcome) (*domain.TraversalState, *domain.Outcome, error) {
	for hops := 0; outcome.Kind == domain.OutcomeRedirected; hops++ {
		if hops >= 16 {
			return nil, nil, fmt.Errorf("redirect chain too long")
		}
		var err error
		state, outcome, err = s.engine.FollowRedirect(ctx, state, outcome.RedirectTarget)
		if err != nil {
			return nil, nil, err
		}
	}
	return state, outcome, nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	graphName, _ := args["graph"].(string)
	if graphName == "" {
		return SessionResponse{}, fmt.Errorf("graph is required")
	}

	sessionID := greenflow.NewSessionID()
	var (
		state   *domain.TraversalState
		outcome *domain.Outcome
	)
	err := s.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, outcome, err = s.engine.StartSession(ctx, sessionID, graphName)
		if err != nil {
			return err
		}
		state, outcome, err = s.followRedirects(ctx, state, outcome)
		if err != nil {
			return err
		}
		return s.sessions.Store().Save(ctx, sessionID, state)
	})
	if err != nil {
		return SessionResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return toSessionResponse(state, outcome), nil
}

func (s *Server) handleAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	rawAnswer, _ := args["answer"].(string)
	if sessionID == "" || rawAnswer == "" {
		return SessionResponse{}, fmt.Errorf("session_id and answer are required")
	}

	// A JSON array answer means multiple choice.
	var answer any = rawAnswer
	if strings.HasPrefix(strings.TrimSpace(rawAnswer), "[") {
		var labels []string
		if err := json.Unmarshal([]byte(rawAnswer), &labels); err == nil {
			answer = labels
		}
	}

	var (
		state   *domain.TraversalState
		outcome *domain.Outcome
	)
	err := s.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		loaded, err := s.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		state, outcome, err = s.engine.Advance(ctx, loaded, answer)
		if err != nil {
			return err
		}
		state, outcome, err = s.followRedirects(ctx, state, outcome)
		if err != nil {
			return err
		}
		return s.sessions.Store().Save(ctx, sessionID, state)
	})
	if err != nil {
		return SessionResponse{}, fmt.Errorf("answer failed: %w", err)
	}
	return toSessionResponse(state, outcome), nil
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return SessionResponse{}, fmt.Errorf("session_id is required")
	}
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("inspect failed: %w", err)
	}
	return toSessionResponse(state, nil), nil
}

func (s *Server) registerResources() {
	// EXPOSE: greenflow://questionnaires
	s.mcpServer.AddResource(mcp.NewResource("greenflow://questionnaires", "Registered Questionnaires",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		var graphs []*domain.Graph
		for _, name := range s.engine.GraphNames() {
			g, err := s.engine.Graph(name)
			if err != nil {
				return nil, fmt.Errorf("failed to load questionnaire %q: %w", name, err)
			}
			graphs = append(graphs, g)
		}
		jsonBytes, _ := json.Marshal(graphs)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "greenflow://questionnaires",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
