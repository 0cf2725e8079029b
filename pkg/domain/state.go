package domain

// SessionStatus mirrors the persistence hook contract of the host platform.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "IN_PROGRESS"
	StatusCompleted  SessionStatus = "COMPLETED"
)

// Visit records one user-facing question shown during a session.
// Visits are keyed by graph because redirects can chain several graphs
// into one session while progress is computed per active graph.
type Visit struct {
	Graph  string `json:"graph"`
	NodeID string `json:"node_id"`
}

// TraversalState is the transient per-session snapshot: one exists per
// active questionnaire run, mutated on every answer, and persisted as
// "progress" between answers. The engine never writes graph structure.
type TraversalState struct {
	// SessionID identifies the session in state stores.
	SessionID string `json:"session_id"`

	// Graph is the name of the active graph (redirects switch it).
	Graph string `json:"graph"`

	// CurrentNodeID is the visual node the user is looking at, or the
	// terminal node once the session completed.
	CurrentNodeID string `json:"current_node_id"`

	// Weight is the running multiplicative score, starting at 1.0.
	Weight float64 `json:"weight"`

	// Locals is the session copy of the active graph's variables.
	Locals map[string]float64 `json:"locals,omitempty"`

	// History lists the visual nodes visited, in order, across graphs.
	History []Visit `json:"history,omitempty"`

	// Status and Progress feed the host's persistence hook.
	Status   SessionStatus `json:"status"`
	Progress int           `json:"progress"`
}

// NewTraversalState creates a clean state for one session on the named graph.
func NewTraversalState(sessionID, graphName string, locals map[string]float64) *TraversalState {
	if locals == nil {
		locals = make(map[string]float64)
	}
	return &TraversalState{
		SessionID: sessionID,
		Graph:     graphName,
		Weight:    1.0,
		Locals:    locals,
		Status:    StatusInProgress,
	}
}

// Clone returns a deep copy so stores and callers can never alias the
// engine's working state.
func (s *TraversalState) Clone() *TraversalState {
	if s == nil {
		return nil
	}
	next := *s
	next.Locals = make(map[string]float64, len(s.Locals))
	for k, v := range s.Locals {
		next.Locals[k] = v
	}
	next.History = make([]Visit, len(s.History))
	copy(next.History, s.History)
	return &next
}

// VisitedIn counts the visual nodes already shown in the named graph.
func (s *TraversalState) VisitedIn(graphName string) int {
	count := 0
	for _, v := range s.History {
		if v.Graph == graphName {
			count++
		}
	}
	return count
}
