package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdanta/greenflow/internal/claims"
	"github.com/verdanta/greenflow/internal/identity"
	"github.com/verdanta/greenflow/pkg/domain"
)

// maxRedirectHops bounds cross-questionnaire redirect chains; the engine
// only guards cycles inside one graph.
const maxRedirectHops = 16

type startSessionRequest struct {
	Graph     string `json:"graph" validate:"required"`
	SessionID string `json:"sessionId" validate:"omitempty,uuid4"`
	ClaimID   string `json:"claimId"`
}

type answerRequest struct {
	Answer any `json:"answer" validate:"required"`
}

type sessionResponse struct {
	SessionID string          `json:"sessionId"`
	Graph     string          `json:"graph"`
	Status    string          `json:"status"`
	Progress  int             `json:"progress"`
	Weight    float64         `json:"weight"`
	History   []domain.Visit  `json:"history,omitempty"`
	Outcome   *domain.Outcome `json:"outcome,omitempty"`
}

func toSessionResponse(state *domain.TraversalState, outcome *domain.Outcome) sessionResponse {
	return sessionResponse{
		SessionID: state.SessionID,
		Graph:     state.Graph,
		Status:    string(state.Status),
		Progress:  state.Progress,
		Weight:    state.Weight,
		History:   state.History,
		Outcome:   outcome,
	}
}

// followRedirects drives redirect outcomes until a question or completion
// surfaces, so API clients never see intermediate hops.
func (s *Server) followRedirects(ctx context.Context, state *domain.TraversalState, outcome *domain.Outcome) (*domain.TraversalState, *domain.Outcome, error) {
	for hops := 0; outcome.Kind == domain.OutcomeRedirected; hops++ {
		if hops >= maxRedirectHops {
			return nil, nil, fmt.Errorf("redirect chain exceeded %d hops", maxRedirectHops)
		}
		var err error
		state, outcome, err = s.engine.FollowRedirect(ctx, state, outcome.RedirectTarget)
		if err != nil {
			return nil, nil, err
		}
	}
	return state, outcome, nil
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, _ := identity.FromContext(r.Context())
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var (
		state   *domain.TraversalState
		outcome *domain.Outcome
	)
	err := s.sessions.WithLock(r.Context(), sessionID, func(ctx context.Context) error {
		if _, err := s.sessions.Store().Load(ctx, sessionID); err == nil {
			return errSessionExists
		} else if !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}

		var err error
		state, outcome, err = s.engine.StartSession(ctx, sessionID, req.Graph)
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
		s.writeTraversalError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.SessionStarted()
	}

	if req.ClaimID != "" {
		if err := s.attachClaim(r.Context(), user, req.ClaimID, state); err != nil {
			s.writeClaimError(w, err)
			return
		}
	}
	s.syncClaimProgress(r.Context(), user, state, outcome)

	writeJSON(w, http.StatusCreated, toSessionResponse(state, outcome))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	var req answerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	answer := normalizeAnswer(req.Answer)
	var (
		state   *domain.TraversalState
		outcome *domain.Outcome
	)
	err := s.sessions.WithLock(r.Context(), sessionID, func(ctx context.Context) error {
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
		s.writeTraversalError(w, err)
		return
	}

	user, _ := identity.FromContext(r.Context())
	s.syncClaimProgress(r.Context(), user, state, outcome)

	writeJSON(w, http.StatusOK, toSessionResponse(state, outcome))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	state, err := s.sessions.Load(r.Context(), sessionID)
	if err != nil {
		s.writeTraversalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(state, nil))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		s.writeTraversalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// errSessionExists signals a session ID collision on start.
var errSessionExists = errors.New("session already exists")

// normalizeAnswer converts decoded JSON arrays into string slices for
// multiple choice answers.
func normalizeAnswer(answer any) any {
	values, ok := answer.([]any)
	if !ok {
		return answer
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprintf("%v", v))
	}
	return out
}

// attachClaim links a freshly started session to a claim and moves it
// into assessment.
func (s *Server) attachClaim(ctx context.Context, user *identity.User, claimID string, state *domain.TraversalState) error {
	claim, err := s.claims.GetClaim(ctx, claimID)
	if err != nil {
		return err
	}
	if user != nil && user.Role != identity.RoleAdmin && claim.UserID != user.ID {
		return claims.ErrNotFound
	}
	if claim.Status == claims.StatusDraft {
		claim.Status = claims.StatusInProgress
	}
	claim.SessionID = state.SessionID
	claim.Graph = state.Graph
	claim.Progress = state.Progress
	claim.UpdatedAt = time.Now().UTC()
	return s.claims.UpdateClaim(ctx, claim)
}

// syncClaimProgress mirrors session progress onto the linked claim.
// Failures are logged, not surfaced: the traversal already succeeded.
func (s *Server) syncClaimProgress(ctx context.Context, user *identity.User, state *domain.TraversalState, outcome *domain.Outcome) {
	if user == nil || state == nil {
		return
	}
	list, err := s.claims.ListClaims(ctx, user.ID)
	if err != nil {
		s.logger.Warn("claim lookup failed during progress sync", "err", err)
		return
	}
	for _, claim := range list {
		if claim.SessionID != state.SessionID {
			continue
		}
		claim.Progress = state.Progress
		if outcome != nil && outcome.Kind == domain.OutcomeCompleted {
			if claims.CanTransition(claim.Status, claims.StatusCompleted) {
				claim.Status = claims.StatusCompleted
			}
			claim.FinalWeight = outcome.FinalWeight
		}
		claim.UpdatedAt = time.Now().UTC()
		if err := s.claims.UpdateClaim(ctx, claim); err != nil {
			s.logger.Warn("claim update failed during progress sync",
				"claim_id", claim.ID, "err", err)
		}
		return
	}
}

// writeTraversalError maps engine and store errors onto HTTP statuses.
func (s *Server) writeTraversalError(w http.ResponseWriter, err error) {
	var (
		cycleErr *domain.CycleError
		fnErr    *domain.FunctionError
	)
	switch {
	case errors.Is(err, errSessionExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrSessionCompleted):
		writeError(w, http.StatusConflict, "session already completed")
	case errors.Is(err, domain.ErrGraphNotFound),
		errors.Is(err, domain.ErrRedirectTargetNotFound):
		writeError(w, http.StatusNotFound, "questionnaire not found")
	case errors.Is(err, domain.ErrNoStartNode),
		errors.Is(err, domain.ErrNoStartNodeInTarget):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &cycleErr), errors.As(err, &fnErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
