package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdanta/greenflow/internal/blob"
	"github.com/verdanta/greenflow/internal/claims"
	"github.com/verdanta/greenflow/internal/identity"
)

// maxDocumentBytes bounds a single uploaded document.
const maxDocumentBytes = 16 << 20

type createClaimRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
}

type reviewClaimRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

func (s *Server) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	var req createClaimRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	user, _ := identity.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "missing user")
		return
	}

	now := time.Now().UTC()
	claim := &claims.Claim{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      claims.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.claims.CreateClaim(r.Context(), claim); err != nil {
		s.writeClaimError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claim)
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.FromContext(r.Context())
	userID := ""
	if user != nil && user.Role != identity.RoleAdmin {
		userID = user.ID
	}
	list, err := s.claims.ListClaims(r.Context(), userID)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	if list == nil {
		list = []*claims.Claim{}
	}
	writeJSON(w, http.StatusOK, list)
}

// loadOwnedClaim fetches a claim and enforces ownership for non-admins.
func (s *Server) loadOwnedClaim(r *http.Request) (*claims.Claim, error) {
	claim, err := s.claims.GetClaim(r.Context(), chi.URLParam(r, "claimID"))
	if err != nil {
		return nil, err
	}
	user, _ := identity.FromContext(r.Context())
	if user != nil && user.Role != identity.RoleAdmin && claim.UserID != user.ID {
		return nil, claims.ErrNotFound
	}
	return claim, nil
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := s.loadOwnedClaim(r)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

func (s *Server) handleDeleteClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := s.loadOwnedClaim(r)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	if err := s.claims.DeleteClaim(r.Context(), claim.ID); err != nil {
		s.writeClaimError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReviewClaim applies an approve or reject decision. Only claims
// with a completed assessment can be decided.
func (s *Server) handleReviewClaim(w http.ResponseWriter, r *http.Request) {
	var req reviewClaimRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	claim, err := s.claims.GetClaim(r.Context(), chi.URLParam(r, "claimID"))
	if err != nil {
		s.writeClaimError(w, err)
		return
	}

	target := claims.StatusApproved
	if req.Decision == "reject" {
		target = claims.StatusRejected
	}
	if !claims.CanTransition(claim.Status, target) {
		s.writeClaimError(w, fmt.Errorf("%w: %s to %s",
			claims.ErrInvalidTransition, claim.Status, target))
		return
	}

	claim.Status = target
	claim.UpdatedAt = time.Now().UTC()
	if err := s.claims.UpdateClaim(r.Context(), claim); err != nil {
		s.writeClaimError(w, err)
		return
	}
	s.logger.Info("claim reviewed", "claim_id", claim.ID, "decision", req.Decision)
	writeJSON(w, http.StatusOK, claim)
}

// handleUploadDocument stores one supporting file for a claim. The body
// is the raw file; filename comes from the query string.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if s.blobs == nil {
		writeError(w, http.StatusNotImplemented, "document storage not configured")
		return
	}
	claim, err := s.loadOwnedClaim(r)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename query parameter required")
		return
	}

	doc := &claims.Document{
		ID:          uuid.NewString(),
		ClaimID:     claim.ID,
		Filename:    filename,
		ContentType: r.Header.Get("Content-Type"),
		UploadedAt:  time.Now().UTC(),
	}
	if doc.ContentType == "" {
		doc.ContentType = "application/octet-stream"
	}
	doc.BlobKey = claim.ID + "/" + doc.ID

	size, err := s.blobs.Put(r.Context(), doc.BlobKey, io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		s.logger.Error("document upload failed", "claim_id", claim.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "store document")
		return
	}
	doc.Size = size

	if err := s.claims.AddDocument(r.Context(), doc); err != nil {
		_ = s.blobs.Delete(r.Context(), doc.BlobKey)
		s.writeClaimError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	claim, err := s.loadOwnedClaim(r)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	docs, err := s.claims.ListDocuments(r.Context(), claim.ID)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	if docs == nil {
		docs = []*claims.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	if s.blobs == nil {
		writeError(w, http.StatusNotImplemented, "document storage not configured")
		return
	}
	claim, err := s.loadOwnedClaim(r)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	doc, err := s.claims.GetDocument(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil || doc.ClaimID != claim.ID {
		s.writeClaimError(w, claims.ErrNotFound)
		return
	}

	rc, err := s.blobs.Get(r.Context(), doc.BlobKey)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	_, _ = io.Copy(w, rc)
}

// writeClaimError maps claim and blob errors onto HTTP statuses.
func (s *Server) writeClaimError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, claims.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, claims.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("claim request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
