package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdanta/greenflow/internal/claims"
	"github.com/verdanta/greenflow/internal/payment"
)

// certificationFeeCents is the flat certification fee charged once a
// claim is approved.
const certificationFeeCents = 4900

type checkoutRequest struct {
	Currency string `json:"currency" validate:"omitempty,iso4217"`
}

// handleCreateCheckout opens a payment session for an approved claim.
func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		writeError(w, http.StatusNotImplemented, "payments not configured")
		return
	}
	var req checkoutRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Currency == "" {
		req.Currency = "EUR"
	}

	claim, err := s.loadOwnedClaim(r)
	if err != nil {
		s.writeClaimError(w, err)
		return
	}
	if claim.Status != claims.StatusApproved {
		writeError(w, http.StatusConflict, "only approved claims can be certified")
		return
	}

	sess, err := s.payments.CreateCheckout(r.Context(), claim.ID, certificationFeeCents, req.Currency)
	if err != nil {
		s.logger.Error("checkout creation failed", "claim_id", claim.ID, "err", err)
		writeError(w, http.StatusBadGateway, "payment gateway error")
		return
	}
	s.logger.Info("checkout created", "claim_id", claim.ID, "checkout_id", sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		writeError(w, http.StatusNotImplemented, "payments not configured")
		return
	}
	sess, err := s.payments.GetCheckout(r.Context(), chi.URLParam(r, "checkoutID"))
	if errors.Is(err, payment.ErrCheckoutNotFound) {
		writeError(w, http.StatusNotFound, "checkout not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "payment gateway error")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
