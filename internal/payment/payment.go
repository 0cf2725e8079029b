// Package payment abstracts the checkout flow for certification fees.
package payment

import (
	"context"
	"errors"
)

// CheckoutStatus tracks a checkout session.
type CheckoutStatus string

const (
	CheckoutPending   CheckoutStatus = "PENDING"
	CheckoutPaid      CheckoutStatus = "PAID"
	CheckoutCancelled CheckoutStatus = "CANCELLED"
)

// CheckoutSession is one payment attempt for an approved claim.
type CheckoutSession struct {
	ID          string         `json:"id"`
	ClaimID     string         `json:"claimId"`
	AmountCents int64          `json:"amountCents"`
	Currency    string         `json:"currency"`
	Status      CheckoutStatus `json:"status"`
	RedirectURL string         `json:"redirectUrl"`
}

// ErrCheckoutNotFound is returned for unknown checkout sessions.
var ErrCheckoutNotFound = errors.New("payment: checkout not found")

// Gateway creates and resolves checkout sessions with a payment
// processor.
type Gateway interface {
	CreateCheckout(ctx context.Context, claimID string, amountCents int64, currency string) (*CheckoutSession, error)
	GetCheckout(ctx context.Context, id string) (*CheckoutSession, error)
}
