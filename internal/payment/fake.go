package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// FakeGateway is an in-process Gateway for development and tests. Every
// checkout it creates starts PENDING and can be settled with MarkPaid.
type FakeGateway struct {
	mu       sync.Mutex
	sessions map[string]CheckoutSession
}

// NewFakeGateway returns an empty FakeGateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{sessions: make(map[string]CheckoutSession)}
}

func (g *FakeGateway) CreateCheckout(_ context.Context, claimID string, amountCents int64, currency string) (*CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sess := CheckoutSession{
		ID:          uuid.NewString(),
		ClaimID:     claimID,
		AmountCents: amountCents,
		Currency:    currency,
		Status:      CheckoutPending,
	}
	sess.RedirectURL = fmt.Sprintf("https://pay.example.test/checkout/%s", sess.ID)
	g.sessions[sess.ID] = sess
	return &sess, nil
}

func (g *FakeGateway) GetCheckout(_ context.Context, id string) (*CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sess, ok := g.sessions[id]
	if !ok {
		return nil, ErrCheckoutNotFound
	}
	return &sess, nil
}

// MarkPaid settles a pending checkout. Used by tests in place of a
// processor webhook.
func (g *FakeGateway) MarkPaid(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	sess, ok := g.sessions[id]
	if !ok {
		return ErrCheckoutNotFound
	}
	sess.Status = CheckoutPaid
	g.sessions[id] = sess
	return nil
}

var _ Gateway = (*FakeGateway)(nil)
