// Package claims holds the green-claim records that questionnaire
// sessions produce and reviewers act on.
package claims

import (
	"context"
	"errors"
	"time"
)

// Status tracks a claim through its review lifecycle.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
)

// Valid reports whether s is a known claim status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Claim is one sustainability claim under assessment.
type Claim struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	SessionID   string    `json:"sessionId,omitempty"`
	Graph       string    `json:"graph,omitempty"`
	Progress    int       `json:"progress"`
	FinalWeight float64   `json:"finalWeight,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Document is a supporting file attached to a claim. The bytes live in
// the blob store; BlobKey points at them.
type Document struct {
	ID          string    `json:"id"`
	ClaimID     string    `json:"claimId"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	BlobKey     string    `json:"-"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

var (
	// ErrNotFound is returned when a claim or document does not exist.
	ErrNotFound = errors.New("claims: not found")

	// ErrInvalidTransition is returned when a status change is not
	// allowed from the claim's current status.
	ErrInvalidTransition = errors.New("claims: invalid status transition")
)

// Store persists claims and their documents.
type Store interface {
	CreateClaim(ctx context.Context, c *Claim) error
	GetClaim(ctx context.Context, id string) (*Claim, error)
	UpdateClaim(ctx context.Context, c *Claim) error
	ListClaims(ctx context.Context, userID string) ([]*Claim, error)
	DeleteClaim(ctx context.Context, id string) error

	AddDocument(ctx context.Context, d *Document) error
	ListDocuments(ctx context.Context, claimID string) ([]*Document, error)
	GetDocument(ctx context.Context, id string) (*Document, error)

	Close() error
}

// CanTransition reports whether a claim may move from one status to
// another. Review decisions only apply to completed claims, and decided
// claims are final.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusCompleted
	case StatusCompleted:
		return to == StatusApproved || to == StatusRejected
	default:
		return false
	}
}
