// Package identity resolves API callers to users and roles.
package identity

import (
	"context"
	"errors"
)

// Role separates claim submitters from reviewers.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an authenticated caller.
type User struct {
	ID   string
	Name string
	Role Role
}

// ErrUnauthenticated is returned when a token resolves to no user.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Provider turns a bearer token into a User.
type Provider interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}

type contextKey struct{}

// WithUser stores the authenticated user on the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the authenticated user, if any.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(contextKey{}).(*User)
	return u, ok
}
