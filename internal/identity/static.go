package identity

import "context"

// StaticProvider maps fixed tokens to users. Meant for development and
// single-tenant deployments; production wires a real provider here.
type StaticProvider struct {
	users map[string]User
}

// NewStaticProvider builds a provider from a token to user mapping.
func NewStaticProvider(users map[string]User) *StaticProvider {
	copied := make(map[string]User, len(users))
	for token, u := range users {
		copied[token] = u
	}
	return &StaticProvider{users: copied}
}

// Authenticate resolves token against the static table.
func (p *StaticProvider) Authenticate(_ context.Context, token string) (*User, error) {
	u, ok := p.users[token]
	if !ok {
		return nil, ErrUnauthenticated
	}
	return &u, nil
}

var _ Provider = (*StaticProvider)(nil)
