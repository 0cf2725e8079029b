package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_Authenticate(t *testing.T) {
	p := NewStaticProvider(map[string]User{
		"tok-user":  {ID: "u-1", Name: "Ada", Role: RoleUser},
		"tok-admin": {ID: "a-1", Name: "Rev", Role: RoleAdmin},
	})

	u, err := p.Authenticate(context.Background(), "tok-user")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, RoleUser, u.Role)

	_, err = p.Authenticate(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserContextRoundTrip(t *testing.T) {
	ctx := WithUser(context.Background(), &User{ID: "u-2", Role: RoleAdmin})

	u, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-2", u.ID)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
