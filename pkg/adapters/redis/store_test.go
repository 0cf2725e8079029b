package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/verdanta/greenflow/pkg/adapters/redis"
	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/ports"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestStore_Contract(t *testing.T) {
	store := redisadapter.NewStore(newTestClient(t))
	ports.RunStateStoreContract(t, store)
}

func TestStore_TTLApplied(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redisadapter.NewStore(client, redisadapter.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-ttl", domain.NewTraversalState("sess-ttl", "main", nil)))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "sess-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLocker_MutualExclusion(t *testing.T) {
	client := newTestClient(t)
	locker := redisadapter.NewLocker(client, "greenflow:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "sess-1", time.Minute)
	require.NoError(t, err)

	// A second acquisition must block until released or ctx expires.
	blockedCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blockedCtx, "sess-1", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "sess-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
