package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdanta/greenflow/pkg/domain"
)

// RunStateStoreContract verifies that a StateStore implementation adheres to
// the interface contract. Adapter test suites call it against their store.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-" + time.Now().Format("20060102150405.000")

	t.Run("save and load", func(t *testing.T) {
		state := domain.NewTraversalState(sessionID, "main", map[string]float64{"x": 5})
		state.CurrentNodeID = "q1"
		state.Weight = 2.5
		state.History = append(state.History, domain.Visit{Graph: "main", NodeID: "q1"})

		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "q1", loaded.CurrentNodeID)
		assert.Equal(t, 2.5, loaded.Weight)
		assert.Equal(t, 5.0, loaded.Locals["x"])
		assert.Len(t, loaded.History, 1)
	})

	t.Run("load returns isolated copy", func(t *testing.T) {
		state := domain.NewTraversalState(sessionID, "main", nil)
		require.NoError(t, store.Save(ctx, sessionID, state))

		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.Locals["mutated"] = 1

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.NotContains(t, second.Locals, "mutated")
	})

	t.Run("load non-existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewTraversalState(sessionID, "main", nil)))
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("list", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewTraversalState(id1, "main", nil))
		_ = store.Save(ctx, id2, domain.NewTraversalState(id2, "main", nil))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
