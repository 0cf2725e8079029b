package claims

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract exercises the behavior every Store implementation
// must share. Call it from the implementation's own test file.
func RunStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	newClaim := func(id, userID string) *Claim {
		return &Claim{
			ID:        id,
			UserID:    userID,
			Title:     "Recycled packaging",
			Status:    StatusDraft,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("create and get", func(t *testing.T) {
		c := newClaim("c-1", "u-1")
		require.NoError(t, store.CreateClaim(ctx, c))

		got, err := store.GetClaim(ctx, "c-1")
		require.NoError(t, err)
		assert.Equal(t, "Recycled packaging", got.Title)
		assert.Equal(t, StatusDraft, got.Status)
		assert.Equal(t, now, got.CreatedAt)
	})

	t.Run("get missing claim", func(t *testing.T) {
		_, err := store.GetClaim(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update claim", func(t *testing.T) {
		c := newClaim("c-2", "u-1")
		require.NoError(t, store.CreateClaim(ctx, c))

		c.Status = StatusInProgress
		c.Progress = 40
		c.SessionID = "sess-1"
		require.NoError(t, store.UpdateClaim(ctx, c))

		got, err := store.GetClaim(ctx, "c-2")
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, got.Status)
		assert.Equal(t, 40, got.Progress)
		assert.Equal(t, "sess-1", got.SessionID)
	})

	t.Run("update missing claim", func(t *testing.T) {
		err := store.UpdateClaim(ctx, newClaim("ghost", "u-1"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list filters by user", func(t *testing.T) {
		require.NoError(t, store.CreateClaim(ctx, newClaim("c-3", "u-2")))
		require.NoError(t, store.CreateClaim(ctx, newClaim("c-4", "u-2")))

		mine, err := store.ListClaims(ctx, "u-2")
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		all, err := store.ListClaims(ctx, "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 4)
	})

	t.Run("documents", func(t *testing.T) {
		require.NoError(t, store.CreateClaim(ctx, newClaim("c-5", "u-3")))

		doc := &Document{
			ID:          "d-1",
			ClaimID:     "c-5",
			Filename:    "audit.pdf",
			ContentType: "application/pdf",
			Size:        1024,
			BlobKey:     "c-5/d-1",
			UploadedAt:  now,
		}
		require.NoError(t, store.AddDocument(ctx, doc))

		docs, err := store.ListDocuments(ctx, "c-5")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "audit.pdf", docs[0].Filename)
		assert.Equal(t, "c-5/d-1", docs[0].BlobKey)

		got, err := store.GetDocument(ctx, "d-1")
		require.NoError(t, err)
		assert.Equal(t, "c-5", got.ClaimID)
	})

	t.Run("document for missing claim", func(t *testing.T) {
		err := store.AddDocument(ctx, &Document{ID: "d-x", ClaimID: "nope", UploadedAt: now})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete claim removes documents", func(t *testing.T) {
		require.NoError(t, store.CreateClaim(ctx, newClaim("c-6", "u-4")))
		require.NoError(t, store.AddDocument(ctx, &Document{
			ID: "d-2", ClaimID: "c-6", Filename: "r.txt", ContentType: "text/plain",
			BlobKey: "c-6/d-2", UploadedAt: now,
		}))

		require.NoError(t, store.DeleteClaim(ctx, "c-6"))

		_, err := store.GetClaim(ctx, "c-6")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetDocument(ctx, "d-2")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, store.DeleteClaim(ctx, "c-6"), ErrNotFound)
	})
}
