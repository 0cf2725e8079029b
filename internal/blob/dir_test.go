package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore_RoundTrip(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	n, err := store.Put(ctx, "c-1/audit.pdf", strings.NewReader("certified content"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("certified content")), n)

	rc, err := store.Get(ctx, "c-1/audit.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "certified content", string(data))

	require.NoError(t, store.Delete(ctx, "c-1/audit.pdf"))
	_, err = store.Get(ctx, "c-1/audit.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirStore_MissingBlob(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), "nope"), ErrNotFound)
}

func TestDirStore_RejectsTraversal(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape", strings.NewReader("x"))
	assert.Error(t, err)
}
