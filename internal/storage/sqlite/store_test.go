package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdanta/greenflow/internal/claims"
)

func TestStore_Contract(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "claims.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	claims.RunStoreContract(t, store)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}
