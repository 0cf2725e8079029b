package memory_test

import (
	"testing"

	"github.com/verdanta/greenflow/pkg/adapters/memory"
	"github.com/verdanta/greenflow/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}
