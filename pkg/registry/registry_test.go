package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/dsl"
	"github.com/verdanta/greenflow/pkg/registry"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := registry.New()
	g := dsl.New("main").Start("s", "e").End("e").Build()

	require.NoError(t, reg.Register(g))

	got, err := reg.Graph("main")
	require.NoError(t, err)
	assert.Same(t, g, got)

	_, err = reg.Graph("other")
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
}

func TestRegistry_RejectsInvalidRegistrations(t *testing.T) {
	reg := registry.New()
	assert.Error(t, reg.Register(nil))
	assert.Error(t, reg.Register(&domain.Graph{}))
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := registry.New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.Register(dsl.New(name).Start("s", "e").End("e").Build()))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())
}

func TestRegistry_GlobalVariables(t *testing.T) {
	reg := registry.New()
	assert.Equal(t, 0.0, reg.Global("x"), "unset globals read as zero")

	reg.SetGlobal("x", 3.5)
	assert.Equal(t, 3.5, reg.Global("x"))

	snap := reg.Globals()
	snap["x"] = 99
	assert.Equal(t, 3.5, reg.Global("x"), "snapshot must be a copy")
}

func TestRegistry_ConcurrentGlobalWrites(t *testing.T) {
	reg := registry.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.SetGlobal("counterless", float64(j))
				_ = reg.Global("counterless")
			}
		}()
	}
	wg.Wait()

	// The race detector is the real assertion here.
	assert.Equal(t, 99.0, reg.Global("counterless"))
}
