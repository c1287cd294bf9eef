package mutctl

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextIsActive(t *testing.T) {
	t.Run("active id is selected and covered", func(t *testing.T) {
		ctx := NewContext(7)

		require.True(t, ctx.IsActive(7))
		require.Equal(t, []int{7}, ctx.Covered())
	})

	t.Run("inactive id is covered anyway", func(t *testing.T) {
		ctx := NewContext(7)

		require.False(t, ctx.IsActive(3))
		require.Equal(t, []int{3}, ctx.Covered())
	})

	t.Run("baseline never activates but still covers", func(t *testing.T) {
		ctx := NewContext(BaselineID)

		for _, id := range []int{5, 0, 2, 5} {
			assert.False(t, ctx.IsActive(id))
		}

		require.Equal(t, BaselineID, ctx.ActiveID())
		require.Equal(t, []int{0, 2, 5}, ctx.Covered())
	})
}

func TestContextConcurrentGuards(t *testing.T) {
	ctx := NewContext(10)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		active int
	)

	for id := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if ctx.IsActive(id) {
				mu.Lock()
				active++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	require.Equal(t, 1, active)
	require.Len(t, ctx.Covered(), 50)
}

func TestContextsAreIsolated(t *testing.T) {
	first := NewContext(1)
	second := NewContext(2)

	first.IsActive(4)

	require.False(t, second.WasCovered(4))
	require.True(t, first.WasCovered(4))
}
