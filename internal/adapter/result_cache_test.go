package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCache_InMemory(t *testing.T) {
	cache, err := NewResultCache(CacheConfig{InMemory: true})
	require.NoError(t, err)

	t.Cleanup(func() { _ = cache.Close() })

	ctx := context.Background()

	_, hit, err := cache.Get(ctx, "unit")
	require.NoError(t, err)
	assert.False(t, hit)

	report := sampleReport("1b4e28ba-2fa1-11d2-883f-0016d3cca427", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, cache.Put(ctx, "unit", report))

	cached, hit, err := cache.Get(ctx, "unit")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, report, cached)

	_, hit, err = cache.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestResultCache_Persistent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	report := sampleReport("6ba7b810-9dad-11d1-80b4-00c04fd430c8", time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))

	cache, err := NewResultCache(CacheConfig{Path: dir, TTL: time.Hour})
	require.NoError(t, err)
	require.NoError(t, cache.Put(context.Background(), "unit", report))
	require.NoError(t, cache.Close())

	reopened, err := NewResultCache(CacheConfig{Path: dir})
	require.NoError(t, err)

	t.Cleanup(func() { _ = reopened.Close() })

	cached, hit, err := reopened.Get(context.Background(), "unit")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, report.SessionID, cached.SessionID)
}

func TestResultCache_Errors(t *testing.T) {
	_, err := NewResultCache(CacheConfig{})
	require.Error(t, err)

	cache, err := NewResultCache(CacheConfig{InMemory: true})
	require.NoError(t, err)

	t.Cleanup(func() { _ = cache.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = cache.Get(ctx, "unit")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, cache.Put(ctx, "unit", sampleReport("x", time.Now())), context.Canceled)
}

func TestNopResultCache(t *testing.T) {
	var cache ResultCache = NopResultCache{}

	require.NoError(t, cache.Put(context.Background(), "unit", sampleReport("x", time.Now())))

	_, hit, err := cache.Get(context.Background(), "unit")
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, cache.Close())
}
