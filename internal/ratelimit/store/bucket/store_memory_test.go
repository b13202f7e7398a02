package bucket

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_AllowsUpToLimit(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := store.Allow(ctx, "client-a", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "call %d should be allowed", i+1)
		assert.Equal(t, 5-(i+1), result.Remaining)
	}

	result, err := store.Allow(ctx, "client-a", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed, "call over the limit must be denied")
	assert.Equal(t, 0, result.Remaining)
	assert.GreaterOrEqual(t, result.RetryAfter, 1)
}

func TestInMemoryStore_WindowExpiryResets(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	window := 30 * time.Millisecond

	for i := 0; i < 2; i++ {
		_, err := store.Allow(ctx, "client-a", 2, window)
		require.NoError(t, err)
	}
	denied, err := store.Allow(ctx, "client-a", 2, window)
	require.NoError(t, err)
	require.False(t, denied.Allowed)

	time.Sleep(window + 10*time.Millisecond)

	result, err := store.Allow(ctx, "client-a", 2, window)
	require.NoError(t, err)
	assert.True(t, result.Allowed, "window elapsed, counter must reset")
	assert.Equal(t, 1, result.Remaining)
}

func TestInMemoryStore_IdentifiersAreIndependent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	denied, err := store.Allow(ctx, "client-a", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, denied.Allowed)
	denied, err = store.Allow(ctx, "client-a", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, denied.Allowed)

	other, err := store.Allow(ctx, "client-b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "client-b has its own window")
}

// Concurrent callers sharing one identifier must never over-admit: with N
// slots and 4N goroutines, exactly N may pass.
func TestInMemoryStore_ConcurrentCheckAndIncrement(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	const limit = 25
	const goroutines = 100

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := store.Allow(ctx, "shared", limit, time.Minute)
			if err == nil && result.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), allowed.Load())
}

func TestInMemoryStore_SweepRemovesStaleWindows(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	window := 10 * time.Millisecond

	_, err := store.Allow(ctx, "stale", 5, window)
	require.NoError(t, err)

	time.Sleep(window + 5*time.Millisecond)

	_, err = store.Allow(ctx, "fresh", 5, window)
	require.NoError(t, err)

	removed := store.Sweep(window)
	assert.Equal(t, 1, removed, "only the stale window is swept")
}

func TestInMemoryStore_LenTracksWindows(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	window := 10 * time.Millisecond

	assert.Equal(t, 0, store.Len())

	_, err := store.Allow(ctx, "client-a", 5, window)
	require.NoError(t, err)
	_, err = store.Allow(ctx, "client-b", 5, window)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	time.Sleep(window + 5*time.Millisecond)
	store.Sweep(window)
	assert.Equal(t, 0, store.Len(), "swept windows leave the count")
}

func TestInMemoryStore_Reset(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_, err := store.Allow(ctx, "client-a", 1, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "client-a"))

	result, err := store.Allow(ctx, "client-a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
