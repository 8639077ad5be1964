package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Claim(t *testing.T) {
	store := NewInMemoryIdempotencyStore(0)
	defer store.Close()

	ctx := context.Background()

	t.Run("claims unused key", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects claimed key", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = store.Claim(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("allows reclaim after expiration", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-3", 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		ok, err = store.Claim(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("allows reclaim after release", func(t *testing.T) {
		ok, _ := store.Claim(ctx, "key-4", time.Hour)
		require.True(t, ok)

		require.NoError(t, store.Release(ctx, "key-4"))

		ok, err := store.Claim(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore(0)
	defer store.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Claim(context.Background(), "shared", time.Hour); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }

	ctx := context.Background()
	_, _ = store.Claim(ctx, "short", time.Minute)
	_, _ = store.Claim(ctx, "long", time.Hour)
	assert.Equal(t, 2, store.Size())

	now = now.Add(2 * time.Minute)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore(0)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
