package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisIdempotencyStore_Claim(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisIdempotencyStoreWithClient(client, "")
	defer store.Close()

	ctx := context.Background()

	ok, err := store.Claim(ctx, "receipt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(DefaultKeyPrefix+"receipt-1"))
	assert.Equal(t, time.Minute, mr.TTL(DefaultKeyPrefix+"receipt-1"))

	ok, err = store.Claim(ctx, "receipt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = store.Claim(ctx, "receipt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisIdempotencyStore_Release(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisIdempotencyStoreWithClient(client, "test:")
	defer store.Close()

	ctx := context.Background()
	ok, err := store.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("test:k"))

	require.NoError(t, store.Release(ctx, "k"))
	assert.False(t, mr.Exists("test:k"))

	ok, err = store.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisIdempotencyStore_ServerDown(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisIdempotencyStoreWithClient(client, "")
	defer store.Close()
	mr.Close()

	_, err := store.Claim(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}

func TestNewRedisIdempotencyStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := NewRedisIdempotencyStore(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer store.Close()

	ok, err := store.Claim(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewIdempotencyStore(t *testing.T) {
	t.Run("in-memory without address", func(t *testing.T) {
		store := NewIdempotencyStore(context.Background(), RedisConfig{}, nil)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("redis when reachable", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		t.Cleanup(mr.Close)

		store := NewIdempotencyStore(context.Background(), RedisConfig{Addr: mr.Addr()}, nil)
		defer store.Close()
		assert.IsType(t, &RedisIdempotencyStore{}, store)
	})

	t.Run("falls back when unreachable", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		core, logs := observer.New(zap.WarnLevel)
		store := NewIdempotencyStore(context.Background(), RedisConfig{Addr: addr}, zap.New(core))
		defer store.Close()

		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		assert.Equal(t, 1, logs.Len())
	})
}
