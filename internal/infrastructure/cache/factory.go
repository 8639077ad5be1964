package cache

import (
	"context"

	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis store when cfg.Addr is set and an
// in-memory store otherwise. When Redis is configured but unreachable the
// in-memory store is used and a warning logged.
func NewIdempotencyStore(ctx context.Context, cfg RedisConfig, logger *zap.Logger) IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		logger.Debug("Using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(0)
	}

	store, err := NewRedisIdempotencyStore(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr), zap.Error(err))
		return NewInMemoryIdempotencyStore(0)
	}

	logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr))
	return store
}
