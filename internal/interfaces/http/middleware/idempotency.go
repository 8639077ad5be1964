package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/infrastructure/cache"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/logger"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader lets clients retry a print without printing twice
	IdempotencyKeyHeader = "Idempotency-Key"
	// MaxIdempotencyKeyLength caps client supplied keys
	MaxIdempotencyKeyLength = 128
	// DefaultIdempotencyTTL is how long a key blocks repeats
	DefaultIdempotencyTTL = 10 * time.Minute
)

// Idempotency rejects a request whose Idempotency-Key was already used on
// the same route within ttl. Requests without the header pass through. A
// key is released again when the request fails or panics, so the client may
// retry. Store errors are logged and the request is allowed.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency-Key is too long")
			return
		}

		scoped := c.Request.Method + " " + c.FullPath() + " " + key
		ctx := c.Request.Context()
		log := logger.GetGinLogger(c)

		claimed, err := store.Claim(ctx, scoped, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing request", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			log.Info("Duplicate request rejected", zap.String("idempotency_key", key))
			abortWithError(c, http.StatusConflict, dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed")
			return
		}

		completed := false
		defer func() {
			if completed && c.Writer.Status() < http.StatusBadRequest {
				return
			}
			// the request context may already be cancelled
			if err := store.Release(context.WithoutCancel(ctx), scoped); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}()

		c.Next()
		completed = true
	}
}
