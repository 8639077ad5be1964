// Package cache holds the idempotency stores that guard print requests
// against duplicate delivery.
package cache

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys for a limited time
type IdempotencyStore interface {
	// Claim records key and reports whether it was unused. A false result
	// means an earlier request with the same key is in flight or succeeded.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets key so a failed request can be retried
	Release(ctx context.Context, key string) error
	Close() error
}
