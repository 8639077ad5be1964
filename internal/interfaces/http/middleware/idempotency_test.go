package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/infrastructure/cache"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}
func (failingStore) Release(context.Context, string) error { return nil }
func (failingStore) Close() error                          { return nil }

func newIdempotencyRouter(store cache.IdempotencyStore, status *int, calls *int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.POST("/api/v1/print", Idempotency(store, time.Minute), func(c *gin.Context) {
		*calls++
		c.JSON(*status, gin.H{"success": *status < http.StatusBadRequest})
	})
	return router
}

func postPrint(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/print", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("passes through without header", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Hour)
		defer store.Close()
		status, calls := http.StatusOK, 0
		router := newIdempotencyRouter(store, &status, &calls)

		assert.Equal(t, http.StatusOK, postPrint(router, "").Code)
		assert.Equal(t, http.StatusOK, postPrint(router, "").Code)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 0, store.Size())
	})

	t.Run("rejects repeated key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Hour)
		defer store.Close()
		status, calls := http.StatusOK, 0
		router := newIdempotencyRouter(store, &status, &calls)

		assert.Equal(t, http.StatusOK, postPrint(router, "order-42").Code)
		w := postPrint(router, "order-42")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 1, calls)
		var body dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrCodeDuplicateRequest, body.Error.Code)
		assert.NotEmpty(t, body.Error.RequestID)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Hour)
		defer store.Close()
		status, calls := http.StatusOK, 0
		router := newIdempotencyRouter(store, &status, &calls)

		assert.Equal(t, http.StatusOK, postPrint(router, "a").Code)
		assert.Equal(t, http.StatusOK, postPrint(router, "b").Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("failed request releases key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Hour)
		defer store.Close()
		status, calls := http.StatusServiceUnavailable, 0
		router := newIdempotencyRouter(store, &status, &calls)

		assert.Equal(t, http.StatusServiceUnavailable, postPrint(router, "retry-me").Code)
		assert.Equal(t, 0, store.Size())

		status = http.StatusOK
		assert.Equal(t, http.StatusOK, postPrint(router, "retry-me").Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("rejects oversized key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Hour)
		defer store.Close()
		status, calls := http.StatusOK, 0
		router := newIdempotencyRouter(store, &status, &calls)

		w := postPrint(router, strings.Repeat("k", MaxIdempotencyKeyLength+1))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, calls)

		var body dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrCodeInvalidInput, body.Error.Code)
	})

	t.Run("store failure lets request through", func(t *testing.T) {
		status, calls := http.StatusOK, 0
		router := newIdempotencyRouter(failingStore{}, &status, &calls)

		assert.Equal(t, http.StatusOK, postPrint(router, "k").Code)
		assert.Equal(t, http.StatusOK, postPrint(router, "k").Code)
		assert.Equal(t, 2, calls)
	})
}

func TestIdempotency_PanicReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	calls := 0
	router := gin.New()
	router.Use(gin.RecoveryWithWriter(io.Discard), RequestID())
	router.POST("/api/v1/print", Idempotency(store, time.Minute), func(c *gin.Context) {
		calls++
		if calls == 1 {
			panic("renderer crashed")
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	assert.Equal(t, http.StatusInternalServerError, postPrint(router, "crash").Code)
	assert.Equal(t, 0, store.Size())

	assert.Equal(t, http.StatusOK, postPrint(router, "crash").Code)
	assert.Equal(t, 2, calls)
}
