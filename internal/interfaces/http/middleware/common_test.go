package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS_Wildcard(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/api/v1/status", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/api/v1/status", map[string]string{"Origin": "http://pos.local"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.POST("/api/v1/print", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodOptions, "/api/v1/print", map[string]string{"Origin": "http://pos.local"})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_Whitelist(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"http://pos.local"}

	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/", map[string]string{"Origin": "http://pos.local"})
	assert.Equal(t, "http://pos.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))

	w = serve(router, http.MethodGet, "/", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(router, http.MethodOptions, "/", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	t.Run("generates uuid", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/", nil)
		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("propagates client id", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/", map[string]string{RequestIDHeader: "pos-1"})
		assert.Equal(t, "pos-1", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "pos-1", seen)
	})

	t.Run("truncates oversized id", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/", map[string]string{RequestIDHeader: strings.Repeat("a", 500)})
		assert.Len(t, w.Header().Get(RequestIDHeader), MaxRequestIDLength)
	})
}
