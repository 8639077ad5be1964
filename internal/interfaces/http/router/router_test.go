package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.APIPrefix())
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.root)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
	assert.Equal(t, "/api/v2", r.APIPrefix())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	api := NewDomainGroup("print", "")
	api.POST("/print", func(c *gin.Context) {
		c.String(http.StatusOK, "printed")
	})

	root := NewDomainGroup("system", "")
	root.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.Register(api).RegisterRoot(root)
	r.Setup()

	w := serve(engine, http.MethodPost, "/api/v1/print")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "printed", w.Body.String())

	w = serve(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodPost, "/print")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("print", "/print")
		assert.Equal(t, "print", g.Name())
		assert.Equal(t, "/print", g.Prefix())
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("print", "/print")
		g.Group("jobs", "/jobs").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "jobs")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/print/jobs")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jobs", w.Body.String())
	})
}

func TestDomainGroup_Describe(t *testing.T) {
	g := NewDomainGroup("test", "")
	g.Describe("ignored without routes")
	g.GET("/a", func(c *gin.Context) {}).Describe("first").
		POST("/b", func(c *gin.Context) {})

	endpoints := g.Endpoints("/api/v1")
	require.Len(t, endpoints, 2)
	assert.Equal(t, Endpoint{Method: "GET", Path: "/api/v1/a", Description: "first"}, endpoints[0])
	assert.Equal(t, Endpoint{Method: "POST", Path: "/api/v1/b"}, endpoints[1])
}

func TestRouterEndpoints(t *testing.T) {
	r := NewRouter(gin.New())

	api := NewDomainGroup("print", "")
	api.GET("/status", func(c *gin.Context) {}).Describe("Readiness")
	api.POST("/print", func(c *gin.Context) {}).Describe("Print a receipt")
	api.Group("jobs", "/jobs").GET("/", func(c *gin.Context) {})

	root := NewDomainGroup("system", "")
	root.GET("/", func(c *gin.Context) {}).Describe("Service info")
	root.GET("/health", func(c *gin.Context) {})

	r.Register(api).RegisterRoot(root)

	var keys []string
	for _, e := range r.Endpoints() {
		keys = append(keys, e.Key())
	}
	assert.Equal(t, []string{
		"GET /",
		"GET /api/v1/jobs/",
		"POST /api/v1/print",
		"GET /api/v1/status",
		"GET /health",
	}, keys)
}

func TestChainedMethodCalls(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("test", "/test")
	g.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
		POST("/b", func(c *gin.Context) { c.String(http.StatusOK, "b") })

	r.Register(g).Setup()

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/test/a"},
		{"POST", "/api/v1/test/b"},
	}

	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "Route %s %s should work", tt.method, tt.path)
	}
}
