package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func reply(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	invoices := NewDomainGroup("invoices", "/invoices").
		GET("", reply("list")).
		POST("/calculate", reply("totals")).
		GET("/:id/export", reply("pdf"))
	health := NewDomainGroup("system", "").GET("/health", reply("healthy"))

	r.Register(invoices).RegisterRoot(health)
	r.Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/invoices", "list"},
		{http.MethodPost, "/api/v1/invoices/calculate", "totals"},
		{http.MethodGet, "/api/v1/invoices/inv-1/export", "pdf"},
		{http.MethodGet, "/health", "healthy"},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.body, w.Body.String())
	}

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/health").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("complaints", "/complaints")
		assert.Equal(t, "complaints", g.Name())
		assert.Equal(t, "/complaints", g.Prefix())
	})

	t.Run("all methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("invoices", "/invoices").
			GET("/:id", reply("get")).
			POST("", reply("post")).
			PUT("/:id/status", reply("put")).
			DELETE("/:id", reply("delete"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "get", serve(engine, http.MethodGet, "/api/v1/invoices/1").Body.String())
		assert.Equal(t, "post", serve(engine, http.MethodPost, "/api/v1/invoices").Body.String())
		assert.Equal(t, "put", serve(engine, http.MethodPut, "/api/v1/invoices/1/status").Body.String())
		assert.Equal(t, "delete", serve(engine, http.MethodDelete, "/api/v1/invoices/1").Body.String())
	})

	t.Run("middleware applies to subgroups and skips nil", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("invoices", "/invoices")
		g.Use(func(c *gin.Context) {
			c.Header("X-Auth", "checked")
			c.Next()
		}, nil)
		g.Group("exports", "/exports").GET("/:id", reply("job"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/invoices/exports/42")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "checked", w.Header().Get("X-Auth"))
		assert.Len(t, g.middleware, 1)
	})
}

func TestDomainGroup_Routes(t *testing.T) {
	g := NewDomainGroup("invoices", "/invoices").
		GET("", reply("")).
		GET("/:id/document", reply(""))
	g.Group("jobs", "/jobs").GET("/:id", reply(""))

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/api/v1/invoices"},
		{Method: http.MethodGet, Path: "/api/v1/invoices/:id/document"},
		{Method: http.MethodGet, Path: "/api/v1/invoices/jobs/:id"},
	}, g.Routes("/api/v1"))
}
