package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer returns a provider recording every span
func setupTestTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})
	return tp, sr
}

func newTracedRouter(tp *sdktrace.TracerProvider, handler gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{
		Enabled:        true,
		ServiceName:    "test-service",
		TracerProvider: tp,
	}))
	router.Use(SpanErrorMarker())
	router.Use(extra...)
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/invoices/:id", handler)
	return router
}

func findSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	require.Failf(t, "span not found", "no span named %q", name)
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	tp, sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false, TracerProvider: tp}))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingWithConfig_SpanPerRoute(t *testing.T) {
	tp, sr := setupTestTracer(t)
	router := newTracedRouter(tp, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/inv-1", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	span := findSpan(t, sr, "GET /api/v1/invoices/:id")
	assert.Equal(t, codes.Unset, span.Status().Code)

	requestID, ok := spanAttr(span, "request_id")
	require.True(t, ok, "request_id attribute missing")
	assert.Equal(t, "req-123", requestID.AsString())

	_, ok = spanAttr(span, "user_id")
	assert.False(t, ok, "anonymous requests carry no user_id")
}

func TestTracingAttributeInjector_UserID(t *testing.T) {
	tp, sr := setupTestTracer(t)
	setUser := func(c *gin.Context) {
		c.Set(JWTUserIDKey, "admin-1")
		c.Next()
	}
	router := newTracedRouter(tp, func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, setUser)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/invoices/inv-1", nil))

	userID, ok := spanAttr(findSpan(t, sr, "GET /api/v1/invoices/:id"), "user_id")
	require.True(t, ok)
	assert.Equal(t, "admin-1", userID.AsString())
}

func TestSpanErrorMarker_ServerError(t *testing.T) {
	tp, sr := setupTestTracer(t)
	router := newTracedRouter(tp, func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusBadGateway)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/inv-1", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	span := findSpan(t, sr, "GET /api/v1/invoices/:id")
	assert.Equal(t, codes.Error, span.Status().Code)
	status, ok := spanAttr(span, "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusBadGateway), status.AsInt64())
}

func TestSpanErrorMarker_ClientErrorIsNotSpanError(t *testing.T) {
	tp, sr := setupTestTracer(t)
	router := newTracedRouter(tp, func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/invoices/missing", nil))

	span := findSpan(t, sr, "GET /api/v1/invoices/:id")
	assert.NotEqual(t, codes.Error, span.Status().Code)
	status, ok := spanAttr(span, "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusNotFound), status.AsInt64())
}

func TestSpanErrorMarker_WithNoSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanErrorMarker())
	router.Use(TracingAttributeInjector())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "invoice-backend", cfg.ServiceName)
}
