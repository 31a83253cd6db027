package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikalp/backend/internal/interfaces/http/dto"
)

func TestSwaggerProtection(t *testing.T) {
	gin.SetMode(gin.TestMode)

	denyAll := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing bearer token"))
	}
	allowAll := func(c *gin.Context) { c.Next() }

	tests := []struct {
		name     string
		cfg      SwaggerConfig
		jwt      gin.HandlerFunc
		remote   string
		wantCode int
		wantErr  string
	}{
		{"disabled hides the docs", SwaggerConfig{}, nil, "127.0.0.1:1234", http.StatusNotFound, dto.ErrCodeNotFound},
		{"enabled without restrictions", SwaggerConfig{Enabled: true}, nil, "203.0.113.9:1234", http.StatusOK, ""},
		{"listed address", SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, nil, "127.0.0.1:1234", http.StatusOK, ""},
		{"unlisted address", SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, nil, "192.168.1.7:1234", http.StatusForbidden, dto.ErrCodeForbidden},
		{"address inside a listed range", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, nil, "10.4.2.1:1234", http.StatusOK, ""},
		{"only invalid entries deny everyone", SwaggerConfig{Enabled: true, AllowedIPs: []string{"shop-pc", "10.0.0.0/40"}}, nil, "10.4.2.1:1234", http.StatusForbidden, dto.ErrCodeForbidden},
		{"auth required and refused", SwaggerConfig{Enabled: true, RequireAuth: true}, denyAll, "127.0.0.1:1234", http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"auth required and granted", SwaggerConfig{Enabled: true, RequireAuth: true}, allowAll, "127.0.0.1:1234", http.StatusOK, ""},
		{"address checked before auth", SwaggerConfig{Enabled: true, RequireAuth: true, AllowedIPs: []string{"127.0.0.1"}}, allowAll, "192.168.1.7:1234", http.StatusForbidden, dto.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/swagger/*any", SwaggerProtection(tt.cfg, tt.jwt), func(c *gin.Context) {
				c.String(http.StatusOK, "docs")
			})

			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remote
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr == "" {
				assert.Equal(t, "docs", w.Body.String())
				return
			}
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestAllowList_Contains(t *testing.T) {
	list := parseAllowList([]string{" 127.0.0.1 ", "192.168.10.0/24", "::1", "not-an-ip"})

	assert.True(t, list.contains(net.ParseIP("127.0.0.1")))
	assert.True(t, list.contains(net.ParseIP("192.168.10.200")))
	assert.True(t, list.contains(net.ParseIP("::1")))
	assert.False(t, list.contains(net.ParseIP("192.168.11.1")))
	assert.False(t, list.contains(nil))
	assert.Len(t, list.ips, 2)
	assert.Len(t, list.nets, 1)
}
