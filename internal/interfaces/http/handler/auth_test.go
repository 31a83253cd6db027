package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikalp/backend/internal/infrastructure/auth"
	"github.com/vikalp/backend/internal/interfaces/http/dto"
	"github.com/vikalp/backend/internal/interfaces/http/middleware"
)

var authNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// brokenRevocations fails every call
type brokenRevocations struct{}

func (brokenRevocations) Revoke(context.Context, string, time.Duration) error {
	return errors.New("redis: connection refused")
}

func (brokenRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

// withClaims stands in for the JWT middleware, storing claims when set
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
		}
		c.Next()
	}
}

func setupAuthRouter(h *AuthHandler, claims *auth.Claims) *gin.Engine {
	h.now = func() time.Time { return authNow }
	r := newTestEngine()
	r.Use(withClaims(claims))
	r.GET("/auth/me", h.Me)
	r.POST("/auth/logout", h.Logout)
	return r
}

func testClaims(expiresIn time.Duration) *auth.Claims {
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Subject:   testSession.UserID,
			ExpiresAt: jwt.NewNumericDate(authNow.Add(expiresIn)),
		},
		Username: testSession.Username,
	}
}

func logoutRequest(t *testing.T, r http.Handler, token string) int {
	t.Helper()
	req := newRequest(t, http.MethodPost, "/auth/logout")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(r, req).Code
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(nil, time.Hour)
	r := setupAuthRouter(h, testClaims(30*time.Minute))

	w := doRequest(t, r, http.MethodGet, "/auth/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"user_id":"u-1"`)
	assert.Contains(t, body, `"username":"counter"`)
	assert.Contains(t, body, `"expires_at":"2025-06-01T10:30:00Z"`)
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the token for its remaining lifetime", func(t *testing.T) {
		revocations := auth.NewInMemoryRevocationList()
		h := NewAuthHandler(revocations, time.Hour)
		claims := testClaims(30 * time.Minute)
		r := setupAuthRouter(h, claims)

		assert.Equal(t, http.StatusNoContent, logoutRequest(t, r, "the-token"))

		revoked, err := revocations.IsRevoked(context.Background(), auth.RevocationKey("the-token", claims))
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("expired token is acknowledged without revoking", func(t *testing.T) {
		revocations := auth.NewInMemoryRevocationList()
		h := NewAuthHandler(revocations, time.Hour)
		claims := testClaims(-time.Minute)
		r := setupAuthRouter(h, claims)

		assert.Equal(t, http.StatusNoContent, logoutRequest(t, r, "old-token"))

		revoked, err := revocations.IsRevoked(context.Background(), auth.RevocationKey("old-token", claims))
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("without a revocation list", func(t *testing.T) {
		h := NewAuthHandler(nil, time.Hour)
		r := setupAuthRouter(h, testClaims(time.Minute))

		assert.Equal(t, http.StatusNoContent, logoutRequest(t, r, "the-token"))
	})

	t.Run("requires a session", func(t *testing.T) {
		h := NewAuthHandler(auth.NewInMemoryRevocationList(), time.Hour)
		r := setupAuthRouter(h, nil)

		w := serve(r, newRequest(t, http.MethodPost, "/auth/logout"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp, _ := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("revocation store failure", func(t *testing.T) {
		h := NewAuthHandler(brokenRevocations{}, time.Hour)
		r := setupAuthRouter(h, testClaims(time.Minute))

		assert.Equal(t, http.StatusInternalServerError, logoutRequest(t, r, "the-token"))
	})
}
