package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vikalp/backend/internal/infrastructure/auth"
	"github.com/vikalp/backend/internal/infrastructure/logger"
	"github.com/vikalp/backend/internal/interfaces/http/dto"
	"github.com/vikalp/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles session endpoints. Tokens are issued by the record
// store; this service only reads and revokes them.
type AuthHandler struct {
	BaseHandler
	revocations auth.RevocationList
	fallbackTTL time.Duration
	now         func() time.Time
}

// NewAuthHandler creates a new AuthHandler. revocations may be nil, in
// which case logout only acknowledges the request.
func NewAuthHandler(revocations auth.RevocationList, fallbackTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		revocations: revocations,
		fallbackTTL: fallbackTTL,
		now:         time.Now,
	}
}

// SessionResponse describes the signed-in user
type SessionResponse struct {
	UserID    string     `json:"user_id"`
	Username  string     `json:"username,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Me returns the current session
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	resp := SessionResponse{
		UserID:   session.UserID,
		Username: session.Username,
	}
	if claims := middleware.GetJWTClaims(c); claims != nil && claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		resp.ExpiresAt = &exp
	}
	h.Success(c, resp)
}

// Logout revokes the bearer token until it would have expired
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	token := middleware.BearerToken(c)
	if claims == nil || token == "" {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeUnauthorized), dto.ErrCodeUnauthorized, "Authentication required")
		return
	}

	ttl := claims.RemainingTTL(h.now(), h.fallbackTTL)
	if h.revocations != nil && ttl > 0 {
		if err := h.revocations.Revoke(c.Request.Context(), auth.RevocationKey(token, claims), ttl); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	logger.L(c.Request.Context()).Info("User logged out", zap.Duration("remaining_ttl", ttl))
	h.NoContent(c)
}
