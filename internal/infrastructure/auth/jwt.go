// Package auth verifies the bearer tokens issued by the record store and
// turns them into the session passed along with every collaborator call.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims are the claims of an admin token. The record store signs tokens
// with "id" and "email"; tokens minted here use "sub" and "username".
type Claims struct {
	jwt.RegisteredClaims
	ID       string `json:"id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Principal returns the user ID from whichever claim carries it
func (c *Claims) Principal() string {
	for _, v := range []string{c.ID, c.UserID, c.RegisteredClaims.Subject} {
		if v != "" {
			return v
		}
	}
	return ""
}

// DisplayName returns the best available user name
func (c *Claims) DisplayName() string {
	for _, v := range []string{c.Username, c.Email, c.Name} {
		if v != "" {
			return v
		}
	}
	return ""
}

// RemainingTTL returns the time until the token expires, or fallback when it has no expiry
func (c *Claims) RemainingTTL(now time.Time, fallback time.Duration) time.Duration {
	if c.ExpiresAt == nil {
		return fallback
	}
	if remaining := c.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// JWTService verifies and issues HMAC-signed admin tokens
type JWTService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewJWTService creates a JWT service from the jwt config section
func NewJWTService(cfg config.JWTConfig) *JWTService {
	expiration := cfg.AccessTokenExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &JWTService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken issues a token for userID. Used by tooling and tests; the
// record store remains the normal issuer.
func (s *JWTService) GenerateToken(userID, username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateToken verifies the signature and time claims of tokenString
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithTimeFunc(s.now),
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	// Tokens from the record store carry no issuer; a foreign one is rejected
	if s.issuer != "" && claims.Issuer != "" && claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}
	if claims.Principal() == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// Session validates tokenString and returns the session it grants
func (s *JWTService) Session(tokenString string) (shared.Session, *Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return shared.Session{}, nil, err
	}
	return shared.Session{
		Token:    tokenString,
		UserID:   claims.Principal(),
		Username: claims.DisplayName(),
	}, claims, nil
}

// Expiration returns the lifetime of tokens issued by GenerateToken
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

// RevocationKey identifies a token in the revocation list: its jti when
// present, otherwise a hash of the token itself
func RevocationKey(tokenString string, claims *Claims) string {
	if claims != nil && claims.RegisteredClaims.ID != "" {
		return "jti:" + claims.RegisteredClaims.ID
	}
	sum := sha256.Sum256([]byte(tokenString))
	return "sha:" + hex.EncodeToString(sum[:])
}
