package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ldurand/contacthub/internal/auth"
)

// StatusTokenRejected is deliberately distinct from 401: clients can tell
// "never logged in" from "session expired or tampered" and clear their
// stored token before redirecting to login.
const StatusTokenRejected = 498

var (
	ErrMissingHeader = errors.New("missing authorization header")
	ErrNotBearer     = errors.New("authorization scheme is not Bearer")
	ErrEmptyToken    = errors.New("empty bearer token")
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
	log *slog.Logger
}

func NewAuthMiddleware(jwt TokenVerifier, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, log: log}
}

// ParseBearer extracts the raw token from an Authorization header value.
// The scheme match is exact and case-sensitive: "Bearer <token>".
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}

	scheme, token, found := strings.Cut(header, " ")

	if !found || scheme != "Bearer" {
		return "", ErrNotBearer
	}

	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// RequireAuth gates protected routes. Header problems are 401; a well-formed
// token that fails cryptographic verification or expiry is 498. No store
// lookup happens here: authentication is purely stateless.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := ParseBearer(c.GetHeader("Authorization"))

		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized access",
			})
			return
		}

		claims, err := m.jwt.Verify(raw)

		if err != nil {
			// expired vs tampered stays visible in logs, never to the client
			if m.log != nil {
				reason := "invalid"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired"
				}
				m.log.InfoContext(c.Request.Context(), "token rejected", "reason", reason)
			}

			c.AbortWithStatusJSON(StatusTokenRejected, gin.H{
				"success": false,
				"error":   "Invalid token",
			})
			return
		}

		// Stash the resolved identity on the context
		c.Set(CtxEmail, claims.Email)

		c.Next()
	}
}

// Helper so handlers don't need to know the magic key.

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxEmail)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
