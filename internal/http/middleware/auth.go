// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer authentication. Auth reads
// "Authorization: Bearer <token>", asks an Authenticator to verify it, and
// stores the caller under the "userID" and "identity" context keys that the
// logger, rate limiter and handlers read.
//
// Browsers cannot set headers on a websocket handshake, so upgrade requests
// may carry the token in the "access_token" query parameter instead.
//
// Rejections are 401 with {"error": <reason>}:
//
//	missing header                         "Authorization required"
//	scheme is not Bearer / empty token     "Invalid authorization"
//	token cannot be verified / lookup fails "Authentication failed"
//	token names a user that does not exist  "Invalid token"
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-doubts-backend/internal/auth"
	"github.com/tbourn/go-doubts-backend/internal/services"
)

const (
	userIDKey   = "userID"
	identityKey = "identity"
)

// Authenticator verifies a bearer token and resolves the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// Auth returns the bearer-token middleware backed by a.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && isWebSocketUpgrade(c.Request) {
			if t := c.Query("access_token"); t != "" {
				header = "Bearer " + t
			}
		}
		if header == "" {
			unauthorized(c, "Authorization required")
			return
		}

		scheme, token, _ := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !strings.EqualFold(scheme, "Bearer") || token == "" {
			unauthorized(c, "Invalid authorization")
			return
		}

		id, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnknownUser) {
				unauthorized(c, "Invalid token")
				return
			}
			if !errors.Is(err, services.ErrAuthFailed) {
				LoggerFrom(c).Warn().Err(err).Msg("authentication lookup failed")
			}
			unauthorized(c, "Authentication failed")
			return
		}

		c.Set(userIDKey, id.UserID)
		c.Set(identityKey, id)
		c.Next()
	}
}

// UserID returns the authenticated user's id, or "" on public routes.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		return asString(v)
	}
	return ""
}

// IdentityFrom returns the authenticated identity stored by Auth.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"request_id": RequestIDFrom(c),
	})
}
