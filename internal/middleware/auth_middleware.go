package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-ats/internal/domain"
	"go-ats/internal/shared/contextutil"
	"go-ats/internal/shared/response"
)

// Gin context keys set by Auth.
const (
	KeyActorID    = "actor_id"
	KeyActorEmail = "actor_email"
	KeyActorRole  = "actor_role"
)

// SessionCookie carries the session token between requests. A bearer
// header is accepted as an alternative for non-browser clients.
const SessionCookie = "session_token"

// SessionValidator resolves a raw token to the acting user. The auth
// service implements it; using a local interface keeps this package
// from importing the feature.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (domain.Actor, error)
}

// Auth authenticates the request and stores the actor in the gin
// context and the request context.
func Auth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if bearer, found := strings.CutPrefix(authHeader, "Bearer "); found {
			token = bearer
		}
		if token == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie
			}
		}

		if token == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required", nil)
			c.Abort()
			return
		}

		actor, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Session is invalid or expired", nil)
			c.Abort()
			return
		}

		c.Set(KeyActorID, actor.ID)
		c.Set(KeyActorEmail, actor.Email)
		c.Set(KeyActorRole, actor.Role)

		ctx := contextutil.WithActorEmail(c.Request.Context(), actor.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allow list.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(KeyActorRole)

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", nil)
		c.Abort()
	}
}

// Actor rebuilds the acting user from the gin context.
func Actor(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:    c.GetInt(KeyActorID),
		Email: c.GetString(KeyActorEmail),
		Role:  c.GetString(KeyActorRole),
	}
}
