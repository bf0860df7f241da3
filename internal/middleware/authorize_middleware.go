package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ats/internal/shared/response"
)

// PermissionGate is the slice of the authz gate this package needs.
type PermissionGate interface {
	Allowed(role, entity, action string) bool
}

// Authorize enforces the entity-level permission table. Must run after
// Auth. Row-level scoping stays in the services.
func Authorize(gate PermissionGate, entity, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(KeyActorRole)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required", nil)
			c.Abort()
			return
		}

		if !gate.Allowed(role, entity, action) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", map[string]string{
				"required": entity + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
