package assignment

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-ats/internal/authz"
	"go-ats/internal/domain"
	"go-ats/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, sessions middleware.SessionValidator, gate *authz.Gate, rdb *redis.Client) {
	assignments := r.Group("/assignments", middleware.Auth(sessions))
	{
		assignments.GET("", middleware.Authorize(gate, "assignments", authz.ActionRead), handler.List)
		assignments.GET("/:id", middleware.Authorize(gate, "assignments", authz.ActionRead), handler.Get)
		assignments.PUT("/:id", middleware.Authorize(gate, "assignments", authz.ActionUpdate), handler.Update)
		assignments.DELETE("/:id", middleware.Authorize(gate, "assignments", authz.ActionDelete), handler.Delete)

		// Claiming is how team leads acquire applicants, so it is open to
		// them alongside admins; the service pins a team lead's claim to
		// their own identity.
		assignments.POST("/claim",
			middleware.RequireRole(domain.RoleAdmin, domain.RoleTeamLead),
			middleware.Idempotency(rdb),
			handler.Claim,
		)
	}
}
