package settings

import (
	"github.com/gin-gonic/gin"

	"go-ats/internal/authz"
	"go-ats/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, sessions middleware.SessionValidator, gate *authz.Gate) {
	group := r.Group("/settings", middleware.Auth(sessions))
	{
		group.GET("", middleware.Authorize(gate, "settings", authz.ActionRead), handler.Get)
		group.PUT("", middleware.Authorize(gate, "settings", authz.ActionUpdate), handler.Update)
	}
}
