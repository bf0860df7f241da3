package user

import (
	"github.com/gin-gonic/gin"

	"go-ats/internal/authz"
	"go-ats/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, sessions middleware.SessionValidator, gate *authz.Gate) {
	users := r.Group("/users", middleware.Auth(sessions))
	{
		users.GET("", middleware.Authorize(gate, "users", authz.ActionRead), handler.List)
		users.GET("/:id", middleware.Authorize(gate, "users", authz.ActionRead), handler.Get)
		users.POST("", middleware.Authorize(gate, "users", authz.ActionCreate), handler.Create)
		users.PUT("/:id", middleware.Authorize(gate, "users", authz.ActionUpdate), handler.Update)
		users.DELETE("/:id", middleware.Authorize(gate, "users", authz.ActionDelete), handler.Delete)
	}
}
