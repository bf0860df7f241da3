package audit

import (
	"github.com/gin-gonic/gin"

	"go-ats/internal/domain"
	"go-ats/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, sessions middleware.SessionValidator) {
	audit := r.Group("/audit")
	audit.Use(middleware.Auth(sessions))
	{
		audit.GET("", middleware.RequireRole(domain.RoleAdmin), handler.List)
	}
}
