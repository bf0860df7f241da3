package upload

import (
	"github.com/gin-gonic/gin"

	"go-ats/internal/domain"
	"go-ats/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, sessions middleware.SessionValidator, service Service) {
	r.POST("/uploads",
		middleware.Auth(sessions),
		middleware.RequireRole(domain.RoleAdmin, domain.RoleHR, domain.RoleTeamLead),
		handler.Upload,
	)
	r.Static("/uploads", service.Dir())
}
