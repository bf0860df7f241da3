package applicant

import (
	"github.com/gin-gonic/gin"

	"go-ats/internal/authz"
	"go-ats/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, sessions middleware.SessionValidator, gate *authz.Gate) {
	applicants := r.Group("/applicants", middleware.Auth(sessions))
	{
		applicants.GET("", middleware.Authorize(gate, "applicants", authz.ActionRead), handler.List)
		applicants.GET("/:id", middleware.Authorize(gate, "applicants", authz.ActionRead), handler.Get)
		applicants.POST("", middleware.Authorize(gate, "applicants", authz.ActionCreate), handler.Create)
		applicants.PUT("/:id", middleware.Authorize(gate, "applicants", authz.ActionUpdate), handler.Update)
		applicants.DELETE("/:id", middleware.Authorize(gate, "applicants", authz.ActionDelete), handler.Delete)
	}
}
