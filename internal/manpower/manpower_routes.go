package manpower

import (
	"github.com/gin-gonic/gin"

	"go-ats/internal/authz"
	"go-ats/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, sessions middleware.SessionValidator, gate *authz.Gate) {
	requests := r.Group("/manpower-requests", middleware.Auth(sessions))
	{
		requests.GET("", middleware.Authorize(gate, "manpowerRequests", authz.ActionRead), handler.List)
		requests.GET("/:id", middleware.Authorize(gate, "manpowerRequests", authz.ActionRead), handler.Get)
		requests.POST("", middleware.Authorize(gate, "manpowerRequests", authz.ActionCreate), handler.Create)
		requests.PUT("/:id", middleware.Authorize(gate, "manpowerRequests", authz.ActionUpdate), handler.Update)
		requests.DELETE("/:id", middleware.Authorize(gate, "manpowerRequests", authz.ActionDelete), handler.Delete)
	}
}
