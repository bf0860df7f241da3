package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"go-ats/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Every(time.Second), 5), handler.Login)
		authGroup.POST("/logout", handler.Logout)
		authGroup.GET("/me", middleware.Auth(service), handler.Me)
	}
}
