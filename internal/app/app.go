// Package app assembles the HTTP API from its feature slices.
package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-ats/internal/applicant"
	"go-ats/internal/assignment"
	"go-ats/internal/audit"
	"go-ats/internal/auth"
	"go-ats/internal/config"
	"go-ats/internal/manpower"
	"go-ats/internal/middleware"
	"go-ats/internal/settings"
	"go-ats/internal/shared/response"
	"go-ats/internal/upload"
	"go-ats/internal/user"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg config.Config, reg *Registry, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RateLimitByIP(rate.Every(time.Second/20), 40))

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	api := r.Group("/api")
	{
		auth.RegisterRoutes(api, reg.AuthHandler, reg.AuthService)
		user.RegisterRoutes(api, reg.UserHandler, reg.AuthService, reg.Gate)
		applicant.RegisterRoutes(api, reg.ApplicantHandler, reg.AuthService, reg.Gate)
		manpower.RegisterRoutes(api, reg.ManpowerHandler, reg.AuthService, reg.Gate)
		assignment.RegisterRoutes(api, reg.AssignmentHandler, reg.AuthService, reg.Gate, reg.Redis)
		settings.RegisterRoutes(api, reg.SettingsHandler, reg.AuthService, reg.Gate)
		audit.RegisterRoutes(api, reg.AuditHandler, reg.AuthService)
		upload.RegisterRoutes(api, reg.UploadHandler, reg.AuthService, reg.UploadService)
	}

	return r
}
