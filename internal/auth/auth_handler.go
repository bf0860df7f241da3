package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ats/internal/middleware"
	"go-ats/internal/shared/apperror"
	"go-ats/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	token, actor, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		h.writeServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)

	response.Success(c, http.StatusOK, LoginResponse{
		ID:    actor.ID,
		Email: actor.Email,
		Role:  actor.Role,
	}, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	token := tokenFromRequest(c)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"loggedOut": true}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	actor := middleware.Actor(c)
	response.Success(c, http.StatusOK, LoginResponse{
		ID:    actor.ID,
		Email: actor.Email,
		Role:  actor.Role,
	}, nil)
}

func tokenFromRequest(c *gin.Context) string {
	if bearer, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found {
		return bearer
	}
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		return cookie
	}
	return ""
}
