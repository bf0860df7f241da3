package assignment

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-ats/internal/middleware"
	"go-ats/internal/shared/apperror"
	"go-ats/internal/shared/response"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("assignment.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		mapped := apperror.ToHTTP(apperror.InvalidField("Id"))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) List(c *gin.Context) {
	assignments, err := h.service.List(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignments, nil)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a, nil)
}

func (h *Handler) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		h.releaseIdempotencyLock(c)
		return
	}

	result, err := h.service.Claim(c.Request.Context(), middleware.Actor(c), req.ApplicantID, req.TeamLeadEmail)
	if err != nil {
		h.writeServiceError(c, err)
		h.releaseIdempotencyLock(c)
		return
	}

	h.finishIdempotency(c, result)
	response.Success(c, http.StatusCreated, result, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

// finishIdempotency caches the successful claim under the request's
// idempotency key so a retry replays the same result instead of
// consuming another manpower slot.
func (h *Handler) finishIdempotency(c *gin.Context, result ClaimResult) {
	cacheKey := c.GetString(middleware.KeyIdempotencyCache)
	if h.rdb == nil || cacheKey == "" {
		return
	}

	payload, err := json.Marshal(result)
	if err == nil {
		if err := h.rdb.Set(c.Request.Context(), cacheKey, payload, 24*time.Hour).Err(); err != nil {
			h.logger.Warn("cache idempotent response failed", zap.Error(err))
		}
	}
	h.releaseIdempotencyLock(c)
}

func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	lockKey := c.GetString(middleware.KeyIdempotencyLock)
	if h.rdb == nil || lockKey == "" {
		return
	}
	if err := h.rdb.Del(c.Request.Context(), lockKey).Err(); err != nil {
		h.logger.Warn("release idempotency lock failed", zap.Error(err))
	}
}
