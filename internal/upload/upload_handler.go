package upload

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ats/internal/shared/apperror"
	"go-ats/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("upload.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("upload.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		mapped := apperror.ToHTTP(apperror.RequiredField("File"))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	url, err := h.service.Save(file)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, nil)
}
