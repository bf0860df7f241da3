package upload

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-ats/internal/shared/apperror"
)

// MaxFileSize caps resume and picture uploads.
const MaxFileSize = 10 << 20 // 10 MiB

var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
}

var (
	errFileTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"File exceeds the 10 MB limit",
		http.StatusBadRequest,
	)
	errUnsupportedType = apperror.New(
		apperror.CodeInvalidInput,
		"Only PDF, PNG and JPEG files are accepted",
		http.StatusBadRequest,
	)
)

type Service interface {
	// Save stores the uploaded file under a generated name and returns
	// the public URL path it will be served from.
	Save(file *multipart.FileHeader) (string, error)
	// Dir is the directory uploads are written to; the router mounts it
	// as a static file root.
	Dir() string
}

type service struct {
	dir    string
	logger *zap.Logger
}

func NewService(dir string, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("upload.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("upload.service")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &service{dir: dir, logger: l}, nil
}

func (s *service) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > MaxFileSize {
		return "", errFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", errUnsupportedType
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		os.Remove(dst)
		return "", err
	}

	s.logger.Info("file stored",
		zap.String("name", name),
		zap.String("content_type", contentType),
		zap.Int64("size", file.Size),
	)
	return "/uploads/" + name, nil
}

func (s *service) Dir() string { return s.dir }
