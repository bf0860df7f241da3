package autherrors

import (
	"net/http"

	"go-ats/internal/domain"
	"go-ats/internal/shared/apperror"
)

var (
	ErrCompanyEmailRequired = apperror.New(
		apperror.CodeInvalidInput,
		domain.CompanyEmailError,
		http.StatusBadRequest,
	)
	ErrPasswordRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Password is required",
		http.StatusBadRequest,
	)
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Session token is invalid",
		http.StatusUnauthorized,
	)
	ErrSessionExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Session has expired",
		http.StatusUnauthorized,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
)
