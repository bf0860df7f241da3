package usererrors

import (
	"net/http"

	"go-ats/internal/domain"
	"go-ats/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"A user with this email already exists",
		http.StatusConflict,
	)
	ErrCompanyEmailRequired = apperror.New(
		apperror.CodeInvalidInput,
		domain.CompanyEmailError,
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be one of boss, hr, team-lead, admin",
		http.StatusBadRequest,
	)
)
