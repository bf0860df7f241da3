package manpowererrors

import (
	"net/http"

	"go-ats/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Manpower request not found",
		http.StatusNotFound,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of pending, approved, rejected",
		http.StatusBadRequest,
	)
	ErrUnknownPosition = apperror.New(
		apperror.CodeInvalidInput,
		"Position is not a recognized position",
		http.StatusBadRequest,
	)
	ErrNegativeLimit = apperror.New(
		apperror.CodeInvalidInput,
		"Limit must be zero or greater",
		http.StatusBadRequest,
	)
)
