package applicanterrors

import (
	"net/http"

	"go-ats/internal/shared/apperror"
)

var (
	ErrApplicantNotFound = apperror.New(
		apperror.CodeNotFound,
		"Applicant not found",
		http.StatusNotFound,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of pending, approved, rejected, assigned",
		http.StatusBadRequest,
	)
)
