package assignmenterrors

import (
	"fmt"
	"net/http"

	"go-ats/internal/shared/apperror"
)

var (
	ErrApplicantNotFound = apperror.New(
		apperror.CodeNotFound,
		"Applicant not found",
		http.StatusNotFound,
	)
	ErrTeamLeadNotFound = apperror.New(
		apperror.CodeNotFound,
		"Team lead not found",
		http.StatusNotFound,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Assignment not found",
		http.StatusNotFound,
	)

	ErrNoPositionField = apperror.New(
		apperror.CodeConflict,
		"no position field",
		http.StatusConflict,
	)
	ErrAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"already assigned",
		http.StatusConflict,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeConflict,
		"only approved applicants can be assigned",
		http.StatusConflict,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of active, completed, cancelled",
		http.StatusBadRequest,
	)
)

// NoApprovedRequest reports that no approved manpower request with a
// decided limit exists for the team lead and position.
func NoApprovedRequest(position string) *apperror.AppError {
	return apperror.New(
		apperror.CodeConflict,
		fmt.Sprintf("no approved manpower request for %s", position),
		http.StatusConflict,
	)
}

// LimitReached reports that the pooled quota for the team lead and
// position is exhausted.
func LimitReached(position string) *apperror.AppError {
	return apperror.New(
		apperror.CodeConflict,
		fmt.Sprintf("manpower limit reached for %s", position),
		http.StatusConflict,
	)
}
