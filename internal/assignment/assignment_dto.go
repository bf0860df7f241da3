package assignment

import "go-ats/internal/domain"

type ClaimRequest struct {
	ApplicantID int `json:"applicantId" binding:"required,min=1"`
	// TeamLeadEmail is honored for admins only; team leads always claim
	// for themselves.
	TeamLeadEmail string `json:"teamLeadEmail"`
}

// ClaimResult is the pair the claim operation returns.
type ClaimResult struct {
	Assignment domain.Assignment `json:"assignment"`
	Applicant  domain.Applicant  `json:"applicant"`
}

type UpdateAssignmentRequest struct {
	Status *string `json:"status"`
}
