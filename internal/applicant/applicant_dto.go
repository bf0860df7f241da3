package applicant

type CreateApplicantRequest struct {
	Name                 string `json:"name" binding:"required"`
	Age                  int    `json:"age"`
	Education            string `json:"education"`
	Course               string `json:"course"`
	PositionAppliedFor   string `json:"positionAppliedFor"`
	CollectionExperience string `json:"collectionExperience"`
	Referral             string `json:"referral"`
	ResumeData           string `json:"resumeData"`
	PictureData          string `json:"pictureData"`
}

// UpdateApplicantRequest is a sparse patch; only present fields change.
type UpdateApplicantRequest struct {
	Name                 *string `json:"name"`
	Age                  *int    `json:"age"`
	Education            *string `json:"education"`
	Course               *string `json:"course"`
	PositionAppliedFor   *string `json:"positionAppliedFor"`
	CollectionExperience *string `json:"collectionExperience"`
	Referral             *string `json:"referral"`
	ResumeData           *string `json:"resumeData"`
	PictureData          *string `json:"pictureData"`
	Status               *string `json:"status"`
}
