package manpower

type CreateRequestRequest struct {
	Position string `json:"position" binding:"required"`
	Count    int    `json:"count" binding:"required,min=1"`
}

// UpdateRequestRequest is a sparse patch. Limit arriving as a value
// means an admin has decided the request's ceiling; a request with no
// decided limit never admits claims.
type UpdateRequestRequest struct {
	Position *string `json:"position"`
	Count    *int    `json:"count"`
	Limit    *int    `json:"limit"`
	Status   *string `json:"status"`
}
