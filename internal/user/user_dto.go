package user

import "go-ats/internal/domain"

type CreateUserRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=6"`
	Role              string `json:"role" binding:"required"`
	TLAssignmentLimit *int   `json:"tlAssignmentLimit"`
}

type UpdateUserRequest struct {
	Email             *string `json:"email"`
	Password          *string `json:"password"`
	Role              *string `json:"role"`
	TLAssignmentLimit *int    `json:"tlAssignmentLimit"`
}

// UserResponse is the stored user without the credential field.
type UserResponse struct {
	ID                int    `json:"id"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	CreatedAt         string `json:"createdAt,omitempty"`
	LastLogin         string `json:"lastLogin,omitempty"`
	TLAssignmentLimit *int   `json:"tlAssignmentLimit,omitempty"`
}

func toResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		Role:              u.Role,
		CreatedAt:         u.CreatedAt,
		LastLogin:         u.LastLogin,
		TLAssignmentLimit: u.TLAssignmentLimit,
	}
}

func toResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toResponse(u)
	}
	return out
}
