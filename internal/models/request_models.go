package models

import "time"

// CreateCandidateRequest represents the request body for creating a candidate.
type CreateCandidateRequest struct {
	Name        string `json:"name" binding:"required"`
	Position    string `json:"position" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Workplace   string `json:"workplace,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateCandidateRequest represents the request body for updating a candidate.
// Pointers distinguish between empty values and fields not provided.
type UpdateCandidateRequest struct {
	Name        *string `json:"name,omitempty"`
	Position    *string `json:"position,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Workplace   *string `json:"workplace,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SubmitVoteRequest is the ballot: one candidate per category.
type SubmitVoteRequest struct {
	MaleCandidateID   string `json:"maleCandidateId"`
	FemaleCandidateID string `json:"femaleCandidateId"`
}

// CreateUserRequest is the body of the create-user endpoint.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the body of the update-user endpoint.
type UpdateUserRequest struct {
	UID      string `json:"uid"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// DeleteUserRequest is the body of the delete-user endpoint.
type DeleteUserRequest struct {
	UID string `json:"uid"`
}

// UpdateProfileRequest edits the profile-only fields of a user.
type UpdateProfileRequest struct {
	Role     string `json:"role" binding:"required"`
	HasVoted bool   `json:"hasVoted"`
}

// SaveVotingPeriodRequest sets the voting window.
type SaveVotingPeriodRequest struct {
	IsEnabled bool       `json:"isEnabled"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// ToggleVotingPeriodRequest flips only the enabled flag.
type ToggleVotingPeriodRequest struct {
	IsEnabled *bool `json:"isEnabled" binding:"required"`
}
