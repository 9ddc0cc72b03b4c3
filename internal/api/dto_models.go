package api

import (
	"votify-backend-go/internal/models"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// MessageResponse is the reply of the account endpoints, for both success
// and failure.
type MessageResponse struct {
	Message string `json:"message"`
}

// VotingStatusResponse is the gate result plus the time left when the
// period is open.
type VotingStatusResponse struct {
	models.PeriodStatus
	Countdown *models.Countdown `json:"countdown,omitempty"`
}

// SettingsResponse pairs the stored period with its evaluated status.
type SettingsResponse struct {
	Settings *models.VotingSettings `json:"settings"`
	Status   models.PeriodStatus    `json:"status"`
}

// ResetResponse reports how many documents the reset touched.
type ResetResponse struct {
	Message    string `json:"message"`
	Users      int    `json:"users"`
	Candidates int    `json:"candidates"`
}
