package models

import "time"

// VotingSettings is the settings/votingPeriod singleton.
// IsEnabled is a pointer because an absent flag and an explicit false
// are treated differently by the voting gate.
type VotingSettings struct {
	IsEnabled *bool      `json:"isEnabled" firestore:"isEnabled"`
	StartDate *time.Time `json:"startDate" firestore:"startDate"`
	EndDate   *time.Time `json:"endDate" firestore:"endDate"`
}

// Enabled returns the flag, treating an absent value as enabled.
func (s *VotingSettings) Enabled() bool {
	if s == nil || s.IsEnabled == nil {
		return true
	}
	return *s.IsEnabled
}

// PeriodState is the tri-state outcome of the voting gate.
type PeriodState string

const (
	PeriodNotStarted PeriodState = "not-started"
	PeriodOpen       PeriodState = "open"
	PeriodClosed     PeriodState = "closed"
)

// PeriodStatus is the derived view of the settings at a given instant.
type PeriodStatus struct {
	Status  PeriodState `json:"status"`
	Message string      `json:"message"`
	EndDate *time.Time  `json:"endDate"`
}

// IsOpen reports whether votes may be submitted.
func (p PeriodStatus) IsOpen() bool {
	return p.Status == PeriodOpen
}

// Countdown is the remaining time until the end of the voting period.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}
