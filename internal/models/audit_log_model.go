package models

import "time"

// AuditLog represents an admin action recorded for later review.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	UserID     string                 `json:"userId" firestore:"userId"` // Who performed the action
	Action     string                 `json:"action" firestore:"action"` // e.g., "CANDIDATE_CREATE", "VOTES_RESET"
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}

// Audit target types.
const (
	TargetCandidate = "CANDIDATE"
	TargetUser      = "USER"
	TargetSettings  = "SETTINGS"
	TargetVotes     = "VOTES"
)
