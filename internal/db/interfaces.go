package db

import (
	"context"

	"votify-backend-go/internal/ballot"
	"votify-backend-go/internal/models"
)

// Unsubscribe stops a snapshot listener.
type Unsubscribe func()

// UserRepository defines the interface for user profile storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	// Set writes the full profile, creating it if needed.
	Set(ctx context.Context, user *models.User) error
	// UpdateEmail mirrors an identity email change onto the profile.
	UpdateEmail(ctx context.Context, userID, email string) error
	UpdateProfile(ctx context.Context, userID, role string, hasVoted bool) error
	Delete(ctx context.Context, userID string) error
}

// CandidateRepository defines the interface for candidate storage operations.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *models.Candidate) (string, error)
	GetByID(ctx context.Context, candidateID string) (*models.Candidate, error)
	// List returns every candidate ordered by vote count, highest first.
	List(ctx context.Context) ([]*models.Candidate, error)
	// Update writes every editable field. The vote counter is never touched.
	Update(ctx context.Context, candidate *models.Candidate) error
	Delete(ctx context.Context, candidateID string) error
	Voters(ctx context.Context, candidateID string) ([]models.VoterRecord, error)
	// Watch calls fn with the full candidate list on every change until ctx
	// is done or the returned Unsubscribe is called.
	Watch(ctx context.Context, fn func([]*models.Candidate, error)) (Unsubscribe, error)
}

// SettingsRepository stores the settings/votingPeriod singleton.
type SettingsRepository interface {
	// Get returns nil without error when the document does not exist.
	Get(ctx context.Context) (*models.VotingSettings, error)
	Save(ctx context.Context, settings *models.VotingSettings) error
	SetEnabled(ctx context.Context, enabled bool) error
	Watch(ctx context.Context, fn func(*models.VotingSettings, error)) (Unsubscribe, error)
}

// VoteRepository runs the single-vote transaction and the tally reset.
type VoteRepository interface {
	// SubmitVote reads the user and both candidates, validates them with
	// ballot.Build and applies the plan atomically.
	SubmitVote(ctx context.Context, userID, voterEmail, maleID, femaleID string) (*ballot.Plan, error)
	// ResetVotes clears every hasVoted flag and every vote counter.
	ResetVotes(ctx context.Context) (*ResetResult, error)
}

// ResetResult counts the documents touched by ResetVotes.
type ResetResult struct {
	Users      int `json:"users"`
	Candidates int `json:"candidates"`
}

// AuditRepository defines the interface for audit log data storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
	// List returns the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]*models.AuditLog, error)
}
