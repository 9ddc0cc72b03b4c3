package core

import (
	"context"
	"io"
	"time"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/identity"
	"votify-backend-go/internal/models"
)

// IdentityProvider manages accounts in the external identity service.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	UpdateAccount(ctx context.Context, uid, email, password string) error
	DeleteAccount(ctx context.Context, uid string) error
	GetAccount(ctx context.Context, uid string) (*identity.Account, error)
}

// EventPublisher delivers domain events after they are committed.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// UserService defines the interface for user account and profile operations.
type UserService interface {
	CreateUser(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.User, error)
	UpdateAccount(ctx context.Context, actorID string, req models.UpdateUserRequest) error
	UpdateProfile(ctx context.Context, actorID, userID string, req models.UpdateProfileRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// ResolveSession pairs a verified identity with its profile. A missing
	// profile yields a session with a nil Profile, not an error.
	ResolveSession(ctx context.Context, uid, email string) (*models.Session, error)
}

// CandidateService defines the interface for candidate management.
type CandidateService interface {
	Create(ctx context.Context, actorID string, req models.CreateCandidateRequest) (*models.Candidate, error)
	Update(ctx context.Context, actorID, candidateID string, req models.UpdateCandidateRequest) (*models.Candidate, error)
	Delete(ctx context.Context, actorID, candidateID string) error
	List(ctx context.Context) ([]*models.Candidate, error)
	Get(ctx context.Context, candidateID string) (*models.Candidate, error)
	Voters(ctx context.Context, candidateID string) ([]models.VoterRecord, error)
	Catalog(ctx context.Context, query string) (*models.Catalog, error)
}

// SettingsService manages the voting period singleton.
type SettingsService interface {
	Get(ctx context.Context) (*models.VotingSettings, models.PeriodStatus, error)
	Status(ctx context.Context) (models.PeriodStatus, error)
	SavePeriod(ctx context.Context, actorID string, req models.SaveVotingPeriodRequest) (*models.VotingSettings, error)
	SetEnabled(ctx context.Context, actorID string, enabled bool) error
	// Watch calls fn with the evaluated status on every settings change.
	Watch(ctx context.Context, fn func(models.PeriodStatus, error)) (db.Unsubscribe, error)
	Location() *time.Location
}

// VotingService runs the vote submission flow.
type VotingService interface {
	SubmitVote(ctx context.Context, session *models.Session, req models.SubmitVoteRequest) (*models.VoteReceipt, error)
}

// ReportService builds tallies and exports.
type ReportService interface {
	Summary(ctx context.Context) (*models.ReportSummary, error)
	Reset(ctx context.Context, actorID string) (*db.ResetResult, error)
	Export(ctx context.Context, format string, w io.Writer) (string, error)
	Watch(ctx context.Context, fn func(*models.ReportSummary, error)) (db.Unsubscribe, error)
	// InvalidateCache drops the cached summary.
	InvalidateCache(ctx context.Context)
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
	Record(ctx context.Context, actorID, action, targetType, targetID string, details map[string]interface{})
	List(ctx context.Context, limit int) ([]*models.AuditLog, error)
}
