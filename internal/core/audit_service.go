package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/models"
)

// Audit actions recorded by the admin surface.
const (
	ActionCandidateCreate = "CANDIDATE_CREATE"
	ActionCandidateUpdate = "CANDIDATE_UPDATE"
	ActionCandidateDelete = "CANDIDATE_DELETE"
	ActionUserCreate      = "USER_CREATE"
	ActionUserUpdate      = "USER_UPDATE"
	ActionUserProfile     = "USER_PROFILE_UPDATE"
	ActionUserDelete      = "USER_DELETE"
	ActionPeriodSave      = "VOTING_PERIOD_SAVE"
	ActionPeriodToggle    = "VOTING_PERIOD_TOGGLE"
	ActionVotesReset      = "VOTES_RESET"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{auditRepo: auditRepo, logger: logger}
}

// CreateAuditLog stores an entry.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

// Record writes an entry and only logs a failure; an audit write never
// fails the action it describes.
func (s *auditService) Record(ctx context.Context, actorID, action, targetType, targetID string, details map[string]interface{}) {
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
		Details:    details,
	}
	if err := s.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("Audit log write failed",
			zap.String("action", action),
			zap.String("targetID", targetID),
			zap.Error(err))
	}
}

// List returns the most recent entries.
func (s *auditService) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.auditRepo.List(ctx, limit)
}
