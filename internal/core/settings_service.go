package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/models"
)

// settingsService implements SettingsService.
type settingsService struct {
	repo   db.SettingsRepository
	audit  AuditService
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewSettingsService creates a SettingsService evaluating dates in loc.
func NewSettingsService(repo db.SettingsRepository, audit AuditService, loc *time.Location, logger *zap.Logger) SettingsService {
	if loc == nil {
		loc = time.UTC
	}
	return &settingsService{repo: repo, audit: audit, loc: loc, now: time.Now, logger: logger}
}

func (s *settingsService) Location() *time.Location {
	return s.loc
}

// Get returns the stored settings, nil when never saved, plus the gate state.
func (s *settingsService) Get(ctx context.Context) (*models.VotingSettings, models.PeriodStatus, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, models.PeriodStatus{}, err
	}
	return settings, EvaluateVotingPeriod(settings, s.now(), s.loc), nil
}

// Status evaluates the gate at the current instant.
func (s *settingsService) Status(ctx context.Context) (models.PeriodStatus, error) {
	_, status, err := s.Get(ctx)
	return status, err
}

// SavePeriod stores the window. An enabled period needs both dates with the
// end after the start; a disabled period clears both dates.
func (s *settingsService) SavePeriod(ctx context.Context, actorID string, req models.SaveVotingPeriodRequest) (*models.VotingSettings, error) {
	enabled := req.IsEnabled
	settings := &models.VotingSettings{IsEnabled: &enabled}

	if enabled {
		if req.StartDate == nil || req.EndDate == nil {
			return nil, fmt.Errorf("%w: start and end dates are required", ErrValidation)
		}
		if !req.EndDate.After(*req.StartDate) {
			return nil, fmt.Errorf("%w: end date must be after start date", ErrValidation)
		}
		start, end := req.StartDate.UTC(), req.EndDate.UTC()
		settings.StartDate, settings.EndDate = &start, &end
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}

	details := map[string]interface{}{"isEnabled": enabled}
	if enabled {
		details["startDate"] = *settings.StartDate
		details["endDate"] = *settings.EndDate
	}
	s.audit.Record(ctx, actorID, ActionPeriodSave, models.TargetSettings, "votingPeriod", details)
	return settings, nil
}

// SetEnabled flips the flag and keeps the stored dates.
func (s *settingsService) SetEnabled(ctx context.Context, actorID string, enabled bool) error {
	if err := s.repo.SetEnabled(ctx, enabled); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, ActionPeriodToggle, models.TargetSettings, "votingPeriod",
		map[string]interface{}{"isEnabled": enabled})
	return nil
}

// Watch re-evaluates the gate on every settings snapshot.
func (s *settingsService) Watch(ctx context.Context, fn func(models.PeriodStatus, error)) (db.Unsubscribe, error) {
	return s.repo.Watch(ctx, func(settings *models.VotingSettings, err error) {
		if err != nil {
			s.logger.Warn("Settings listener failed", zap.Error(err))
			fn(models.PeriodStatus{}, err)
			return
		}
		fn(EvaluateVotingPeriod(settings, s.now(), s.loc), nil)
	})
}
