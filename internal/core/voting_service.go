package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/models"
)

// votingService implements VotingService.
type votingService struct {
	votes     db.VoteRepository
	settings  SettingsService
	reports   ReportService
	publisher EventPublisher
	queue     string
	logger    *zap.Logger
}

// NewVotingService creates a VotingService. publisher may be nil, in which
// case no vote.cast events are emitted.
func NewVotingService(votes db.VoteRepository, settings SettingsService, reports ReportService, publisher EventPublisher, queue string, logger *zap.Logger) VotingService {
	return &votingService{
		votes:     votes,
		settings:  settings,
		reports:   reports,
		publisher: publisher,
		queue:     queue,
		logger:    logger,
	}
}

// SubmitVote checks the caller preconditions, runs the transaction and then
// fires the post-commit side effects.
func (s *votingService) SubmitVote(ctx context.Context, session *models.Session, req models.SubmitVoteRequest) (*models.VoteReceipt, error) {
	if session == nil || session.UID == "" {
		return nil, ErrUnauthenticated
	}
	if req.MaleCandidateID == "" || req.FemaleCandidateID == "" {
		return nil, ErrIncompleteBallot
	}
	// Ids are used as Firestore document ids; a slash would address another path.
	if strings.Contains(req.MaleCandidateID, "/") || strings.Contains(req.FemaleCandidateID, "/") {
		return nil, fmt.Errorf("%w: candidate id must not contain '/'", ErrInvalidCandidate)
	}

	status, err := s.settings.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read voting period: %w", err)
	}
	if !status.IsOpen() {
		return nil, fmt.Errorf("%w: %s", ErrVotingClosed, status.Message)
	}

	plan, err := s.votes.SubmitVote(ctx, session.UID, session.Email, req.MaleCandidateID, req.FemaleCandidateID)
	if err != nil {
		return nil, err
	}

	receipt := &models.VoteReceipt{
		UserID:            plan.UserID,
		VoterEmail:        plan.Record.VoterEmail,
		MaleCandidateID:   plan.MaleID,
		FemaleCandidateID: plan.FemaleID,
		VotedAt:           plan.Record.VotedAt,
	}
	s.logger.Info("Vote recorded",
		zap.String("userID", plan.UserID),
		zap.String("maleCandidateID", plan.MaleID),
		zap.String("femaleCandidateID", plan.FemaleID))

	if s.reports != nil {
		s.reports.InvalidateCache(ctx)
	}
	s.publish(ctx, models.VoteCastEvent{
		UserID:              plan.UserID,
		VoterEmail:          plan.Record.VoterEmail,
		MaleCandidateID:     plan.MaleID,
		MaleCandidateName:   plan.MaleName,
		FemaleCandidateID:   plan.FemaleID,
		FemaleCandidateName: plan.FemaleName,
		VotedAt:             plan.Record.VotedAt,
	})
	return receipt, nil
}

func (s *votingService) publish(ctx context.Context, event models.VoteCastEvent) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to encode vote.cast event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.queue, body); err != nil {
		s.logger.Warn("Failed to publish vote.cast event", zap.String("userID", event.UserID), zap.Error(err))
	}
}
