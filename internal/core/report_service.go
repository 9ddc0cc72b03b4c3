package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/export"
	"votify-backend-go/internal/models"
	"votify-backend-go/pkg/cache"
)

// SummaryCacheKey is where the serialized report summary is cached.
const SummaryCacheKey = "votify:reports:summary"

// Participation chart labels.
const (
	LabelVoted    = "Sudah Memilih"
	LabelNotVoted = "Belum Memilih"
)

// reportService implements ReportService.
type reportService struct {
	candidates db.CandidateRepository
	users      db.UserRepository
	votes      db.VoteRepository
	audit      AuditService
	cache      cache.Cache
	ttl        time.Duration
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger

	// generation is bumped by InvalidateCache before the cached entry is
	// deleted.
	generation atomic.Uint64
}

// ReportServiceConfig carries the optional collaborators of the report service.
type ReportServiceConfig struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Location *time.Location
}

// NewReportService creates a ReportService. A nil cache disables caching.
func NewReportService(candidates db.CandidateRepository, users db.UserRepository, votes db.VoteRepository, audit AuditService, cfg ReportServiceConfig, logger *zap.Logger) ReportService {
	c := cfg.Cache
	if c == nil {
		c = cache.Noop{}
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{
		candidates: candidates,
		users:      users,
		votes:      votes,
		audit:      audit,
		cache:      c,
		ttl:        cfg.CacheTTL,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}
}

// BuildSummary tallies the candidates and participation. Every voter casts
// two votes, one per category, so the total is the counter sum divided by
// two and may be fractional when the counters are inconsistent.
func BuildSummary(candidates []*models.Candidate, users []*models.User, generatedAt time.Time) *models.ReportSummary {
	ordered := make([]*models.Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].VoteCount > ordered[j].VoteCount })

	var sum int64
	for _, c := range ordered {
		sum += c.VoteCount
	}
	total := float64(sum) / 2

	summary := &models.ReportSummary{
		TotalVotes:  total,
		Candidates:  make([]models.CandidateTally, 0, len(ordered)),
		Male:        []models.CandidateTally{},
		Female:      []models.CandidateTally{},
		GeneratedAt: generatedAt,
	}
	for _, c := range ordered {
		tally := models.CandidateTally{Candidate: *c}
		if total > 0 {
			tally.Percentage = float64(c.VoteCount) / total * 100
		}
		summary.Candidates = append(summary.Candidates, tally)
		switch c.Gender {
		case models.GenderMale:
			summary.Male = append(summary.Male, tally)
		case models.GenderFemale:
			summary.Female = append(summary.Female, tally)
		}
	}

	for _, u := range users {
		if u.HasVoted {
			summary.Participation.Voted++
		}
	}
	summary.Participation.Total = len(users)
	summary.Participation.NotVoted = summary.Participation.Total - summary.Participation.Voted
	summary.ParticipationChart = models.ChartData{
		Labels: []string{LabelVoted, LabelNotVoted},
		Values: []int{summary.Participation.Voted, summary.Participation.NotVoted},
	}
	return summary
}

// Summary returns the cached summary when present, else builds and caches it.
func (s *reportService) Summary(ctx context.Context) (*models.ReportSummary, error) {
	if cached, err := s.cache.Get(ctx, SummaryCacheKey); err == nil && cached != "" {
		var summary models.ReportSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
		s.logger.Warn("Discarding unreadable cached summary")
	}

	gen := s.generation.Load()
	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, summary, gen)
	return summary, nil
}

// store caches summary unless an invalidation happened since gen was read.
// The generation is checked again after Set because an invalidation may
// land between the first check and the write.
func (s *reportService) store(ctx context.Context, summary *models.ReportSummary, gen uint64) {
	if s.ttl <= 0 || s.generation.Load() != gen {
		return
	}
	body, err := json.Marshal(summary)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, SummaryCacheKey, string(body), s.ttl)
	if s.generation.Load() != gen {
		s.InvalidateCache(ctx)
	}
}

func (s *reportService) build(ctx context.Context) (*models.ReportSummary, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates for report: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for report: %w", err)
	}
	return BuildSummary(candidates, users, s.now().UTC()), nil
}

// Reset zeroes every counter and hasVoted flag.
func (s *reportService) Reset(ctx context.Context, actorID string) (*db.ResetResult, error) {
	result, err := s.votes.ResetVotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset votes: %w", err)
	}
	s.InvalidateCache(ctx)
	s.audit.Record(ctx, actorID, ActionVotesReset, models.TargetVotes, "", map[string]interface{}{
		"users":      result.Users,
		"candidates": result.Candidates,
	})
	s.logger.Info("Votes reset", zap.String("actorID", actorID), zap.Int("users", result.Users), zap.Int("candidates", result.Candidates))
	return result, nil
}

// Export writes the tally in the requested format and returns the download
// file name.
func (s *reportService) Export(ctx context.Context, format string, w io.Writer) (string, error) {
	if _, ok := export.ContentTypes[format]; !ok {
		return "", fmt.Errorf("%w: unsupported export format %q", ErrValidation, format)
	}
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list candidates for export: %w", err)
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].VoteCount > candidates[j].VoteCount })

	if err := export.Write(w, format, candidates); err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", format, err)
	}
	return export.Filename(s.now().In(s.loc), format), nil
}

// Watch rebuilds the summary on every candidate snapshot. Users are read
// fresh each time since only candidates are observed.
func (s *reportService) Watch(ctx context.Context, fn func(*models.ReportSummary, error)) (db.Unsubscribe, error) {
	return s.candidates.Watch(ctx, func(candidates []*models.Candidate, err error) {
		if err != nil {
			fn(nil, err)
			return
		}
		users, err := s.users.List(ctx)
		if err != nil {
			fn(nil, fmt.Errorf("failed to list users for report: %w", err))
			return
		}
		fn(BuildSummary(candidates, users, s.now().UTC()), nil)
	})
}

// InvalidateCache drops the cached summary. Failures are only logged.
func (s *reportService) InvalidateCache(ctx context.Context) {
	s.generation.Add(1)
	if err := s.cache.Delete(ctx, SummaryCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate report cache", zap.Error(err))
	}
}
