package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/models"
)

// candidateService implements CandidateService.
type candidateService struct {
	repo    db.CandidateRepository
	audit   AuditService
	reports ReportService
	logger  *zap.Logger
}

// NewCandidateService creates a CandidateService. reports may be nil; when
// set, its cached summary is dropped after every mutation.
func NewCandidateService(repo db.CandidateRepository, audit AuditService, reports ReportService, logger *zap.Logger) CandidateService {
	return &candidateService{repo: repo, audit: audit, reports: reports, logger: logger}
}

func validateCandidate(c *models.Candidate) error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Position) == "" {
		return fmt.Errorf("%w: name and position are required", ErrValidation)
	}
	if !models.ValidGender(c.Gender) {
		return fmt.Errorf("%w: gender must be %q or %q", ErrValidation, models.GenderMale, models.GenderFemale)
	}
	return nil
}

// Create stores a new candidate with a zero vote count.
func (s *candidateService) Create(ctx context.Context, actorID string, req models.CreateCandidateRequest) (*models.Candidate, error) {
	candidate := &models.Candidate{
		Name:        strings.TrimSpace(req.Name),
		Position:    strings.TrimSpace(req.Position),
		Gender:      req.Gender,
		ImageURL:    req.ImageURL,
		Workplace:   req.Workplace,
		Description: req.Description,
	}
	if err := validateCandidate(candidate); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate in repository: %w", err)
	}
	candidate.ID = id

	s.audit.Record(ctx, actorID, ActionCandidateCreate, models.TargetCandidate, id,
		map[string]interface{}{"name": candidate.Name, "gender": candidate.Gender})
	s.invalidate(ctx)
	return candidate, nil
}

// Update applies the provided fields. Vote count and id are not editable.
func (s *candidateService) Update(ctx context.Context, actorID, candidateID string, req models.UpdateCandidateRequest) (*models.Candidate, error) {
	candidate, err := s.Get(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	changed := map[string]interface{}{}
	apply := func(field string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed[field] = *src
		}
	}
	apply("name", &candidate.Name, req.Name)
	apply("position", &candidate.Position, req.Position)
	apply("gender", &candidate.Gender, req.Gender)
	apply("imageUrl", &candidate.ImageURL, req.ImageURL)
	apply("workplace", &candidate.Workplace, req.Workplace)
	apply("description", &candidate.Description, req.Description)

	if err := validateCandidate(candidate); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, candidate); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: candidate with ID '%s'", ErrCandidateNotFound, candidateID)
		}
		return nil, fmt.Errorf("failed to update candidate '%s': %w", candidateID, err)
	}

	s.audit.Record(ctx, actorID, ActionCandidateUpdate, models.TargetCandidate, candidateID, changed)
	s.invalidate(ctx)
	return candidate, nil
}

// Delete removes a candidate. Voter records underneath are kept.
func (s *candidateService) Delete(ctx context.Context, actorID, candidateID string) error {
	if candidateID == "" {
		return fmt.Errorf("%w: candidate id is required", ErrValidation)
	}
	if err := s.repo.Delete(ctx, candidateID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: candidate with ID '%s'", ErrCandidateNotFound, candidateID)
		}
		return fmt.Errorf("failed to delete candidate '%s': %w", candidateID, err)
	}
	s.audit.Record(ctx, actorID, ActionCandidateDelete, models.TargetCandidate, candidateID, nil)
	s.invalidate(ctx)
	return nil
}

// List returns all candidates, most votes first.
func (s *candidateService) List(ctx context.Context) ([]*models.Candidate, error) {
	candidates, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// Get returns one candidate.
func (s *candidateService) Get(ctx context.Context, candidateID string) (*models.Candidate, error) {
	if candidateID == "" {
		return nil, fmt.Errorf("%w: candidate id is required", ErrValidation)
	}
	candidate, err := s.repo.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: candidate with ID '%s'", ErrCandidateNotFound, candidateID)
		}
		return nil, fmt.Errorf("failed to get candidate '%s': %w", candidateID, err)
	}
	return candidate, nil
}

// Voters lists who voted for a candidate.
func (s *candidateService) Voters(ctx context.Context, candidateID string) ([]models.VoterRecord, error) {
	if _, err := s.Get(ctx, candidateID); err != nil {
		return nil, err
	}
	return s.repo.Voters(ctx, candidateID)
}

// Catalog splits candidates by category. Counts are category totals and are
// not affected by the name filter.
func (s *candidateService) Catalog(ctx context.Context, query string) (*models.Catalog, error) {
	candidates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)

	catalog := &models.Catalog{Male: []*models.Candidate{}, Female: []*models.Candidate{}}
	for _, c := range candidates {
		switch c.Gender {
		case models.GenderMale:
			catalog.MaleCount++
			if c.MatchesName(query) {
				catalog.Male = append(catalog.Male, c)
			}
		case models.GenderFemale:
			catalog.FemaleCount++
			if c.MatchesName(query) {
				catalog.Female = append(catalog.Female, c)
			}
		}
	}
	return catalog, nil
}

func (s *candidateService) invalidate(ctx context.Context) {
	if s.reports != nil {
		s.reports.InvalidateCache(ctx)
	}
}
