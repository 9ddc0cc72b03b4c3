package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"votify-backend-go/configs"
	"votify-backend-go/internal/core"
	"votify-backend-go/internal/models"
)

// seedActor is recorded as the actor of every audit entry the seeder causes.
const seedActor = "seed"

type seedResult struct {
	UsersCreated      int
	UsersSkipped      int
	CandidatesCreated int
	CandidatesSkipped int
	PeriodSaved       bool
}

type seeder struct {
	users      core.UserService
	candidates core.CandidateService
	settings   core.SettingsService
	logger     *zap.Logger
}

// run creates accounts, candidates and the voting period. Accounts whose
// email already exists and candidates whose name and gender already exist
// are skipped so the seeder can be rerun.
func (s *seeder) run(ctx context.Context, seed *configs.Seed) (*seedResult, error) {
	res := &seedResult{}

	for _, u := range seed.Users {
		user, err := s.users.CreateUser(ctx, seedActor, models.CreateUserRequest{Email: u.Email, Password: u.Password})
		if errors.Is(err, core.ErrEmailExists) {
			s.logger.Info("User exists, skipping", zap.String("email", u.Email))
			res.UsersSkipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		if u.Role != "" && u.Role != models.RoleUser {
			if _, err := s.users.UpdateProfile(ctx, seedActor, user.ID, models.UpdateProfileRequest{Role: u.Role}); err != nil {
				return res, fmt.Errorf("failed to set role of %s: %w", u.Email, err)
			}
		}
		res.UsersCreated++
	}

	existing, err := s.candidates.List(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list candidates: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[candidateKey(c.Name, c.Gender)] = true
	}

	for _, c := range seed.Candidates {
		key := candidateKey(c.Name, c.Gender)
		if known[key] {
			s.logger.Info("Candidate exists, skipping", zap.String("name", c.Name), zap.String("gender", c.Gender))
			res.CandidatesSkipped++
			continue
		}
		_, err := s.candidates.Create(ctx, seedActor, models.CreateCandidateRequest{
			Name:        c.Name,
			Position:    c.Position,
			Gender:      c.Gender,
			ImageURL:    c.ImageURL,
			Workplace:   c.Workplace,
			Description: c.Description,
		})
		if err != nil {
			return res, fmt.Errorf("failed to seed candidate %s: %w", c.Name, err)
		}
		known[key] = true
		res.CandidatesCreated++
	}

	if p := seed.VotingPeriod; p != nil {
		req := models.SaveVotingPeriodRequest{IsEnabled: p.IsEnabled, StartDate: p.StartDate, EndDate: p.EndDate}
		if _, err := s.settings.SavePeriod(ctx, seedActor, req); err != nil {
			return res, fmt.Errorf("failed to seed voting period: %w", err)
		}
		res.PeriodSaved = true
	}
	return res, nil
}

func candidateKey(name, gender string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + gender
}
