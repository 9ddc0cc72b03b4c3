package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votify-backend-go/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCandidateService_CRUD(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	created, err := h.candidates.Create(ctx, "admin", models.CreateCandidateRequest{
		Name: "Budi", Position: "Staff IT", Gender: models.GenderMale, Workplace: "Jakarta",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Zero(t, created.VoteCount)

	h.store.PutCandidate(models.Candidate{ID: created.ID, Name: "Budi", Position: "Staff IT", Gender: models.GenderMale, VoteCount: 4})

	updated, err := h.candidates.Update(ctx, "admin", created.ID, models.UpdateCandidateRequest{Name: strPtr("Budi Santoso")})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", updated.Name)
	stored, _ := h.store.Candidate(created.ID)
	assert.Equal(t, int64(4), stored.VoteCount, "update never touches the vote counter")

	_, err = h.candidates.Update(ctx, "admin", created.ID, models.UpdateCandidateRequest{Gender: strPtr("Lainnya")})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, h.candidates.Delete(ctx, "admin", created.ID))
	_, err = h.candidates.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrCandidateNotFound)
	assert.ErrorIs(t, h.candidates.Delete(ctx, "admin", created.ID), ErrCandidateNotFound)

	actions := []string{}
	for _, l := range h.store.AuditLogs() {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{ActionCandidateCreate, ActionCandidateUpdate, ActionCandidateDelete}, actions)
}

func TestCandidateService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.candidates.Create(ctx, "admin", models.CreateCandidateRequest{Name: " ", Position: "Staff", Gender: models.GenderMale})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.candidates.Create(ctx, "admin", models.CreateCandidateRequest{Name: "Budi", Position: "Staff", Gender: "male"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCandidateService_Catalog(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.store.PutCandidate(models.Candidate{Name: "Budi Santoso", Gender: models.GenderMale})
	h.store.PutCandidate(models.Candidate{Name: "Agus", Gender: models.GenderMale})
	h.store.PutCandidate(models.Candidate{Name: "Sari Budiman", Gender: models.GenderFemale})

	catalog, err := h.candidates.Catalog(ctx, "budi")
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.MaleCount)
	assert.Equal(t, 1, catalog.FemaleCount)
	require.Len(t, catalog.Male, 1)
	assert.Equal(t, "Budi Santoso", catalog.Male[0].Name)
	require.Len(t, catalog.Female, 1)

	catalog, err = h.candidates.Catalog(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, catalog.Male)
	assert.Empty(t, catalog.Female)
	assert.Equal(t, 2, catalog.MaleCount)

	catalog, err = h.candidates.Catalog(ctx, "")
	require.NoError(t, err)
	assert.Len(t, catalog.Male, 2)
}

func TestCandidateService_Voters(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	maleID, femaleID := h.seedBallot()

	_, err := h.voting.SubmitVote(ctx, &models.Session{UID: "u1"}, models.SubmitVoteRequest{MaleCandidateID: maleID, FemaleCandidateID: femaleID})
	require.NoError(t, err)

	voters, err := h.candidates.Voters(ctx, maleID)
	require.NoError(t, err)
	require.Len(t, voters, 1)
	assert.Equal(t, "u1@example.com", voters[0].VoterEmail)

	_, err = h.candidates.Voters(ctx, "ghost")
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}
