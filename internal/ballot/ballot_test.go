package ballot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votify-backend-go/internal/models"
)

func reads() Reads {
	return Reads{
		User:   &models.User{ID: "u1", Email: "u1@example.com", Role: models.RoleUser},
		Male:   &models.Candidate{ID: "a", Name: "Andi", Gender: models.GenderMale, VoteCount: 5},
		Female: &models.Candidate{ID: "b", Name: "Bunga", Gender: models.GenderFemale, VoteCount: 3},
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Happy path - increments from the values read", func(t *testing.T) {
		plan, err := Build(reads(), "token@example.com", now)
		require.NoError(t, err)
		assert.Equal(t, "u1", plan.UserID)
		assert.Equal(t, int64(6), plan.MaleVoteCount)
		assert.Equal(t, int64(4), plan.FemaleVoteCount)
		assert.Equal(t, "token@example.com", plan.Record.VoterEmail)
		assert.Equal(t, now, plan.Record.VotedAt)
	})

	t.Run("Falls back to profile email", func(t *testing.T) {
		plan, err := Build(reads(), "", now)
		require.NoError(t, err)
		assert.Equal(t, "u1@example.com", plan.Record.VoterEmail)
	})

	t.Run("Same reads give the same plan", func(t *testing.T) {
		r := reads()
		first, err := Build(r, "", now)
		require.NoError(t, err)
		second, err := Build(r, "", now)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, int64(5), r.Male.VoteCount, "reads must not be mutated")
	})

	t.Run("Unhappy path - missing user", func(t *testing.T) {
		r := reads()
		r.User = nil
		_, err := Build(r, "", now)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Unhappy path - already voted", func(t *testing.T) {
		r := reads()
		r.User.HasVoted = true
		_, err := Build(r, "", now)
		assert.ErrorIs(t, err, ErrAlreadyVoted)
	})

	t.Run("Unhappy path - missing candidate", func(t *testing.T) {
		r := reads()
		r.Female = nil
		_, err := Build(r, "", now)
		assert.ErrorIs(t, err, ErrInvalidCandidate)
	})

	t.Run("Unhappy path - categories swapped", func(t *testing.T) {
		r := reads()
		r.Male, r.Female = r.Female, r.Male
		_, err := Build(r, "", now)
		assert.ErrorIs(t, err, ErrInvalidCandidate)
	})
}
