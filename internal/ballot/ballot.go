// Package ballot holds the read-validate-plan step of the single-vote
// transaction. Plan is a pure function of the documents read inside the
// transaction so the store may re-run it on every conflict retry.
package ballot

import (
	"errors"
	"fmt"
	"time"

	"votify-backend-go/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user profile not found")
	ErrAlreadyVoted     = errors.New("user has already voted")
	ErrInvalidCandidate = errors.New("invalid candidate")
)

// Reads are the three documents the transaction reads before any write.
// A nil pointer means the document does not exist.
type Reads struct {
	User   *models.User
	Male   *models.Candidate
	Female *models.Candidate
}

// Plan is the write set of a valid ballot.
type Plan struct {
	UserID          string
	MaleID          string
	FemaleID        string
	MaleName        string
	FemaleName      string
	MaleVoteCount   int64
	FemaleVoteCount int64
	Record          models.VoterRecord
}

// Build validates the reads and returns the writes to apply. voterEmail may be
// empty, in which case the email stored on the profile is used.
func Build(r Reads, voterEmail string, now time.Time) (*Plan, error) {
	if r.User == nil {
		return nil, ErrUserNotFound
	}
	if r.User.HasVoted {
		return nil, ErrAlreadyVoted
	}
	if r.Male == nil || r.Female == nil {
		return nil, ErrInvalidCandidate
	}
	if r.Male.Gender != models.GenderMale {
		return nil, fmt.Errorf("%w: candidate '%s' is not in category %s", ErrInvalidCandidate, r.Male.ID, models.GenderMale)
	}
	if r.Female.Gender != models.GenderFemale {
		return nil, fmt.Errorf("%w: candidate '%s' is not in category %s", ErrInvalidCandidate, r.Female.ID, models.GenderFemale)
	}

	email := voterEmail
	if email == "" {
		email = r.User.Email
	}

	return &Plan{
		UserID:          r.User.ID,
		MaleID:          r.Male.ID,
		FemaleID:        r.Female.ID,
		MaleName:        r.Male.Name,
		FemaleName:      r.Female.Name,
		MaleVoteCount:   r.Male.VoteCount + 1,
		FemaleVoteCount: r.Female.VoteCount + 1,
		Record: models.VoterRecord{
			UserID:     r.User.ID,
			VoterEmail: email,
			VotedAt:    now.UTC(),
		},
	}, nil
}
