package models

import (
	"strings"
	"time"
)

// Gender categories. The stored values are the ones the admin panel writes.
const (
	GenderMale   = "Laki-laki"
	GenderFemale = "Perempuan"
)

// ValidGender reports whether g is one of the two voting categories.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

// Candidate is an electable entry with a gender category and a vote counter.
type Candidate struct {
	ID          string `json:"id" firestore:"-"`
	Name        string `json:"name" firestore:"name"`
	Position    string `json:"position" firestore:"position"`
	Gender      string `json:"gender" firestore:"gender"`
	ImageURL    string `json:"imageUrl" firestore:"imageUrl"`
	Workplace   string `json:"workplace,omitempty" firestore:"workplace,omitempty"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
	VoteCount   int64  `json:"voteCount" firestore:"voteCount"`
}

// MatchesName does a case-insensitive substring match on the candidate name.
// An empty query matches everything.
func (c *Candidate) MatchesName(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(query))
}

// VoterRecord is the append-only proof of vote stored under
// candidates/{id}/voters/{uid}.
type VoterRecord struct {
	UserID     string    `json:"userId" firestore:"-"`
	VoterEmail string    `json:"voterEmail" firestore:"voterEmail"`
	VotedAt    time.Time `json:"votedAt" firestore:"votedAt"`
}
