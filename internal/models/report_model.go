package models

import "time"

// CandidateTally is a candidate with its share of the total votes.
type CandidateTally struct {
	Candidate
	Percentage float64 `json:"percentage"`
}

// Participation splits all users into voted and not voted.
type Participation struct {
	Voted    int `json:"voted"`
	NotVoted int `json:"notVoted"`
	Total    int `json:"total"`
}

// ChartData is a label/value series ready for a pie chart.
type ChartData struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// ReportSummary is the reporting dashboard payload.
type ReportSummary struct {
	TotalVotes         float64          `json:"totalVotes"`
	Candidates         []CandidateTally `json:"candidates"`
	Male               []CandidateTally `json:"male"`
	Female             []CandidateTally `json:"female"`
	Participation      Participation    `json:"participation"`
	ParticipationChart ChartData        `json:"participationChart"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}

// Catalog is the voting page's candidate list split by category.
type Catalog struct {
	Male        []*Candidate `json:"male"`
	Female      []*Candidate `json:"female"`
	MaleCount   int          `json:"maleCount"`
	FemaleCount int          `json:"femaleCount"`
}

// VoteReceipt is returned after a successful vote.
type VoteReceipt struct {
	UserID            string    `json:"userId"`
	VoterEmail        string    `json:"voterEmail"`
	MaleCandidateID   string    `json:"maleCandidateId"`
	FemaleCandidateID string    `json:"femaleCandidateId"`
	VotedAt           time.Time `json:"votedAt"`
}

// VoteCastEvent is published on the event bus after a vote commits.
type VoteCastEvent struct {
	UserID              string    `json:"userId"`
	VoterEmail          string    `json:"voterEmail"`
	MaleCandidateID     string    `json:"maleCandidateId"`
	MaleCandidateName   string    `json:"maleCandidateName,omitempty"`
	FemaleCandidateID   string    `json:"femaleCandidateId"`
	FemaleCandidateName string    `json:"femaleCandidateName,omitempty"`
	VotedAt             time.Time `json:"votedAt"`
}
