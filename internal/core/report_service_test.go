package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/export"
	"votify-backend-go/internal/models"
)

func TestBuildSummary(t *testing.T) {
	candidates := []*models.Candidate{
		{ID: "f1", Name: "Sari", Gender: models.GenderFemale, VoteCount: 6},
		{ID: "m1", Name: "Budi", Gender: models.GenderMale, VoteCount: 4},
		{ID: "m2", Name: "Agus", Gender: models.GenderMale, VoteCount: 3},
	}
	users := []*models.User{{ID: "a", HasVoted: true}, {ID: "b", HasVoted: true}, {ID: "c"}}

	summary := BuildSummary(candidates, users, time.Unix(0, 0))

	assert.Equal(t, 6.5, summary.TotalVotes)
	require.Len(t, summary.Candidates, 3)
	assert.Equal(t, "f1", summary.Candidates[0].ID)
	assert.InDelta(t, 6.0/6.5*100, summary.Candidates[0].Percentage, 1e-9)
	assert.Len(t, summary.Male, 2)
	assert.Len(t, summary.Female, 1)
	assert.Equal(t, "m1", summary.Male[0].ID)
	assert.Equal(t, models.Participation{Voted: 2, NotVoted: 1, Total: 3}, summary.Participation)
	assert.Equal(t, []string{LabelVoted, LabelNotVoted}, summary.ParticipationChart.Labels)
	assert.Equal(t, []int{2, 1}, summary.ParticipationChart.Values)
}

func TestBuildSummary_Empty(t *testing.T) {
	summary := BuildSummary(nil, nil, time.Unix(0, 0))
	assert.Zero(t, summary.TotalVotes)
	assert.NotNil(t, summary.Candidates)
	assert.Equal(t, models.Participation{}, summary.Participation)

	summary = BuildSummary([]*models.Candidate{{ID: "m1", Gender: models.GenderMale}}, nil, time.Unix(0, 0))
	assert.Zero(t, summary.Candidates[0].Percentage)
}

func TestReportService_SummaryIsCached(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	maleID, femaleID := h.seedBallot()

	first, err := h.reports.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, first.TotalVotes)
	assert.True(t, h.cache.Has(SummaryCacheKey))

	_, err = h.voting.SubmitVote(ctx, &models.Session{UID: "u1"}, models.SubmitVoteRequest{MaleCandidateID: maleID, FemaleCandidateID: femaleID})
	require.NoError(t, err)

	second, err := h.reports.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(1), second.TotalVotes)
	assert.Equal(t, 1, second.Participation.Voted)
}

// listHookUsers runs onList once, before delegating the first List call.
type listHookUsers struct {
	db.UserRepository
	onList func()
}

func (u *listHookUsers) List(ctx context.Context) ([]*models.User, error) {
	if hook := u.onList; hook != nil {
		u.onList = nil
		hook()
	}
	return u.UserRepository.List(ctx)
}

func TestReportService_SummaryNotCachedWhenVoteLandsDuringBuild(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	maleID, femaleID := h.seedBallot()
	logger := zap.NewNop()

	users := &listHookUsers{UserRepository: h.store.Users()}
	reports := NewReportService(h.store.Candidates(), users, h.store.Votes(), h.audit,
		ReportServiceConfig{Cache: h.cache, CacheTTL: time.Minute, Location: time.UTC}, logger)
	voting := NewVotingService(h.store.Votes(), h.settings, reports, nil, "vote-events", logger)

	users.onList = func() {
		_, err := voting.SubmitVote(ctx, &models.Session{UID: "u1"}, models.SubmitVoteRequest{MaleCandidateID: maleID, FemaleCandidateID: femaleID})
		require.NoError(t, err)
	}

	during, err := reports.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, during.TotalVotes)
	assert.False(t, h.cache.Has(SummaryCacheKey))

	after, err := reports.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(1), after.TotalVotes)
	assert.Equal(t, 1, after.Participation.Voted)
	assert.True(t, h.cache.Has(SummaryCacheKey))
}

func TestReportService_Reset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	maleID, femaleID := h.seedBallot()
	_, err := h.voting.SubmitVote(ctx, &models.Session{UID: "u1"}, models.SubmitVoteRequest{MaleCandidateID: maleID, FemaleCandidateID: femaleID})
	require.NoError(t, err)

	res, err := h.reports.Reset(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Users)
	assert.Equal(t, 2, res.Candidates)

	summary, err := h.reports.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalVotes)
	assert.Zero(t, summary.Participation.Voted)

	assert.NotEmpty(t, h.store.VoterRecords(maleID), "voter records are kept after reset")

	logs := h.store.AuditLogs()
	assert.Equal(t, ActionVotesReset, logs[len(logs)-1].Action)
}

func TestReportService_Export(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.store.PutCandidate(models.Candidate{Name: "Budi", Position: "Staff", Gender: models.GenderMale, VoteCount: 2})
	h.store.PutCandidate(models.Candidate{Name: "Sari", Position: "HR", Gender: models.GenderFemale, VoteCount: 5})

	var buf bytes.Buffer
	name, err := h.reports.Export(ctx, export.FormatCSV, &buf)
	require.NoError(t, err)
	assert.Regexp(t, `^Laporan_Voting_\d{4}-\d{2}-\d{2}\.csv$`, name)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1", "Sari", models.GenderFemale, "HR", "5"}, records[1])

	_, err = h.reports.Export(ctx, "pdf", &buf)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReportService_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(t)
	maleID, femaleID := h.seedBallot()

	summaries := make(chan *models.ReportSummary, 8)
	unsubscribe, err := h.reports.Watch(ctx, func(s *models.ReportSummary, err error) {
		require.NoError(t, err)
		summaries <- s
	})
	require.NoError(t, err)
	defer unsubscribe()

	assert.Zero(t, (<-summaries).TotalVotes)

	_, err = h.voting.SubmitVote(ctx, &models.Session{UID: "u1"}, models.SubmitVoteRequest{MaleCandidateID: maleID, FemaleCandidateID: femaleID})
	require.NoError(t, err)
	assert.Equal(t, float64(1), (<-summaries).TotalVotes)
}
