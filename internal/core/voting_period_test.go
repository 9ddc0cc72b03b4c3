package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votify-backend-go/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluateVotingPeriod(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		settings *models.VotingSettings
		want     models.PeriodState
		message  string
		hasEnd   bool
	}{
		{name: "settings absent", settings: nil, want: models.PeriodOpen},
		{name: "explicitly disabled", settings: &models.VotingSettings{IsEnabled: boolPtr(false), StartDate: timePtr(future), EndDate: timePtr(future)}, want: models.PeriodOpen},
		{name: "not started", settings: &models.VotingSettings{IsEnabled: boolPtr(true), StartDate: timePtr(future), EndDate: timePtr(future.Add(time.Hour))}, want: models.PeriodNotStarted, hasEnd: true},
		{name: "ended", settings: &models.VotingSettings{IsEnabled: boolPtr(true), StartDate: timePtr(past.Add(-time.Hour)), EndDate: timePtr(past)}, want: models.PeriodClosed, message: MsgVotingEnded, hasEnd: true},
		{name: "open window", settings: &models.VotingSettings{IsEnabled: boolPtr(true), StartDate: timePtr(past), EndDate: timePtr(future)}, want: models.PeriodOpen, hasEnd: true},
		{name: "flag absent with window", settings: &models.VotingSettings{StartDate: timePtr(past), EndDate: timePtr(future)}, want: models.PeriodOpen, hasEnd: true},
		{name: "enabled without dates", settings: &models.VotingSettings{IsEnabled: boolPtr(true)}, want: models.PeriodClosed, message: MsgNotConfigured},
		{name: "flag absent missing end", settings: &models.VotingSettings{StartDate: timePtr(past)}, want: models.PeriodClosed, message: MsgNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateVotingPeriod(tt.settings, now, jakarta)
			assert.Equal(t, tt.want, got.Status)
			if tt.message != "" {
				assert.Equal(t, tt.message, got.Message)
			}
			assert.Equal(t, tt.hasEnd, got.EndDate != nil)
		})
	}
}

func TestEvaluateVotingPeriod_StartMessageUsesLocation(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)
	settings := &models.VotingSettings{IsEnabled: boolPtr(true), StartDate: &start, EndDate: timePtr(start.Add(time.Hour))}

	got := EvaluateVotingPeriod(settings, now, jakarta)
	assert.Equal(t, "Voting akan dimulai pada Kamis, 1 Januari 2026 pukul 09.00 WIB", got.Message)
}

func TestCountdownTo(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := now.Add(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)

	assert.Equal(t, models.Countdown{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}, CountdownTo(end, now))
	assert.Equal(t, models.Countdown{}, CountdownTo(now, end))
}
