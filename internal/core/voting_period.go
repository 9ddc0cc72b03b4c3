package core

import (
	"fmt"
	"time"

	"votify-backend-go/internal/models"
)

// Gate messages shown to voters as-is.
const (
	MsgVotingEnded   = "Periode voting telah berakhir."
	MsgNotConfigured = "Periode voting belum diatur oleh admin."
	msgStartsAt      = "Voting akan dimulai pada %s"
)

var (
	indonesianDays   = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	indonesianMonths = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"}
)

// EvaluateVotingPeriod derives the gate state from the settings singleton.
// A nil settings document or an explicitly disabled period means voting is
// always open. Otherwise both dates must be set; a missing date closes the
// gate until an admin configures it.
func EvaluateVotingPeriod(settings *models.VotingSettings, now time.Time, loc *time.Location) models.PeriodStatus {
	if settings == nil || (settings.IsEnabled != nil && !*settings.IsEnabled) {
		return models.PeriodStatus{Status: models.PeriodOpen}
	}
	if settings.StartDate == nil || settings.EndDate == nil {
		return models.PeriodStatus{Status: models.PeriodClosed, Message: MsgNotConfigured}
	}

	start, end := *settings.StartDate, *settings.EndDate
	switch {
	case now.Before(start):
		return models.PeriodStatus{
			Status:  models.PeriodNotStarted,
			Message: fmt.Sprintf(msgStartsAt, FormatIndonesian(start, loc)),
			EndDate: &end,
		}
	case now.After(end):
		return models.PeriodStatus{Status: models.PeriodClosed, Message: MsgVotingEnded, EndDate: &end}
	default:
		return models.PeriodStatus{Status: models.PeriodOpen, EndDate: &end}
	}
}

// FormatIndonesian renders t like "Kamis, 1 Januari 2026 pukul 09.00 WIB".
func FormatIndonesian(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return fmt.Sprintf("%s, %d %s %d pukul %02d.%02d %s",
		indonesianDays[t.Weekday()], t.Day(), indonesianMonths[t.Month()-1], t.Year(),
		t.Hour(), t.Minute(), t.Format("MST"))
}

// CountdownTo splits the time left until end. It is zero once end has passed.
func CountdownTo(end, now time.Time) models.Countdown {
	left := end.Sub(now)
	if left <= 0 {
		return models.Countdown{}
	}
	return models.Countdown{
		Days:    int(left / (24 * time.Hour)),
		Hours:   int(left % (24 * time.Hour) / time.Hour),
		Minutes: int(left % time.Hour / time.Minute),
		Seconds: int(left % time.Minute / time.Second),
	}
}
