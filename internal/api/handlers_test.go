package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votify-backend-go/internal/models"
)

func TestHealthCheck(t *testing.T) {
	h := newAPIHarness(t)
	w := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "UP")
}

func TestGetSession(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(http.MethodGet, "/api/v1/users/me", voterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[models.Session](t, w)
	assert.Equal(t, "voter-1", session.UID)
	require.NotNil(t, session.Profile)
	assert.Equal(t, models.RoleUser, session.Profile.Role)

	h.identity.AddToken("orphan-token", "orphan", "orphan@example.com")
	w = h.do(http.MethodGet, "/api/v1/users/me", "orphan-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"profile":null`)

	w = h.do(http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newAPIHarness(t)
	for _, path := range []string{"/api/v1/admin/users", "/api/v1/admin/settings", "/api/v1/reports/summary"} {
		w := h.do(http.MethodGet, path, voterToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
}

func TestSubmitVote(t *testing.T) {
	h := newAPIHarness(t)
	maleID := h.store.PutCandidate(models.Candidate{Name: "Budi", Position: "Staff", Gender: models.GenderMale})
	femaleID := h.store.PutCandidate(models.Candidate{Name: "Sari", Position: "Staff", Gender: models.GenderFemale})
	ballot := models.SubmitVoteRequest{MaleCandidateID: maleID, FemaleCandidateID: femaleID}

	w := h.do(http.MethodPost, "/api/v1/votes", voterToken, models.SubmitVoteRequest{MaleCandidateID: maleID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/v1/votes", voterToken, models.SubmitVoteRequest{MaleCandidateID: femaleID, FemaleCandidateID: maleID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/v1/votes", voterToken, models.SubmitVoteRequest{MaleCandidateID: "a/b", FemaleCandidateID: femaleID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/v1/votes", voterToken, ballot)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receipt := decode[models.VoteReceipt](t, w)
	assert.Equal(t, "voter-1", receipt.UserID)
	assert.Equal(t, "voter@example.com", receipt.VoterEmail)

	w = h.do(http.MethodPost, "/api/v1/votes", voterToken, ballot)
	assert.Equal(t, http.StatusConflict, w.Code)

	h.identity.AddToken("orphan-token", "orphan", "orphan@example.com")
	w = h.do(http.MethodPost, "/api/v1/votes", "orphan-token", ballot)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitVote_VotingClosed(t *testing.T) {
	h := newAPIHarness(t)
	maleID := h.store.PutCandidate(models.Candidate{Name: "Budi", Position: "Staff", Gender: models.GenderMale})
	femaleID := h.store.PutCandidate(models.Candidate{Name: "Sari", Position: "Staff", Gender: models.GenderFemale})
	enabled := true
	start, end := time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour)
	h.store.PutSettings(&models.VotingSettings{IsEnabled: &enabled, StartDate: &start, EndDate: &end})

	w := h.do(http.MethodPost, "/api/v1/votes", voterToken, models.SubmitVoteRequest{MaleCandidateID: maleID, FemaleCandidateID: femaleID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Periode voting telah berakhir.")

	w = h.do(http.MethodGet, "/api/v1/voting/status", voterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[VotingStatusResponse](t, w)
	assert.Equal(t, models.PeriodClosed, status.Status)
	assert.Nil(t, status.Countdown)
}

func TestVotingStatus_Countdown(t *testing.T) {
	h := newAPIHarness(t)
	enabled := true
	start, end := time.Now().Add(-time.Hour), time.Now().Add(49*time.Hour)
	h.store.PutSettings(&models.VotingSettings{IsEnabled: &enabled, StartDate: &start, EndDate: &end})

	w := h.do(http.MethodGet, "/api/v1/voting/status", voterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[VotingStatusResponse](t, w)
	assert.Equal(t, models.PeriodOpen, status.Status)
	require.NotNil(t, status.Countdown)
	assert.Equal(t, 2, status.Countdown.Days)
}

func TestVotingStatusStream(t *testing.T) {
	h := newAPIHarness(t)
	enabled := true
	h.store.PutSettings(&models.VotingSettings{IsEnabled: &enabled})

	w := h.stream(t, "/api/v1/voting/status/stream", voterToken, 100*time.Millisecond)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event:status")
	assert.Contains(t, body, `"status":"closed"`)
}

func TestVotingStatusStream_EndsOnShutdown(t *testing.T) {
	h := newAPIHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/voting/status/stream", nil)
	req.Header.Set("Authorization", "Bearer "+voterToken)
	rec := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.router.ServeHTTP(rec, req)
	}()

	time.Sleep(100 * time.Millisecond)
	close(h.shutdown)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream still open after shutdown")
	}
	assert.Contains(t, rec.Body.String(), "event:status")
}

func TestCatalog(t *testing.T) {
	h := newAPIHarness(t)
	h.store.PutCandidate(models.Candidate{Name: "Budi", Gender: models.GenderMale})
	h.store.PutCandidate(models.Candidate{Name: "Sari", Gender: models.GenderFemale})
	h.store.PutCandidate(models.Candidate{Name: "Siti", Gender: models.GenderFemale})

	w := h.do(http.MethodGet, "/api/v1/candidates?q=sa", voterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	catalog := decode[models.Catalog](t, w)
	assert.Empty(t, catalog.Male)
	assert.Len(t, catalog.Female, 1)
	assert.Equal(t, 1, catalog.MaleCount)
	assert.Equal(t, 2, catalog.FemaleCount)
}

func TestAccountEndpoints(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(http.MethodPost, "/api/v1/admin/create-user", adminToken, models.CreateUserRequest{Email: "new@example.com", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgCreateInvalid, decode[MessageResponse](t, w).Message)

	w = h.do(http.MethodPost, "/api/v1/admin/create-user", adminToken, models.CreateUserRequest{Email: "new@example.com", Password: "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Pengguna new@example.com berhasil dibuat.", decode[MessageResponse](t, w).Message)

	w = h.do(http.MethodPost, "/api/v1/admin/create-user", adminToken, models.CreateUserRequest{Email: "new@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, msgCreateConflict, decode[MessageResponse](t, w).Message)

	w = h.do(http.MethodPost, "/api/v1/admin/update-user", adminToken, models.UpdateUserRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgUIDRequired, decode[MessageResponse](t, w).Message)

	w = h.do(http.MethodPost, "/api/v1/admin/update-user", adminToken, models.UpdateUserRequest{UID: "voter-1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, msgUpdated, decode[MessageResponse](t, w).Message)

	w = h.do(http.MethodPost, "/api/v1/admin/update-user", adminToken, models.UpdateUserRequest{UID: "voter-1", Password: "12"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgPasswordTooWeak, decode[MessageResponse](t, w).Message)

	w = h.do(http.MethodPost, "/api/v1/admin/update-user", adminToken, models.UpdateUserRequest{UID: "voter-1", Email: "new@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPost, "/api/v1/admin/update-user", adminToken, models.UpdateUserRequest{UID: "ghost", Email: "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPost, "/api/v1/admin/update-user", adminToken, models.UpdateUserRequest{UID: "voter-1", Email: "renamed@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile, _ := h.store.User("voter-1")
	assert.Equal(t, "renamed@example.com", profile.Email)

	w = h.do(http.MethodPost, "/api/v1/admin/delete-user", adminToken, models.DeleteUserRequest{UID: "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, msgAccountNotFound, decode[MessageResponse](t, w).Message)

	w = h.do(http.MethodPost, "/api/v1/admin/delete-user", adminToken, models.DeleteUserRequest{UID: "voter-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pengguna dengan UID voter-1 berhasil dihapus.", decode[MessageResponse](t, w).Message)
	_, ok := h.store.User("voter-1")
	assert.False(t, ok)
}

func TestAdminUsers(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.User](t, w), 2)

	w = h.do(http.MethodPut, "/api/v1/admin/users/voter-1/profile", adminToken, models.UpdateProfileRequest{Role: models.RoleAdmin, HasVoted: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode[models.User](t, w)
	assert.True(t, user.IsAdmin())
	assert.True(t, user.HasVoted)

	w = h.do(http.MethodPut, "/api/v1/admin/users/voter-1/profile", adminToken, models.UpdateProfileRequest{Role: "root"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPut, "/api/v1/admin/users/ghost/profile", adminToken, models.UpdateProfileRequest{Role: models.RoleUser})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCandidates(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(http.MethodPost, "/api/v1/admin/candidates", adminToken, models.CreateCandidateRequest{Name: "Budi", Position: "Staff", Gender: "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/v1/admin/candidates", adminToken, models.CreateCandidateRequest{Name: "Budi", Position: "Staff", Gender: models.GenderMale})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Candidate](t, w)
	path := "/api/v1/admin/candidates/" + created.ID

	name := "Budi Santoso"
	w = h.do(http.MethodPut, path, adminToken, models.UpdateCandidateRequest{Name: &name})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, name, decode[models.Candidate](t, w).Name)

	w = h.do(http.MethodGet, "/api/v1/admin/candidates", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Candidate](t, w), 1)

	w = h.do(http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminSettings(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(http.MethodGet, "/api/v1/admin/settings", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"settings":null`)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	end := start.Add(time.Hour)
	w = h.do(http.MethodPut, "/api/v1/admin/settings", adminToken, models.SaveVotingPeriodRequest{IsEnabled: true, StartDate: &start})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPut, "/api/v1/admin/settings", adminToken, models.SaveVotingPeriodRequest{IsEnabled: true, StartDate: &start, EndDate: &end})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.PeriodNotStarted, decode[SettingsResponse](t, w).Status.Status)

	w = h.do(http.MethodPatch, "/api/v1/admin/settings/enabled", adminToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPatch, "/api/v1/admin/settings/enabled", adminToken, map[string]interface{}{"isEnabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SettingsResponse](t, w)
	assert.Equal(t, models.PeriodOpen, resp.Status.Status)
	require.NotNil(t, resp.Settings.StartDate)
	assert.True(t, resp.Settings.StartDate.Equal(start))
}

func TestReports(t *testing.T) {
	h := newAPIHarness(t)
	maleID := h.store.PutCandidate(models.Candidate{Name: "Budi", Position: "Staff", Gender: models.GenderMale})
	femaleID := h.store.PutCandidate(models.Candidate{Name: "Sari", Position: "HR", Gender: models.GenderFemale})
	w := h.do(http.MethodPost, "/api/v1/votes", voterToken, models.SubmitVoteRequest{MaleCandidateID: maleID, FemaleCandidateID: femaleID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.do(http.MethodGet, "/api/v1/reports/summary", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[models.ReportSummary](t, w)
	assert.Equal(t, float64(1), summary.TotalVotes)
	assert.Equal(t, 1, summary.Participation.Voted)

	w = h.do(http.MethodGet, "/api/v1/reports/candidates/"+maleID+"/voters", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.VoterRecord](t, w), 1)

	w = h.do(http.MethodGet, "/api/v1/reports/candidates/ghost/voters", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/api/v1/reports/export.csv", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="Laporan_Voting_\d{4}-\d{2}-\d{2}\.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "No.,Nama Kandidat"))

	w = h.do(http.MethodGet, "/api/v1/reports/export.xlsx", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"), "xlsx is a zip archive")

	w = h.do(http.MethodPost, "/api/v1/reports/reset", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	reset := decode[ResetResponse](t, w)
	assert.Equal(t, 2, reset.Users)
	assert.Equal(t, 2, reset.Candidates)

	w = h.do(http.MethodGet, "/api/v1/admin/audit-logs?limit=5", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]models.AuditLog](t, w)
	require.NotEmpty(t, logs)

	w = h.do(http.MethodGet, "/api/v1/admin/audit-logs?limit=x", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
