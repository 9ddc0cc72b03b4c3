package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"votify-backend-go/internal/core"
	"votify-backend-go/internal/models"
	"votify-backend-go/internal/testutil"
)

const (
	adminToken = "admin-token"
	voterToken = "voter-token"
)

type apiHarness struct {
	store    *testutil.Store
	identity *testutil.FakeIdentity
	router   *gin.Engine
	shutdown chan struct{}
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	h := &apiHarness{store: testutil.NewStore(), identity: testutil.NewFakeIdentity(), shutdown: make(chan struct{})}
	h.store.PutUser(models.User{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin})
	h.store.PutUser(models.User{ID: "voter-1", Email: "voter@example.com", Role: models.RoleUser})
	h.identity.PutAccount("admin-1", "admin@example.com")
	h.identity.PutAccount("voter-1", "voter@example.com")
	h.identity.AddToken(adminToken, "admin-1", "admin@example.com")
	h.identity.AddToken(voterToken, "voter-1", "voter@example.com")

	audit := core.NewAuditService(h.store.Audit(), logger)
	settings := core.NewSettingsService(h.store.Settings(), audit, time.UTC, logger)
	reports := core.NewReportService(h.store.Candidates(), h.store.Users(), h.store.Votes(), audit,
		core.ReportServiceConfig{Location: time.UTC}, logger)
	services := Services{
		Users:      core.NewUserService(h.store.Users(), h.identity, audit, reports, logger),
		Candidates: core.NewCandidateService(h.store.Candidates(), audit, reports, logger),
		Settings:   settings,
		Voting:     core.NewVotingService(h.store.Votes(), settings, reports, &testutil.FakeQueue{}, "vote-events", logger),
		Reports:    reports,
		Audit:      audit,
	}

	h.router = gin.New()
	SetupRoutes(h.router, h.identity, services, h.shutdown, logger)
	return h
}

func (h *apiHarness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var headers map[string]string
	if token != "" {
		headers = testutil.Bearer(token)
	}
	return testutil.PerformRequest(h.router, method, path, body, headers)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// closeNotifyingRecorder lets gin's Stream run against a recorder.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return r.closed
}

// stream serves a streaming request until wait elapses, then disconnects
// and returns what was written.
func (h *apiHarness) stream(t *testing.T, path, token string, wait time.Duration) *httptest.ResponseRecorder {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.router.ServeHTTP(rec, req)
	}()

	time.Sleep(wait)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after disconnect")
	}
	return rec.ResponseRecorder
}
