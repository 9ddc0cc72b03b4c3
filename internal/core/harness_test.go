package core

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"votify-backend-go/internal/models"
	"votify-backend-go/internal/testutil"
)

type harness struct {
	store      *testutil.Store
	identity   *testutil.FakeIdentity
	queue      *testutil.FakeQueue
	cache      *testutil.MemoryCache
	audit      AuditService
	settings   SettingsService
	reports    ReportService
	candidates CandidateService
	users      UserService
	voting     VotingService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()
	h := &harness{
		store:    testutil.NewStore(),
		identity: testutil.NewFakeIdentity(),
		queue:    &testutil.FakeQueue{},
		cache:    testutil.NewMemoryCache(),
	}
	h.audit = NewAuditService(h.store.Audit(), logger)
	h.settings = NewSettingsService(h.store.Settings(), h.audit, time.UTC, logger)
	h.reports = NewReportService(h.store.Candidates(), h.store.Users(), h.store.Votes(), h.audit,
		ReportServiceConfig{Cache: h.cache, CacheTTL: time.Minute, Location: time.UTC}, logger)
	h.candidates = NewCandidateService(h.store.Candidates(), h.audit, h.reports, logger)
	h.users = NewUserService(h.store.Users(), h.identity, h.audit, h.reports, logger)
	h.voting = NewVotingService(h.store.Votes(), h.settings, h.reports, h.queue, "vote-events", logger)
	return h
}

// seedBallot stores one voter and one candidate per category.
func (h *harness) seedBallot() (maleID, femaleID string) {
	h.store.PutUser(models.User{ID: "u1", Email: "u1@example.com", Role: models.RoleUser})
	maleID = h.store.PutCandidate(models.Candidate{Name: "Budi", Position: "Staff", Gender: models.GenderMale})
	femaleID = h.store.PutCandidate(models.Candidate{Name: "Sari", Position: "Staff", Gender: models.GenderFemale})
	return maleID, femaleID
}
