// Package testutil holds in-memory stand-ins for Firestore, Firebase Auth,
// Redis and RabbitMQ, plus HTTP helpers for handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"votify-backend-go/internal/ballot"
	"votify-backend-go/internal/db"
	"votify-backend-go/internal/models"
)

// Store is an in-memory document store. One mutex serializes every
// operation, so SubmitVote behaves like a serializable transaction.
type Store struct {
	mu         sync.Mutex
	users      map[string]models.User
	candidates map[string]models.Candidate
	voters     map[string]map[string]models.VoterRecord
	settings   *models.VotingSettings
	audit      []models.AuditLog
	failures   map[string]error
	nextID     int

	candidateWatchers map[int]func([]*models.Candidate, error)
	settingsWatchers  map[int]func(*models.VotingSettings, error)
	nextWatcher       int

	Now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:             map[string]models.User{},
		candidates:        map[string]models.Candidate{},
		voters:            map[string]map[string]models.VoterRecord{},
		failures:          map[string]error{},
		candidateWatchers: map[int]func([]*models.Candidate, error){},
		settingsWatchers:  map[int]func(*models.VotingSettings, error){},
		Now:               time.Now,
	}
}

// FailOn makes the named operation (e.g. "users.Set") return err until
// cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

// PutUser seeds a profile.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutCandidate seeds a candidate and returns its id.
func (s *Store) PutCandidate(c models.Candidate) string {
	s.mu.Lock()
	if c.ID == "" {
		s.nextID++
		c.ID = fmt.Sprintf("cand-%d", s.nextID)
	}
	s.candidates[c.ID] = c
	s.mu.Unlock()
	s.notifyCandidates()
	return c.ID
}

// PutSettings seeds the voting period singleton.
func (s *Store) PutSettings(settings *models.VotingSettings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	s.notifySettings()
}

// User returns a copy of a stored profile.
func (s *Store) User(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// Candidate returns a copy of a stored candidate.
func (s *Store) Candidate(id string) (models.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	return c, ok
}

// VoterRecords returns the voter records under a candidate.
func (s *Store) VoterRecords(candidateID string) map[string]models.VoterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]models.VoterRecord{}
	for k, v := range s.voters[candidateID] {
		out[k] = v
	}
	return out
}

// AuditLogs returns every recorded audit entry.
func (s *Store) AuditLogs() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog(nil), s.audit...)
}

// Users returns the profile repository view.
func (s *Store) Users() db.UserRepository { return userRepo{s} }

// Candidates returns the candidate repository view.
func (s *Store) Candidates() db.CandidateRepository { return candidateRepo{s} }

// Settings returns the settings repository view.
func (s *Store) Settings() db.SettingsRepository { return settingsRepo{s} }

// Votes returns the vote repository view.
func (s *Store) Votes() db.VoteRepository { return voteRepo{s} }

// Audit returns the audit repository view.
func (s *Store) Audit() db.AuditRepository { return auditRepo{s} }

func (s *Store) candidateListLocked() []*models.Candidate {
	list := make([]*models.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		c := c
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].VoteCount != list[j].VoteCount {
			return list[i].VoteCount > list[j].VoteCount
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (s *Store) notifyCandidates() {
	s.mu.Lock()
	list := s.candidateListLocked()
	watchers := make([]func([]*models.Candidate, error), 0, len(s.candidateWatchers))
	for _, w := range s.candidateWatchers {
		watchers = append(watchers, w)
	}
	s.mu.Unlock()
	for _, w := range watchers {
		w(list, nil)
	}
}

func (s *Store) notifySettings() {
	s.mu.Lock()
	settings := copySettings(s.settings)
	watchers := make([]func(*models.VotingSettings, error), 0, len(s.settingsWatchers))
	for _, w := range s.settingsWatchers {
		watchers = append(watchers, w)
	}
	s.mu.Unlock()
	for _, w := range watchers {
		w(settings, nil)
	}
}

func copySettings(in *models.VotingSettings) *models.VotingSettings {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// userRepo

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, db.ErrNotFound)
	}
	return &u, nil
}

func (r userRepo) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.List"); err != nil {
		return nil, err
	}
	list := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r userRepo) Set(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Set"); err != nil {
		return err
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) UpdateEmail(_ context.Context, userID, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.UpdateEmail"); err != nil {
		return err
	}
	u := r.s.users[userID]
	u.ID = userID
	u.Email = email
	r.s.users[userID] = u
	return nil
}

func (r userRepo) UpdateProfile(_ context.Context, userID, role string, hasVoted bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return fmt.Errorf("user with ID '%s' not found: %w", userID, db.ErrNotFound)
	}
	u.Role, u.HasVoted = role, hasVoted
	r.s.users[userID] = u
	return nil
}

func (r userRepo) Delete(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Delete"); err != nil {
		return err
	}
	delete(r.s.users, userID)
	return nil
}

// candidateRepo

type candidateRepo struct{ s *Store }

func (r candidateRepo) Create(_ context.Context, candidate *models.Candidate) (string, error) {
	r.s.mu.Lock()
	if err := r.s.fail("candidates.Create"); err != nil {
		r.s.mu.Unlock()
		return "", err
	}
	r.s.nextID++
	candidate.ID = fmt.Sprintf("cand-%d", r.s.nextID)
	candidate.VoteCount = 0
	r.s.candidates[candidate.ID] = *candidate
	r.s.mu.Unlock()
	r.s.notifyCandidates()
	return candidate.ID, nil
}

func (r candidateRepo) GetByID(_ context.Context, candidateID string) (*models.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.candidates[candidateID]
	if !ok {
		return nil, fmt.Errorf("candidate with ID '%s' not found: %w", candidateID, db.ErrNotFound)
	}
	return &c, nil
}

func (r candidateRepo) List(_ context.Context) ([]*models.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("candidates.List"); err != nil {
		return nil, err
	}
	return r.s.candidateListLocked(), nil
}

func (r candidateRepo) Update(_ context.Context, candidate *models.Candidate) error {
	r.s.mu.Lock()
	existing, ok := r.s.candidates[candidate.ID]
	if !ok {
		r.s.mu.Unlock()
		return fmt.Errorf("candidate with ID '%s' not found: %w", candidate.ID, db.ErrNotFound)
	}
	updated := *candidate
	updated.VoteCount = existing.VoteCount
	r.s.candidates[candidate.ID] = updated
	r.s.mu.Unlock()
	r.s.notifyCandidates()
	return nil
}

func (r candidateRepo) Delete(_ context.Context, candidateID string) error {
	r.s.mu.Lock()
	if _, ok := r.s.candidates[candidateID]; !ok {
		r.s.mu.Unlock()
		return fmt.Errorf("candidate with ID '%s' not found for deletion: %w", candidateID, db.ErrNotFound)
	}
	delete(r.s.candidates, candidateID)
	r.s.mu.Unlock()
	r.s.notifyCandidates()
	return nil
}

func (r candidateRepo) Voters(_ context.Context, candidateID string) ([]models.VoterRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	records := []models.VoterRecord{}
	for _, rec := range r.s.voters[candidateID] {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].VotedAt.Before(records[j].VotedAt) })
	return records, nil
}

func (r candidateRepo) Watch(ctx context.Context, fn func([]*models.Candidate, error)) (db.Unsubscribe, error) {
	r.s.mu.Lock()
	r.s.nextWatcher++
	id := r.s.nextWatcher
	r.s.candidateWatchers[id] = fn
	list := r.s.candidateListLocked()
	r.s.mu.Unlock()

	fn(list, nil)
	return watchUntil(ctx, func() {
		r.s.mu.Lock()
		delete(r.s.candidateWatchers, id)
		r.s.mu.Unlock()
	}), nil
}

// settingsRepo

type settingsRepo struct{ s *Store }

func (r settingsRepo) Get(_ context.Context) (*models.VotingSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("settings.Get"); err != nil {
		return nil, err
	}
	return copySettings(r.s.settings), nil
}

func (r settingsRepo) Save(_ context.Context, settings *models.VotingSettings) error {
	r.s.mu.Lock()
	enabled := settings.Enabled()
	stored := &models.VotingSettings{IsEnabled: &enabled, StartDate: settings.StartDate, EndDate: settings.EndDate}
	r.s.settings = stored
	r.s.mu.Unlock()
	r.s.notifySettings()
	return nil
}

func (r settingsRepo) SetEnabled(_ context.Context, enabled bool) error {
	r.s.mu.Lock()
	if r.s.settings == nil {
		r.s.settings = &models.VotingSettings{}
	}
	r.s.settings.IsEnabled = &enabled
	r.s.mu.Unlock()
	r.s.notifySettings()
	return nil
}

func (r settingsRepo) Watch(ctx context.Context, fn func(*models.VotingSettings, error)) (db.Unsubscribe, error) {
	r.s.mu.Lock()
	r.s.nextWatcher++
	id := r.s.nextWatcher
	r.s.settingsWatchers[id] = fn
	current := copySettings(r.s.settings)
	r.s.mu.Unlock()

	fn(current, nil)
	return watchUntil(ctx, func() {
		r.s.mu.Lock()
		delete(r.s.settingsWatchers, id)
		r.s.mu.Unlock()
	}), nil
}

// watchUntil removes a watcher on unsubscribe or when ctx is done.
func watchUntil(ctx context.Context, remove func()) db.Unsubscribe {
	var once sync.Once
	stop := make(chan struct{})
	unsubscribe := func() {
		once.Do(func() {
			close(stop)
			remove()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-stop:
		}
	}()
	return unsubscribe
}

// voteRepo

type voteRepo struct{ s *Store }

func (r voteRepo) SubmitVote(_ context.Context, userID, voterEmail, maleID, femaleID string) (*ballot.Plan, error) {
	r.s.mu.Lock()
	if err := r.s.fail("votes.SubmitVote"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}

	var reads ballot.Reads
	if u, ok := r.s.users[userID]; ok {
		reads.User = &u
	}
	if c, ok := r.s.candidates[maleID]; ok {
		reads.Male = &c
	}
	if c, ok := r.s.candidates[femaleID]; ok {
		reads.Female = &c
	}

	plan, err := ballot.Build(reads, voterEmail, r.s.Now())
	if err != nil {
		r.s.mu.Unlock()
		return nil, err
	}

	male, female, user := *reads.Male, *reads.Female, *reads.User
	male.VoteCount, female.VoteCount, user.HasVoted = plan.MaleVoteCount, plan.FemaleVoteCount, true
	r.s.candidates[maleID], r.s.candidates[femaleID], r.s.users[userID] = male, female, user
	for _, id := range []string{maleID, femaleID} {
		if r.s.voters[id] == nil {
			r.s.voters[id] = map[string]models.VoterRecord{}
		}
		r.s.voters[id][userID] = plan.Record
	}
	r.s.mu.Unlock()

	r.s.notifyCandidates()
	return plan, nil
}

func (r voteRepo) ResetVotes(_ context.Context) (*db.ResetResult, error) {
	r.s.mu.Lock()
	if err := r.s.fail("votes.ResetVotes"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	for id, u := range r.s.users {
		u.HasVoted = false
		r.s.users[id] = u
	}
	for id, c := range r.s.candidates {
		c.VoteCount = 0
		r.s.candidates[id] = c
	}
	res := &db.ResetResult{Users: len(r.s.users), Candidates: len(r.s.candidates)}
	r.s.mu.Unlock()

	r.s.notifyCandidates()
	return res, nil
}

// auditRepo

type auditRepo struct{ s *Store }

func (r auditRepo) Create(_ context.Context, logEntry models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	logEntry.ID = fmt.Sprintf("audit-%d", len(r.s.audit)+1)
	r.s.audit = append(r.s.audit, logEntry)
	return nil
}

func (r auditRepo) List(_ context.Context, limit int) ([]*models.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.AuditLog{}
	for i := len(r.s.audit) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		entry := r.s.audit[i]
		out = append(out, &entry)
	}
	return out, nil
}
