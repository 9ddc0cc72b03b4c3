package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"votify-backend-go/internal/identity"
	"votify-backend-go/pkg/messagequeue"
)

// FakeIdentity is an in-memory identity provider and token verifier.
// Tokens are registered with AddToken.
type FakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]identity.Account
	tokens   map[string]identity.Token
	failures map[string]error
	nextID   int
}

// NewFakeIdentity returns an empty provider.
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{
		accounts: map[string]identity.Account{},
		tokens:   map[string]identity.Token{},
		failures: map[string]error{},
	}
}

// FailOn makes the named method ("CreateAccount", "UpdateAccount",
// "DeleteAccount", "GetAccount") return err.
func (f *FakeIdentity) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, method)
		return
	}
	f.failures[method] = err
}

// PutAccount seeds an account.
func (f *FakeIdentity) PutAccount(uid, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[uid] = identity.Account{UID: uid, Email: email}
}

// Account returns a seeded or created account.
func (f *FakeIdentity) Account(uid string) (identity.Account, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[uid]
	return a, ok
}

// AddToken makes token verify as uid/email.
func (f *FakeIdentity) AddToken(token, uid, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = identity.Token{UID: uid, Email: email}
}

func (f *FakeIdentity) emailTakenLocked(email, except string) bool {
	for uid, a := range f.accounts {
		if uid != except && a.Email == email {
			return true
		}
	}
	return false
}

func (f *FakeIdentity) CreateAccount(_ context.Context, email, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures["CreateAccount"]; err != nil {
		return "", err
	}
	if f.emailTakenLocked(email, "") {
		return "", fmt.Errorf("%w: %s", identity.ErrEmailExists, email)
	}
	f.nextID++
	uid := fmt.Sprintf("uid-%d", f.nextID)
	f.accounts[uid] = identity.Account{UID: uid, Email: email}
	return uid, nil
}

func (f *FakeIdentity) UpdateAccount(_ context.Context, uid, email, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures["UpdateAccount"]; err != nil {
		return err
	}
	a, ok := f.accounts[uid]
	if !ok {
		return fmt.Errorf("%w: %s", identity.ErrAccountNotFound, uid)
	}
	if email != "" {
		if f.emailTakenLocked(email, uid) {
			return fmt.Errorf("%w: %s", identity.ErrEmailExists, email)
		}
		a.Email = email
	}
	f.accounts[uid] = a
	return nil
}

func (f *FakeIdentity) DeleteAccount(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures["DeleteAccount"]; err != nil {
		return err
	}
	if _, ok := f.accounts[uid]; !ok {
		return fmt.Errorf("%w: %s", identity.ErrAccountNotFound, uid)
	}
	delete(f.accounts, uid)
	return nil
}

func (f *FakeIdentity) GetAccount(_ context.Context, uid string) (*identity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures["GetAccount"]; err != nil {
		return nil, err
	}
	a, ok := f.accounts[uid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", identity.ErrAccountNotFound, uid)
	}
	return &a, nil
}

func (f *FakeIdentity) VerifyIDToken(_ context.Context, idToken string) (*identity.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok, ok := f.tokens[idToken]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &tok, nil
}

// Message is one published message.
type Message struct {
	Queue string
	Body  []byte
}

// FakeQueue records published messages and replays them to Consume.
type FakeQueue struct {
	mu       sync.Mutex
	Messages []Message
	Rejected []error
	Err      error
}

func (q *FakeQueue) Publish(_ context.Context, queueName string, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Messages = append(q.Messages, Message{Queue: queueName, Body: body})
	return nil
}

// Consume hands every recorded message for queueName to handler in order,
// then returns. Handler errors are collected into Rejected.
func (q *FakeQueue) Consume(ctx context.Context, queueName string, handler messagequeue.Handler) error {
	for _, m := range q.Published() {
		if m.Queue != queueName {
			continue
		}
		if err := handler(ctx, m.Body); err != nil {
			q.mu.Lock()
			q.Rejected = append(q.Rejected, err)
			q.mu.Unlock()
		}
	}
	return nil
}

// Published returns a copy of the recorded messages.
func (q *FakeQueue) Published() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Message(nil), q.Messages...)
}

// MemoryCache is a map-backed cache that ignores expiration.
type MemoryCache struct {
	mu      sync.Mutex
	values  map[string]string
	Deletes int
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: map[string]string{}}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	c.Deletes++
	return nil
}

// Has reports whether key is cached.
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}
