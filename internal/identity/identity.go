// Package identity wraps Firebase Authentication: account management for
// the admin surface and ID token verification for the middleware.
package identity

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

var (
	ErrEmailExists     = errors.New("email address is already in use")
	ErrAccountNotFound = errors.New("identity account not found")
)

// Account is the identity-side view of a user.
type Account struct {
	UID   string
	Email string
}

// Token is the verified content of an ID token.
type Token struct {
	UID   string
	Email string
}

// authClient is the subset of *auth.Client used here.
type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseProvider implements account management and token verification on
// top of the Firebase Admin SDK.
type FirebaseProvider struct {
	client authClient
}

// NewFirebaseProvider wraps an initialized auth client.
func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

// CreateAccount creates an email/password account and returns its UID.
func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return "", mapError(err)
	}
	return record.UID, nil
}

// UpdateAccount changes the email and/or password. Empty values are left
// unchanged.
func (p *FirebaseProvider) UpdateAccount(ctx context.Context, uid, email, password string) error {
	params := &auth.UserToUpdate{}
	if email != "" {
		params = params.Email(email)
	}
	if password != "" {
		params = params.Password(password)
	}
	if _, err := p.client.UpdateUser(ctx, uid, params); err != nil {
		return mapError(err)
	}
	return nil
}

// DeleteAccount removes the account.
func (p *FirebaseProvider) DeleteAccount(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return mapError(err)
	}
	return nil
}

// GetAccount looks an account up by UID.
func (p *FirebaseProvider) GetAccount(ctx context.Context, uid string) (*Account, error) {
	record, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return nil, mapError(err)
	}
	return &Account{UID: record.UID, Email: record.Email}, nil
}

// VerifyIDToken checks the token signature and expiry.
func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	email, _ := token.Claims["email"].(string)
	return &Token{UID: token.UID, Email: email}, nil
}

func mapError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return fmt.Errorf("%w: %v", ErrEmailExists, err)
	case auth.IsUserNotFound(err):
		return fmt.Errorf("%w: %v", ErrAccountNotFound, err)
	default:
		return err
	}
}
