package core

import (
	"errors"

	"votify-backend-go/internal/ballot"
	"votify-backend-go/internal/identity"
)

// Errors returned by the services. Handlers map them to HTTP status codes
// with errors.Is.
var (
	ErrAlreadyVoted      = ballot.ErrAlreadyVoted
	ErrInvalidCandidate  = ballot.ErrInvalidCandidate
	ErrUserNotFound      = ballot.ErrUserNotFound
	ErrEmailExists       = identity.ErrEmailExists
	ErrAccountNotFound   = identity.ErrAccountNotFound
	ErrVotingClosed      = errors.New("voting is not open")
	ErrIncompleteBallot  = errors.New("a candidate must be chosen in both categories")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInvalidPassword   = errors.New("password must be at least 6 characters")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("admin role required")
	ErrUnauthenticated   = errors.New("no active session")
)

// MinPasswordLength is the shortest password the identity provider accepts.
const MinPasswordLength = 6
