package db

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrAlreadyExists is returned when a create hits an existing document.
var ErrAlreadyExists = errors.New("document already exists")

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isCanceled(err error) bool {
	code := status.Code(err)
	return code == codes.Canceled || code == codes.DeadlineExceeded
}
