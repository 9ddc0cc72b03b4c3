package messagequeue

import (
	"context"
	"errors"
	"fmt"
)

// ErrPermanent marks a handler error that retrying cannot fix, such as an
// undecodable body.
var ErrPermanent = errors.New("permanent failure")

// Permanent wraps err so the delivery is dropped instead of requeued.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Handler processes one delivery. A nil return acknowledges the message.
// An error requeues it once; a second failure, or an error wrapping
// ErrPermanent, rejects it for good.
type Handler func(ctx context.Context, body []byte) error

// ShouldRequeue reports whether a failed delivery goes back on the queue.
func ShouldRequeue(err error, redelivered bool) bool {
	return err != nil && !redelivered && !errors.Is(err, ErrPermanent)
}

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	// Consume blocks until ctx is cancelled or the delivery channel closes.
	Consume(ctx context.Context, queueName string, handler Handler) error
	Close() error
}
