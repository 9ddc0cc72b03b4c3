// Package notify sends vote receipts to voters from vote.cast events.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"

	"votify-backend-go/internal/core"
	"votify-backend-go/internal/models"
	"votify-backend-go/pkg/messagequeue"
)

// ReceiptSubject is the subject line of every receipt.
const ReceiptSubject = "Bukti Voting Anda"

// Sender delivers one email.
type Sender interface {
	SendEmail(recipient, subject, body string) error
}

// Consumer delivers queue messages to a handler until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, queueName string, handler messagequeue.Handler) error
}

// ReceiptWorker turns vote.cast events into receipt emails.
type ReceiptWorker struct {
	consumer Consumer
	sender   Sender
	queue    string
	loc      *time.Location
	logger   *zap.Logger
}

// NewReceiptWorker creates a worker reading from queue. Times in the email
// are rendered in loc.
func NewReceiptWorker(consumer Consumer, sender Sender, queue string, loc *time.Location, logger *zap.Logger) *ReceiptWorker {
	if loc == nil {
		loc = time.UTC
	}
	return &ReceiptWorker{consumer: consumer, sender: sender, queue: queue, loc: loc, logger: logger}
}

// Run consumes until ctx is cancelled.
func (w *ReceiptWorker) Run(ctx context.Context) error {
	w.logger.Info("Receipt worker started", zap.String("queue", w.queue))
	return w.consumer.Consume(ctx, w.queue, w.Handle)
}

// Handle processes one event body. Events without a voter email are
// acknowledged and skipped.
func (w *ReceiptWorker) Handle(_ context.Context, body []byte) error {
	var event models.VoteCastEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return messagequeue.Permanent(fmt.Errorf("failed to decode vote.cast event: %w", err))
	}
	if event.VoterEmail == "" {
		w.logger.Info("Skipping receipt without recipient", zap.String("userID", event.UserID))
		return nil
	}

	if err := w.sender.SendEmail(event.VoterEmail, ReceiptSubject, RenderReceipt(event, w.loc)); err != nil {
		return fmt.Errorf("failed to send receipt to user '%s': %w", event.UserID, err)
	}
	w.logger.Info("Receipt sent", zap.String("userID", event.UserID))
	return nil
}

// RenderReceipt builds the HTML body of a receipt.
func RenderReceipt(event models.VoteCastEvent, loc *time.Location) string {
	name := func(n, id string) string {
		if n == "" {
			n = id
		}
		return html.EscapeString(n)
	}

	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<p>Terima kasih, suara Anda telah tercatat.</p>")
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>%s: %s</li>", models.GenderMale, name(event.MaleCandidateName, event.MaleCandidateID))
	fmt.Fprintf(&b, "<li>%s: %s</li>", models.GenderFemale, name(event.FemaleCandidateName, event.FemaleCandidateID))
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Waktu: %s</p>", html.EscapeString(core.FormatIndonesian(event.VotedAt, loc)))
	b.WriteString("</body></html>")
	return b.String()
}
