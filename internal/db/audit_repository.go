package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"votify-backend-go/internal/models"
)

const auditLogsCollection = "audit_logs"

// firestoreAuditRepository implements AuditRepository using Firestore.
type firestoreAuditRepository struct {
	client *firestore.Client
}

// NewFirestoreAuditRepository creates a new instance of firestoreAuditRepository.
func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	return &firestoreAuditRepository{client: client}
}

// Create stores an entry under an auto-generated ID. Timestamp is set by
// the server.
func (r *firestoreAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	if _, _, err := r.client.Collection(auditLogsCollection).Add(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (r *firestoreAuditRepository) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	query := r.client.Collection(auditLogsCollection).OrderBy("timestamp", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	logs := []*models.AuditLog{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate audit logs: %w", err)
		}
		var entry models.AuditLog
		if err := doc.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode audit log '%s': %w", doc.Ref.ID, err)
		}
		entry.ID = doc.Ref.ID
		logs = append(logs, &entry)
	}
	return logs, nil
}
