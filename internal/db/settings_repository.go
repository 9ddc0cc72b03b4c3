package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"votify-backend-go/internal/models"
)

const (
	settingsCollection = "settings"
	votingPeriodDoc    = "votingPeriod"
)

// firestoreSettingsRepository implements SettingsRepository using Firestore.
type firestoreSettingsRepository struct {
	client *firestore.Client
}

// NewFirestoreSettingsRepository creates a new instance of firestoreSettingsRepository.
func NewFirestoreSettingsRepository(client *firestore.Client) SettingsRepository {
	return &firestoreSettingsRepository{client: client}
}

func (r *firestoreSettingsRepository) doc() *firestore.DocumentRef {
	return r.client.Collection(settingsCollection).Doc(votingPeriodDoc)
}

// Get reads the singleton.
func (r *firestoreSettingsRepository) Get(ctx context.Context) (*models.VotingSettings, error) {
	snap, err := r.doc().Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get voting settings: %w", err)
	}
	return decodeSettings(snap)
}

// Save merges the flag and both dates. Nil dates are stored as null.
func (r *firestoreSettingsRepository) Save(ctx context.Context, settings *models.VotingSettings) error {
	data := map[string]interface{}{
		"isEnabled": settings.Enabled(),
		"startDate": timeOrNil(settings.StartDate),
		"endDate":   timeOrNil(settings.EndDate),
	}
	if _, err := r.doc().Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to save voting settings: %w", err)
	}
	return nil
}

// SetEnabled merges only the flag.
func (r *firestoreSettingsRepository) SetEnabled(ctx context.Context, enabled bool) error {
	if _, err := r.doc().Set(ctx, map[string]interface{}{"isEnabled": enabled}, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to toggle voting period: %w", err)
	}
	return nil
}

// Watch calls fn with the current settings on every change. A missing
// document is delivered as nil.
func (r *firestoreSettingsRepository) Watch(ctx context.Context, fn func(*models.VotingSettings, error)) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := r.doc().Snapshots(ctx)

	go func() {
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil && !isCanceled(err) {
					fn(nil, fmt.Errorf("settings listener: %w", err))
				}
				return
			}
			if !snap.Exists() {
				fn(nil, nil)
				continue
			}
			settings, err := decodeSettings(snap)
			fn(settings, err)
		}
	}()

	return Unsubscribe(cancel), nil
}

func decodeSettings(snap *firestore.DocumentSnapshot) (*models.VotingSettings, error) {
	var settings models.VotingSettings
	if err := snap.DataTo(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode voting settings: %w", err)
	}
	return &settings, nil
}

func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
