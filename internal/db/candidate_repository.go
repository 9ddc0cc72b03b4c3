package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"votify-backend-go/internal/models"
)

const (
	candidatesCollection = "candidates"
	votersCollection     = "voters"
)

// firestoreCandidateRepository implements the CandidateRepository interface using Firestore.
type firestoreCandidateRepository struct {
	client *firestore.Client
}

// NewFirestoreCandidateRepository creates a new instance of firestoreCandidateRepository.
func NewFirestoreCandidateRepository(client *firestore.Client) CandidateRepository {
	return &firestoreCandidateRepository{client: client}
}

// Create adds a candidate with an auto-generated ID and a zero vote count.
func (r *firestoreCandidateRepository) Create(ctx context.Context, candidate *models.Candidate) (string, error) {
	docRef := r.client.Collection(candidatesCollection).NewDoc()
	candidate.ID = docRef.ID
	candidate.VoteCount = 0

	if _, err := docRef.Create(ctx, candidate); err != nil {
		return "", fmt.Errorf("failed to create candidate: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a candidate document by its ID.
func (r *firestoreCandidateRepository) GetByID(ctx context.Context, candidateID string) (*models.Candidate, error) {
	if candidateID == "" {
		return nil, errors.New("candidateID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(candidatesCollection).Doc(candidateID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("candidate with ID '%s' not found: %w", candidateID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get candidate with ID '%s': %w", candidateID, err)
	}
	return decodeCandidate(docSnap)
}

func (r *firestoreCandidateRepository) listQuery() firestore.Query {
	return r.client.Collection(candidatesCollection).OrderBy("voteCount", firestore.Desc)
}

// List returns all candidates, most votes first.
func (r *firestoreCandidateRepository) List(ctx context.Context) ([]*models.Candidate, error) {
	iter := r.listQuery().Documents(ctx)
	defer iter.Stop()

	var candidates []*models.Candidate
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate candidates: %w", err)
		}
		candidate, err := decodeCandidate(doc)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// Update writes the editable fields of an existing candidate.
func (r *firestoreCandidateRepository) Update(ctx context.Context, candidate *models.Candidate) error {
	if candidate.ID == "" {
		return errors.New("candidate ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(candidatesCollection).Doc(candidate.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: candidate.Name},
		{Path: "position", Value: candidate.Position},
		{Path: "gender", Value: candidate.Gender},
		{Path: "imageUrl", Value: candidate.ImageURL},
		{Path: "workplace", Value: candidate.Workplace},
		{Path: "description", Value: candidate.Description},
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("candidate with ID '%s' not found: %w", candidate.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update candidate with ID '%s': %w", candidate.ID, err)
	}
	return nil
}

// Delete removes a candidate document. Its voters sub-collection is kept.
func (r *firestoreCandidateRepository) Delete(ctx context.Context, candidateID string) error {
	if candidateID == "" {
		return errors.New("candidateID cannot be empty for Delete operation")
	}
	if _, err := r.client.Collection(candidatesCollection).Doc(candidateID).Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("candidate with ID '%s' not found for deletion: %w", candidateID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete candidate with ID '%s': %w", candidateID, err)
	}
	return nil
}

// Voters lists the voter records under a candidate, oldest first.
func (r *firestoreCandidateRepository) Voters(ctx context.Context, candidateID string) ([]models.VoterRecord, error) {
	if candidateID == "" {
		return nil, errors.New("candidateID cannot be empty for Voters operation")
	}
	iter := r.client.Collection(candidatesCollection).Doc(candidateID).
		Collection(votersCollection).OrderBy("votedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	records := []models.VoterRecord{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate voters for candidate '%s': %w", candidateID, err)
		}
		var rec models.VoterRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode voter record '%s': %w", doc.Ref.ID, err)
		}
		rec.UserID = doc.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}

// Watch streams the ordered candidate list on every change.
func (r *firestoreCandidateRepository) Watch(ctx context.Context, fn func([]*models.Candidate, error)) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := r.listQuery().Snapshots(ctx)

	go func() {
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil && !isCanceled(err) {
					fn(nil, fmt.Errorf("candidate listener: %w", err))
				}
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				fn(nil, fmt.Errorf("candidate listener: %w", err))
				return
			}
			candidates := make([]*models.Candidate, 0, len(docs))
			for _, doc := range docs {
				candidate, err := decodeCandidate(doc)
				if err != nil {
					fn(nil, err)
					return
				}
				candidates = append(candidates, candidate)
			}
			fn(candidates, nil)
		}
	}()

	return Unsubscribe(cancel), nil
}

func decodeCandidate(doc *firestore.DocumentSnapshot) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := doc.DataTo(&candidate); err != nil {
		return nil, fmt.Errorf("failed to decode candidate data for ID '%s': %w", doc.Ref.ID, err)
	}
	candidate.ID = doc.Ref.ID
	return &candidate, nil
}
