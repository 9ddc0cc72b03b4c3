package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"votify-backend-go/internal/ballot"
)

// batchLimit is the maximum number of writes in one Firestore batch.
const batchLimit = 500

// firestoreVoteRepository implements VoteRepository using Firestore.
type firestoreVoteRepository struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreVoteRepository creates a new instance of firestoreVoteRepository.
func NewFirestoreVoteRepository(client *firestore.Client) VoteRepository {
	return &firestoreVoteRepository{client: client, now: time.Now}
}

// SubmitVote runs the ballot inside a Firestore transaction. All three
// documents are read in one GetAll before any write, and the plan is
// rebuilt from fresh reads whenever Firestore retries the transaction.
func (r *firestoreVoteRepository) SubmitVote(ctx context.Context, userID, voterEmail, maleID, femaleID string) (*ballot.Plan, error) {
	if userID == "" {
		return nil, ballot.ErrUserNotFound
	}
	if maleID == "" || femaleID == "" {
		return nil, fmt.Errorf("%w: both candidate ids are required", ballot.ErrInvalidCandidate)
	}

	userRef := r.client.Collection(usersCollection).Doc(userID)
	maleRef := r.client.Collection(candidatesCollection).Doc(maleID)
	femaleRef := r.client.Collection(candidatesCollection).Doc(femaleID)

	var plan *ballot.Plan
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.GetAll([]*firestore.DocumentRef{userRef, maleRef, femaleRef})
		if err != nil {
			return err
		}
		reads, err := ballotReads(snaps)
		if err != nil {
			return err
		}

		p, err := ballot.Build(reads, voterEmail, r.now())
		if err != nil {
			return err
		}

		if err := tx.Update(maleRef, []firestore.Update{{Path: "voteCount", Value: p.MaleVoteCount}}); err != nil {
			return err
		}
		if err := tx.Update(femaleRef, []firestore.Update{{Path: "voteCount", Value: p.FemaleVoteCount}}); err != nil {
			return err
		}
		if err := tx.Update(userRef, []firestore.Update{{Path: "hasVoted", Value: true}}); err != nil {
			return err
		}
		if err := tx.Set(maleRef.Collection(votersCollection).Doc(userID), p.Record); err != nil {
			return err
		}
		if err := tx.Set(femaleRef.Collection(votersCollection).Doc(userID), p.Record); err != nil {
			return err
		}

		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func ballotReads(snaps []*firestore.DocumentSnapshot) (ballot.Reads, error) {
	var reads ballot.Reads
	if len(snaps) != 3 {
		return reads, fmt.Errorf("expected 3 snapshots, got %d", len(snaps))
	}
	if snaps[0].Exists() {
		user, err := decodeUser(snaps[0])
		if err != nil {
			return reads, err
		}
		reads.User = user
	}
	if snaps[1].Exists() {
		male, err := decodeCandidate(snaps[1])
		if err != nil {
			return reads, err
		}
		reads.Male = male
	}
	if snaps[2].Exists() {
		female, err := decodeCandidate(snaps[2])
		if err != nil {
			return reads, err
		}
		reads.Female = female
	}
	return reads, nil
}

// ResetVotes sets hasVoted=false on every user and voteCount=0 on every
// candidate in batches of at most batchLimit writes. Voter sub-collections
// are left in place.
func (r *firestoreVoteRepository) ResetVotes(ctx context.Context) (*ResetResult, error) {
	userRefs, err := r.collectRefs(ctx, usersCollection)
	if err != nil {
		return nil, err
	}
	candidateRefs, err := r.collectRefs(ctx, candidatesCollection)
	if err != nil {
		return nil, err
	}

	type write struct {
		ref   *firestore.DocumentRef
		path  string
		value interface{}
	}
	writes := make([]write, 0, len(userRefs)+len(candidateRefs))
	for _, ref := range userRefs {
		writes = append(writes, write{ref: ref, path: "hasVoted", value: false})
	}
	for _, ref := range candidateRefs {
		writes = append(writes, write{ref: ref, path: "voteCount", value: 0})
	}

	for start := 0; start < len(writes); start += batchLimit {
		end := start + batchLimit
		if end > len(writes) {
			end = len(writes)
		}
		batch := r.client.Batch() //nolint:staticcheck // BulkWriter is not atomic per chunk
		for _, w := range writes[start:end] {
			batch.Update(w.ref, []firestore.Update{{Path: w.path, Value: w.value}})
		}
		if _, err := batch.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit reset batch at offset %d: %w", start, err)
		}
	}

	return &ResetResult{Users: len(userRefs), Candidates: len(candidateRefs)}, nil
}

func (r *firestoreVoteRepository) collectRefs(ctx context.Context, collection string) ([]*firestore.DocumentRef, error) {
	iter := r.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
		}
		refs = append(refs, doc.Ref)
	}
	return refs, nil
}
