package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"votify-backend-go/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

// GetByID retrieves a profile by its Firebase Auth UID.
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}
	return decodeUser(docSnap)
}

// List returns every profile in document ID order.
func (r *firestoreUserRepository) List(ctx context.Context) ([]*models.User, error) {
	iter := r.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var users []*models.User
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}
		user, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Set writes the whole profile document.
func (r *firestoreUserRepository) Set(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Set operation")
	}
	if _, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user); err != nil {
		return fmt.Errorf("failed to write user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// UpdateEmail merges the email field so a missing profile is created rather
// than failing the identity update it mirrors.
func (r *firestoreUserRepository) UpdateEmail(ctx context.Context, userID, email string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for UpdateEmail operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, map[string]interface{}{
		"email": email,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update email for user '%s': %w", userID, err)
	}
	return nil
}

// UpdateProfile changes role and hasVoted on an existing profile.
func (r *firestoreUserRepository) UpdateProfile(ctx context.Context, userID, role string, hasVoted bool) error {
	if userID == "" {
		return errors.New("userID cannot be empty for UpdateProfile operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
		{Path: "hasVoted", Value: hasVoted},
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to update profile for user '%s': %w", userID, err)
	}
	return nil
}

// Delete removes the profile document. Deleting a missing document succeeds.
func (r *firestoreUserRepository) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for Delete operation")
	}
	if _, err := r.client.Collection(usersCollection).Doc(userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user with ID '%s': %w", userID, err)
	}
	return nil
}

func decodeUser(doc *firestore.DocumentSnapshot) (*models.User, error) {
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", doc.Ref.ID, err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}
