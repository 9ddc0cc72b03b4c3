package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/models"
)

// userService implements the UserService interface. Every operation that
// touches both the identity account and the profile document undoes the
// first write when the second one fails.
type userService struct {
	userRepo db.UserRepository
	identity IdentityProvider
	audit    AuditService
	reports  ReportService
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance. reports may be nil.
func NewUserService(userRepo db.UserRepository, identity IdentityProvider, audit AuditService, reports ReportService, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		identity: identity,
		audit:    audit,
		reports:  reports,
		logger:   logger,
	}
}

// CreateUser creates the identity account and then its profile. If the
// profile write fails the account is deleted again.
func (s *userService) CreateUser(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrInvalidPassword
	}

	uid, err := s.identity.CreateAccount(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.User{ID: uid, Email: email, Role: models.RoleUser, HasVoted: false}
	if err := s.userRepo.Set(ctx, profile); err != nil {
		if delErr := s.identity.DeleteAccount(ctx, uid); delErr != nil {
			s.logger.Error("Failed to roll back identity account after profile write failure",
				zap.String("uid", uid), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create profile for '%s': %w", email, err)
	}

	s.audit.Record(ctx, actorID, ActionUserCreate, models.TargetUser, uid, map[string]interface{}{"email": email})
	s.invalidate(ctx)
	return profile, nil
}

// UpdateAccount changes the identity email and/or password and mirrors the
// email onto the profile. A failed mirror restores the previous email. A
// request with neither field is a no-op.
func (s *userService) UpdateAccount(ctx context.Context, actorID string, req models.UpdateUserRequest) error {
	if req.UID == "" {
		return fmt.Errorf("%w: uid is required", ErrValidation)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" && req.Password == "" {
		return nil
	}
	if req.Password != "" && len(req.Password) < MinPasswordLength {
		return ErrInvalidPassword
	}

	var previous string
	if email != "" {
		account, err := s.identity.GetAccount(ctx, req.UID)
		if err != nil {
			return err
		}
		previous = account.Email
	}

	if err := s.identity.UpdateAccount(ctx, req.UID, email, req.Password); err != nil {
		return err
	}

	if email != "" {
		if err := s.userRepo.UpdateEmail(ctx, req.UID, email); err != nil {
			if restoreErr := s.identity.UpdateAccount(ctx, req.UID, previous, ""); restoreErr != nil {
				s.logger.Error("Failed to restore identity email after profile write failure",
					zap.String("uid", req.UID), zap.Error(restoreErr))
			}
			return fmt.Errorf("failed to update profile email for '%s': %w", req.UID, err)
		}
	}

	details := map[string]interface{}{"passwordChanged": req.Password != ""}
	if email != "" {
		details["email"] = email
	}
	s.audit.Record(ctx, actorID, ActionUserUpdate, models.TargetUser, req.UID, details)
	return nil
}

// UpdateProfile sets role and hasVoted on the profile only.
func (s *userService) UpdateProfile(ctx context.Context, actorID, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrValidation)
	}
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrValidation, models.RoleUser, models.RoleAdmin)
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, req.Role, req.HasVoted); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to update profile '%s': %w", userID, err)
	}

	s.audit.Record(ctx, actorID, ActionUserProfile, models.TargetUser, userID,
		map[string]interface{}{"role": req.Role, "hasVoted": req.HasVoted})
	s.invalidate(ctx)
	return s.GetByID(ctx, userID)
}

// DeleteUser removes the profile and then the identity account. The profile
// is written back if the account cannot be deleted.
func (s *userService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: uid is required", ErrValidation)
	}
	if _, err := s.identity.GetAccount(ctx, userID); err != nil {
		return err
	}

	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("failed to read profile '%s' before delete: %w", userID, err)
	}
	if profile != nil {
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete profile '%s': %w", userID, err)
		}
	}

	if err := s.identity.DeleteAccount(ctx, userID); err != nil {
		if profile != nil {
			if restoreErr := s.userRepo.Set(ctx, profile); restoreErr != nil {
				s.logger.Error("Failed to restore profile after identity delete failure",
					zap.String("uid", userID), zap.Error(restoreErr))
			}
		}
		return err
	}

	s.audit.Record(ctx, actorID, ActionUserDelete, models.TargetUser, userID, nil)
	s.invalidate(ctx)
	return nil
}

// List returns every profile.
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a profile by UID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	return user, nil
}

// ResolveSession pairs the verified identity with its profile.
func (s *userService) ResolveSession(ctx context.Context, uid, email string) (*models.Session, error) {
	if uid == "" {
		return nil, ErrUnauthenticated
	}
	session := &models.Session{UID: uid, Email: email}
	profile, err := s.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return session, nil
		}
		return nil, err
	}
	session.Profile = profile
	if session.Email == "" {
		session.Email = profile.Email
	}
	return session, nil
}

func (s *userService) invalidate(ctx context.Context) {
	if s.reports != nil {
		s.reports.InvalidateCache(ctx)
	}
}
