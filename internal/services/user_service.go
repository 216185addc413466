package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
	"github.com/yukikurage/dezx-api/internal/utils"
)

// UserService handles profiles and user moderation.
type UserService struct {
	userRepo repository.UserRepository
	guard    *access.Guard
	notifier *Notifier
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, guard *access.Guard, notifier *Notifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		guard:    guard,
		notifier: notifier,
	}
}

// List returns users for the admin console.
func (s *UserService) List(ctx context.Context, caller access.Caller, role *models.Role, page utils.PaginationParams) ([]models.User, int64, error) {
	if err := s.guard.Check(ctx, caller, access.OpListUsers, nil); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(ctx, repository.UserFilter{Role: role, Page: page})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Get returns a public profile.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return findUser(ctx, s.userRepo, id)
}

// UpdateProfileInput holds the editable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	Name         *string
	Bio          *string
	ProfileImage *string
	Skills       *[]string
}

// UpdateProfile edits the caller's own profile, or any profile for a superadmin.
func (s *UserService) UpdateProfile(ctx context.Context, caller access.Caller, id string, input UpdateProfileInput) (*models.User, error) {
	if err := s.guard.Check(ctx, caller, access.OpUpdateProfile, &access.Target{OwnerID: id}); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validation("Name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Bio != nil {
		fields["bio"] = *input.Bio
	}
	if input.ProfileImage != nil {
		fields["profile_image"] = *input.ProfileImage
	}
	if input.Skills != nil {
		fields["skills"] = jsonStrings(*input.Skills)
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return findUser(ctx, s.userRepo, id)
}

// SetBlocked blocks or unblocks a user.
func (s *UserService) SetBlocked(ctx context.Context, caller access.Caller, id string, blocked bool) (*models.User, error) {
	action, verb := models.AuditActionUnblock, "Unblocked"
	if blocked {
		action, verb = models.AuditActionBlock, "Blocked"
	}
	return s.moderate(ctx, caller, id, "is_blocked", blocked, action, verb)
}

// SetFeatured features or unfeatures a user.
func (s *UserService) SetFeatured(ctx context.Context, caller access.Caller, id string, featured bool) (*models.User, error) {
	action, verb := models.AuditActionUnfeature, "Unfeatured"
	if featured {
		action, verb = models.AuditActionFeature, "Featured"
	}
	return s.moderate(ctx, caller, id, "is_featured", featured, action, verb)
}

// Delete removes a user account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller access.Caller, id string) error {
	if err := s.guard.Check(ctx, caller, access.OpModerateUser, nil); err != nil {
		return err
	}
	if id == caller.ID {
		return ErrCannotModerateSelf
	}

	user, err := findUser(ctx, s.userRepo, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionDelete,
		EntityType:  models.EntityUser,
		EntityID:    id,
		Description: fmt.Sprintf("Deleted user %s (%s)", user.Name, user.Email),
	})
	return nil
}

func (s *UserService) moderate(ctx context.Context, caller access.Caller, id, column string, value bool, action models.AuditAction, verb string) (*models.User, error) {
	if err := s.guard.Check(ctx, caller, access.OpModerateUser, nil); err != nil {
		return nil, err
	}
	if action == models.AuditActionBlock && id == caller.ID {
		return nil, ErrCannotModerateSelf
	}

	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{column: value}); err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user, err := findUser(ctx, s.userRepo, id)
	if err != nil {
		return nil, err
	}

	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      action,
		EntityType:  models.EntityUser,
		EntityID:    id,
		Description: fmt.Sprintf("%s user %s", verb, user.Name),
	})
	return user, nil
}
