package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
)

// NotificationService serves a caller's notification feed. Superadmins also
// see admin broadcasts.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	guard            *access.Guard
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository, guard *access.Guard) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		guard:            guard,
	}
}

// List returns the newest notifications visible to the caller.
func (s *NotificationService) List(ctx context.Context, caller access.Caller) ([]models.Notification, error) {
	if err := s.guard.Check(ctx, caller, access.OpReadNotifications, nil); err != nil {
		return nil, err
	}

	notifications, err := s.notificationRepo.ListForUser(ctx, caller.ID, caller.IsSuperadmin(), constants.NotificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one notification read. Notifications the caller cannot see
// are reported as missing.
func (s *NotificationService) MarkRead(ctx context.Context, caller access.Caller, id string) error {
	if err := s.guard.Check(ctx, caller, access.OpMarkNotification, nil); err != nil {
		return err
	}

	found, err := s.notificationRepo.MarkRead(ctx, id, caller.ID, caller.IsSuperadmin())
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !found {
		return ErrNotificationMissing
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caller access.Caller) (int64, error) {
	if err := s.guard.Check(ctx, caller, access.OpMarkNotification, nil); err != nil {
		return 0, err
	}

	updated, err := s.notificationRepo.MarkAllRead(ctx, caller.ID, caller.IsSuperadmin())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return updated, nil
}
