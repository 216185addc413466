package repository

import (
	"context"

	"github.com/yukikurage/dezx-api/internal/database"
	"github.com/yukikurage/dezx-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 100).Error
}

func (r *GormNotificationRepository) ListForUser(ctx context.Context, userID string, includeBroadcasts bool, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(userID, includeBroadcasts), database.NewestFirst).
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *GormNotificationRepository) ListBroadcasts(ctx context.Context, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("to_user_id IS NULL").
		Scopes(database.NewestFirst).
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkRead reports false when no notification with that id is visible to the user.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, id, userID string, includeBroadcasts bool) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Scopes(visibleTo(userID, includeBroadcasts)).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Scopes(visibleTo(userID, includeBroadcasts)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID string, includeBroadcasts bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("is_read = ?", false).
		Scopes(visibleTo(userID, includeBroadcasts)).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func visibleTo(userID string, includeBroadcasts bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if includeBroadcasts {
			return db.Where("(to_user_id = ? OR to_user_id IS NULL)", userID)
		}
		return db.Where("to_user_id = ?", userID)
	}
}
