package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository stores the platform settings singleton
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

func (r *GormSettingsRepository) Get(ctx context.Context) (*models.PlatformSettings, error) {
	var settings models.PlatformSettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", constants.PlatformSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultPlatformSettings(constants.PlatformSettingsID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save upserts the singleton row.
func (r *GormSettingsRepository) Save(ctx context.Context, settings *models.PlatformSettings) error {
	settings.ID = constants.PlatformSettingsID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(settings).Error
}

// GormContentRepository stores the site content singleton
type GormContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &GormContentRepository{db: db}
}

func (r *GormContentRepository) Get(ctx context.Context) (*models.SiteContent, error) {
	var content models.SiteContent
	if err := r.db.WithContext(ctx).First(&content, "id = ?", constants.SiteContentID).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *GormContentRepository) Save(ctx context.Context, content *models.SiteContent) error {
	content.ID = constants.SiteContentID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(content).Error
}
