package repository

import (
	"context"

	"github.com/yukikurage/dezx-api/internal/database"
	"github.com/yukikurage/dezx-api/internal/models"
	"gorm.io/gorm"
)

// GormCompetitionRepository is a GORM implementation of CompetitionRepository
type GormCompetitionRepository struct {
	db *gorm.DB
}

// NewCompetitionRepository creates a new CompetitionRepository
func NewCompetitionRepository(db *gorm.DB) CompetitionRepository {
	return &GormCompetitionRepository{db: db}
}

func (r *GormCompetitionRepository) Create(ctx context.Context, competition *models.Competition) error {
	return r.db.WithContext(ctx).Create(competition).Error
}

func (r *GormCompetitionRepository) FindByID(ctx context.Context, id string) (*models.Competition, error) {
	var competition models.Competition
	if err := r.db.WithContext(ctx).First(&competition, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &competition, nil
}

func (r *GormCompetitionRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Competition, error) {
	result := make(map[string]models.Competition, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.Competition
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

func (r *GormCompetitionRepository) List(ctx context.Context, filter CompetitionFilter) ([]models.Competition, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Competition{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var competitions []models.Competition
	if err := query.Scopes(database.NewestFirst, database.Paginate(filter.Page)).Find(&competitions).Error; err != nil {
		return nil, 0, err
	}
	return competitions, total, nil
}

func (r *GormCompetitionRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Competition{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a competition and its submissions
func (r *GormCompetitionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("competition_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Competition{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormCompetitionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Competition{}).Count(&count).Error
	return count, err
}
