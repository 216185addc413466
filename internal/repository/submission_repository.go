package repository

import (
	"context"

	"github.com/yukikurage/dezx-api/internal/database"
	"github.com/yukikurage/dezx-api/internal/models"
	"gorm.io/gorm"
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

func (r *GormSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *GormSubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListByCompetition lists entries with winners first by position, then newest
func (r *GormSubmissionRepository) ListByCompetition(ctx context.Context, competitionID string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Order("is_winner DESC").
		Order("winner_position ASC").
		Scopes(database.NewestFirst).
		Find(&submissions).Error
	return submissions, err
}

func (r *GormSubmissionRepository) ListByDesigner(ctx context.Context, designerID string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("designer_id = ?", designerID).
		Scopes(database.NewestFirst).
		Find(&submissions).Error
	return submissions, err
}

func (r *GormSubmissionRepository) Exists(ctx context.Context, competitionID, designerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("competition_id = ? AND designer_id = ?", competitionID, designerID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormSubmissionRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Updates(fields).Error
}

// SetWinner clears the previous holder before assigning so the unique
// (competition, position) index is never violated inside the transaction.
func (r *GormSubmissionRepository) SetWinner(ctx context.Context, submission *models.Submission, position int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Submission{}).
			Where("competition_id = ? AND winner_position = ? AND id <> ?", submission.CompetitionID, position, submission.ID).
			Updates(map[string]interface{}{
				"is_winner":       false,
				"winner_position": nil,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Submission{}).
			Where("id = ?", submission.ID).
			Updates(map[string]interface{}{
				"is_winner":       true,
				"winner_position": position,
				"status":          models.ReviewStatusApproved,
			}).Error; err != nil {
			return err
		}

		var competition models.Competition
		if err := tx.First(&competition, "id = ?", submission.CompetitionID).Error; err != nil {
			return err
		}
		if !competition.AddWinner(submission.DesignerID) {
			return nil
		}
		return tx.Model(&models.Competition{}).
			Where("id = ?", competition.ID).
			Update("winner_ids", competition.WinnerIDs).Error
	})
}

func (r *GormSubmissionRepository) RemoveWinner(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_winner":       false,
			"winner_position": nil,
		}).Error
}

func (r *GormSubmissionRepository) CountByCompetitions(ctx context.Context, competitionIDs []string) (map[string]int64, error) {
	return countGrouped(ctx, r.db, &models.Submission{}, "competition_id", competitionIDs)
}

func (r *GormSubmissionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).Count(&count).Error
	return count, err
}
