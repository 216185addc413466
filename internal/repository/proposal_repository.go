package repository

import (
	"context"

	"github.com/yukikurage/dezx-api/internal/database"
	"github.com/yukikurage/dezx-api/internal/models"
	"gorm.io/gorm"
)

// GormProposalRepository is a GORM implementation of ProposalRepository
type GormProposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new ProposalRepository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &GormProposalRepository{db: db}
}

func (r *GormProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *GormProposalRepository) FindByID(ctx context.Context, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := r.db.WithContext(ctx).First(&proposal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *GormProposalRepository) ListByProject(ctx context.Context, projectID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Scopes(database.NewestFirst).
		Find(&proposals).Error
	return proposals, err
}

func (r *GormProposalRepository) ListByDesigner(ctx context.Context, designerID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).
		Where("designer_id = ?", designerID).
		Scopes(database.NewestFirst).
		Find(&proposals).Error
	return proposals, err
}

func (r *GormProposalRepository) Exists(ctx context.Context, projectID, designerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("project_id = ? AND designer_id = ?", projectID, designerID).
		Count(&count).Error
	return count > 0, err
}

// Approve runs the approval cascade. The conditional update makes a second
// approval of the same proposal fail with ErrProposalNotPending.
func (r *GormProposalRepository) Approve(ctx context.Context, proposalID, projectID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Proposal{}).
			Where("id = ? AND status = ?", proposalID, models.ReviewStatusPending).
			Update("status", models.ReviewStatusApproved)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProposalNotPending
		}

		if err := tx.Model(&models.Proposal{}).
			Where("project_id = ? AND id <> ?", projectID, proposalID).
			Update("status", models.ReviewStatusRejected).Error; err != nil {
			return err
		}

		return tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Updates(map[string]interface{}{
				"status":               models.ProjectStatusInProgress,
				"approved_proposal_id": proposalID,
			}).Error
	})
}

func (r *GormProposalRepository) Reject(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("id = ?", id).
		Update("status", models.ReviewStatusRejected).Error
}

func (r *GormProposalRepository) CountByProjects(ctx context.Context, projectIDs []string) (map[string]int64, error) {
	return countGrouped(ctx, r.db, &models.Proposal{}, "project_id", projectIDs)
}

func (r *GormProposalRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Proposal{}).Count(&count).Error
	return count, err
}
