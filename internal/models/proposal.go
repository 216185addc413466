package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewStatus is shared by proposals and submissions.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

type Proposal struct {
	ID                string       `gorm:"type:varchar(36);primarykey" json:"id"`
	ProjectID         string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_proposals_project_designer" json:"project_id"`
	DesignerID        string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_proposals_project_designer;index" json:"designer_id"`
	DesignerName      string       `gorm:"type:varchar(255)" json:"designer_name"`
	DesignerImage     *string      `gorm:"type:varchar(512)" json:"designer_image"`
	CoverLetter       string       `gorm:"type:text;not null" json:"cover_letter"`
	ProposedBudget    *float64     `json:"proposed_budget"`
	EstimatedDuration *string      `gorm:"type:varchar(100)" json:"estimated_duration"`
	Status            ReviewStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
