package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusClosed     ProjectStatus = "closed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusOpen, ProjectStatusInProgress, ProjectStatusClosed, ProjectStatusCancelled:
		return true
	}
	return false
}

type Project struct {
	ID                 string                      `gorm:"type:varchar(36);primarykey" json:"id"`
	Title              string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description        string                      `gorm:"type:text" json:"description"`
	Category           string                      `gorm:"type:varchar(100);index" json:"category"`
	BudgetMin          *float64                    `json:"budget_min"`
	BudgetMax          *float64                    `json:"budget_max"`
	Deadline           *time.Time                  `json:"deadline"`
	SkillsRequired     datatypes.JSONSlice[string] `json:"skills_required"`
	ClientID           string                      `gorm:"type:varchar(36);not null;index" json:"client_id"`
	ClientName         string                      `gorm:"type:varchar(255)" json:"client_name"`
	Status             ProjectStatus               `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	ApprovedProposalID *string                     `gorm:"type:varchar(36)" json:"approved_proposal_id"`
	IsFeatured         bool                        `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
