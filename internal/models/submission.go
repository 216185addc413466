package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Submission struct {
	ID             string       `gorm:"type:varchar(36);primarykey" json:"id"`
	CompetitionID  string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_submissions_competition_designer;uniqueIndex:idx_submissions_competition_position" json:"competition_id"`
	DesignerID     string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_submissions_competition_designer;index" json:"designer_id"`
	DesignerName   string       `gorm:"type:varchar(255)" json:"designer_name"`
	DesignerImage  *string      `gorm:"type:varchar(512)" json:"designer_image"`
	Title          string       `gorm:"type:varchar(255);not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	Status         ReviewStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	IsWinner       bool         `gorm:"not null;default:false" json:"is_winner"`
	WinnerPosition *int         `gorm:"uniqueIndex:idx_submissions_competition_position" json:"winner_position"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
