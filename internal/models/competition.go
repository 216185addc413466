package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CompetitionStatus string

const (
	CompetitionStatusUpcoming CompetitionStatus = "upcoming"
	CompetitionStatusActive   CompetitionStatus = "active"
	CompetitionStatusEnded    CompetitionStatus = "ended"
)

func (s CompetitionStatus) Valid() bool {
	switch s {
	case CompetitionStatusUpcoming, CompetitionStatusActive, CompetitionStatusEnded:
		return true
	}
	return false
}

// AcceptsSubmissions reports whether designers may still enter.
func (s CompetitionStatus) AcceptsSubmissions() bool {
	return s == CompetitionStatusUpcoming || s == CompetitionStatusActive
}

// DeriveCompetitionStatus computes the status from the schedule at a single instant.
// The result is stored; it is not recomputed as time passes.
func DeriveCompetitionStatus(start, end, now time.Time) CompetitionStatus {
	switch {
	case start.After(now):
		return CompetitionStatusUpcoming
	case end.After(now):
		return CompetitionStatusActive
	default:
		return CompetitionStatusEnded
	}
}

type Prize struct {
	Position    int      `json:"position"`
	Amount      *float64 `json:"amount,omitempty"`
	Description string   `json:"description"`
}

type Competition struct {
	ID             string                      `gorm:"type:varchar(36);primarykey" json:"id"`
	Title          string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description    string                      `gorm:"type:text" json:"description"`
	Brief          string                      `gorm:"type:text" json:"brief"`
	Category       string                      `gorm:"type:varchar(100);index" json:"category"`
	Prizes         datatypes.JSONSlice[Prize]  `json:"prizes"`
	StartDate      time.Time                   `gorm:"not null" json:"start_date"`
	EndDate        time.Time                   `gorm:"not null" json:"end_date"`
	SkillsRequired datatypes.JSONSlice[string] `json:"skills_required"`
	ClientID       string                      `gorm:"type:varchar(36);not null;index" json:"client_id"`
	ClientName     string                      `gorm:"type:varchar(255)" json:"client_name"`
	Status         CompetitionStatus           `gorm:"type:varchar(20);not null;index" json:"status"`
	WinnerIDs      datatypes.JSONSlice[string] `json:"winner_ids"`
	IsFeatured     bool                        `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (c *Competition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// AddWinner records designerID in WinnerIDs with set semantics.
// It reports whether the set changed.
func (c *Competition) AddWinner(designerID string) bool {
	if slices.Contains(c.WinnerIDs, designerID) {
		return false
	}
	c.WinnerIDs = append(c.WinnerIDs, designerID)
	return true
}
