package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionUpdate    AuditAction = "update"
	AuditActionDelete    AuditAction = "delete"
	AuditActionApprove   AuditAction = "approve"
	AuditActionReject    AuditAction = "reject"
	AuditActionBlock     AuditAction = "block"
	AuditActionUnblock   AuditAction = "unblock"
	AuditActionFeature   AuditAction = "feature"
	AuditActionUnfeature AuditAction = "unfeature"
	AuditActionWinner    AuditAction = "winner"
	AuditActionBroadcast AuditAction = "broadcast"
)

type EntityType string

const (
	EntityUser         EntityType = "user"
	EntityProject      EntityType = "project"
	EntityProposal     EntityType = "proposal"
	EntityCompetition  EntityType = "competition"
	EntitySubmission   EntityType = "submission"
	EntitySettings     EntityType = "settings"
	EntityContent      EntityType = "cms"
	EntityNotification EntityType = "notification"
)

// AuditLog is append-only: repositories expose no update or delete for it.
type AuditLog struct {
	ID          string      `gorm:"type:varchar(36);primarykey" json:"id"`
	ActorID     string      `gorm:"type:varchar(36);not null;index" json:"actor_id"`
	ActorName   string      `gorm:"type:varchar(255)" json:"actor_name"`
	ActionType  AuditAction `gorm:"type:varchar(30);not null" json:"action_type"`
	EntityType  EntityType  `gorm:"type:varchar(30);not null;index" json:"entity_type"`
	EntityID    *string     `gorm:"type:varchar(36)" json:"entity_id"`
	Description string      `gorm:"type:text" json:"description"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
