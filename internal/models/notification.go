package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationNewUser           NotificationType = "new_user"
	NotificationNewProject        NotificationType = "new_project"
	NotificationNewCompetition    NotificationType = "new_competition"
	NotificationNewProposal       NotificationType = "new_proposal"
	NotificationProposalApproved  NotificationType = "proposal_approved"
	NotificationProposalRejected  NotificationType = "proposal_rejected"
	NotificationNewSubmission     NotificationType = "new_submission"
	NotificationSubmissionUpdated NotificationType = "submission_reviewed"
	NotificationCompetitionWinner NotificationType = "competition_winner"
	NotificationBroadcast         NotificationType = "broadcast"
)

// Notification with a nil ToUserID is an admin broadcast, visible to every superadmin.
type Notification struct {
	ID        string           `gorm:"type:varchar(36);primarykey" json:"id"`
	ToUserID  *string          `gorm:"type:varchar(36);index" json:"to_user_id"`
	Type      NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Link      *string          `gorm:"type:varchar(512)" json:"link"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
