package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleDesigner   Role = "designer"
	RoleClient     Role = "client"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDesigner, RoleClient, RoleSuperadmin:
		return true
	}
	return false
}

type User struct {
	ID                string                      `gorm:"type:varchar(36);primarykey" json:"id"`
	Name              string                      `gorm:"type:varchar(255);not null" json:"name"`
	Email             string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash      string                      `gorm:"type:varchar(255);not null" json:"-"`
	Role              Role                        `gorm:"type:varchar(20);not null;index" json:"role"`
	ProfileImage      *string                     `gorm:"type:varchar(512)" json:"profile_image"`
	Bio               *string                     `gorm:"type:text" json:"bio"`
	Skills            datatypes.JSONSlice[string] `json:"skills"`
	IsBlocked         bool                        `gorm:"not null;default:false" json:"is_blocked"`
	IsFeatured        bool                        `gorm:"not null;default:false" json:"is_featured"`
	ResetToken        *string                     `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpires *time.Time                  `json:"-"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
