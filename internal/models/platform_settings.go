package models

import "time"

type UploadLimits struct {
	ProposalMaxMB   int `gorm:"not null;default:10" json:"proposal_max_mb"`
	SubmissionMaxMB int `gorm:"not null;default:20" json:"submission_max_mb"`
}

type HomepageFeatureLimits struct {
	ProjectsCount     int `gorm:"not null;default:6" json:"projects_count"`
	CompetitionsCount int `gorm:"not null;default:6" json:"competitions_count"`
}

// PlatformSettings is a single-row table keyed by constants.PlatformSettingsID.
type PlatformSettings struct {
	ID                    string                `gorm:"type:varchar(36);primarykey" json:"-"`
	IsFreelanceEnabled    bool                  `gorm:"not null" json:"is_freelance_enabled"`
	IsCompetitionsEnabled bool                  `gorm:"not null" json:"is_competitions_enabled"`
	IsRegistrationEnabled bool                  `gorm:"not null" json:"is_registration_enabled"`
	UploadLimits          UploadLimits          `gorm:"embedded;embeddedPrefix:upload_" json:"upload_limits"`
	HomepageFeatureLimits HomepageFeatureLimits `gorm:"embedded;embeddedPrefix:homepage_" json:"homepage_feature_limits"`
	MaintenanceMode       bool                  `gorm:"not null" json:"maintenance_mode"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// DefaultPlatformSettings returns the settings used before an admin saves any.
func DefaultPlatformSettings(id string) PlatformSettings {
	return PlatformSettings{
		ID:                    id,
		IsFreelanceEnabled:    true,
		IsCompetitionsEnabled: true,
		IsRegistrationEnabled: true,
		UploadLimits: UploadLimits{
			ProposalMaxMB:   10,
			SubmissionMaxMB: 20,
		},
		HomepageFeatureLimits: HomepageFeatureLimits{
			ProjectsCount:     6,
			CompetitionsCount: 6,
		},
	}
}
