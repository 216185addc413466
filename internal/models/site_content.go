package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteContent holds the CMS payload as opaque JSON.
type SiteContent struct {
	ID        string            `gorm:"type:varchar(36);primarykey" json:"-"`
	Content   datatypes.JSONMap `json:"content"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DefaultSiteContent is served until an admin saves content.
func DefaultSiteContent() map[string]interface{} {
	return map[string]interface{}{
		"hero_headline":      "Where Designers Compete, Win & Get Clients",
		"hero_subheadline":   "A platform where designers join challenges, build portfolio proof, and win freelance projects.",
		"primary_cta":        "Join now",
		"secondary_cta":      "Explore Competitions",
		"features_title":     "Launch Features",
		"how_it_works_title": "How It Works",
		"footer_text":        "The Freelance + Competition Hub for Designers",
		"theme_settings": map[string]interface{}{
			"gradient_primary":   "#8B5CF6",
			"gradient_secondary": "#6366F1",
			"button_style":       "gradient",
		},
	}
}
