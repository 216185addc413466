package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
)

// SettingsService reads and updates the platform feature toggles.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	guard        *access.Guard
	notifier     *Notifier
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo repository.SettingsRepository, guard *access.Guard, notifier *Notifier) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		guard:        guard,
		notifier:     notifier,
	}
}

// UpdateSettingsInput is a partial update. Nil means unchanged.
type UpdateSettingsInput struct {
	IsFreelanceEnabled    *bool
	IsCompetitionsEnabled *bool
	IsRegistrationEnabled *bool
	MaintenanceMode       *bool
	ProposalMaxMB         *int
	SubmissionMaxMB       *int
	HomepageProjects      *int
	HomepageCompetitions  *int
}

// Get returns the current settings, or the defaults if none were saved.
func (s *SettingsService) Get(ctx context.Context) (*models.PlatformSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Update applies the given fields and saves the singleton.
func (s *SettingsService) Update(ctx context.Context, caller access.Caller, input UpdateSettingsInput) (*models.PlatformSettings, error) {
	if err := s.guard.Check(ctx, caller, access.OpUpdateSettings, nil); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	var changed []string
	setBool := func(name string, dst *bool, v *bool) {
		if v != nil {
			*dst = *v
			changed = append(changed, name)
		}
	}
	setBool("is_freelance_enabled", &settings.IsFreelanceEnabled, input.IsFreelanceEnabled)
	setBool("is_competitions_enabled", &settings.IsCompetitionsEnabled, input.IsCompetitionsEnabled)
	setBool("is_registration_enabled", &settings.IsRegistrationEnabled, input.IsRegistrationEnabled)
	setBool("maintenance_mode", &settings.MaintenanceMode, input.MaintenanceMode)

	limits := []struct {
		name string
		dst  *int
		v    *int
	}{
		{"proposal_max_mb", &settings.UploadLimits.ProposalMaxMB, input.ProposalMaxMB},
		{"submission_max_mb", &settings.UploadLimits.SubmissionMaxMB, input.SubmissionMaxMB},
		{"homepage_projects_count", &settings.HomepageFeatureLimits.ProjectsCount, input.HomepageProjects},
		{"homepage_competitions_count", &settings.HomepageFeatureLimits.CompetitionsCount, input.HomepageCompetitions},
	}
	for _, l := range limits {
		if l.v == nil {
			continue
		}
		if *l.v <= 0 {
			return nil, validation(l.name + " must be positive")
		}
		*l.dst = *l.v
		changed = append(changed, l.name)
	}

	if len(changed) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionUpdate,
		EntityType:  models.EntitySettings,
		EntityID:    settings.ID,
		Description: "Updated platform settings: " + strings.Join(changed, ", "),
	})
	return settings, nil
}
