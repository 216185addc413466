package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
	"gorm.io/datatypes"
)

// ContentService manages the landing page copy.
type ContentService struct {
	contentRepo repository.ContentRepository
	guard       *access.Guard
	notifier    *Notifier
}

// NewContentService creates a new ContentService
func NewContentService(contentRepo repository.ContentRepository, guard *access.Guard, notifier *Notifier) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		guard:       guard,
		notifier:    notifier,
	}
}

// Get returns the saved content, or the built-in defaults.
func (s *ContentService) Get(ctx context.Context) (map[string]interface{}, error) {
	content, err := s.contentRepo.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return models.DefaultSiteContent(), nil
		}
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return content.Content, nil
}

// Update merges the given keys over the current content.
func (s *ContentService) Update(ctx context.Context, caller access.Caller, patch map[string]interface{}) (map[string]interface{}, error) {
	if err := s.guard.Check(ctx, caller, access.OpUpdateContent, nil); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	merged := make(datatypes.JSONMap, len(current)+len(patch))
	for k, v := range current {
		merged[k] = v
	}
	keys := make([]string, 0, len(patch))
	for k, v := range patch {
		merged[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := s.contentRepo.Save(ctx, &models.SiteContent{ID: constants.SiteContentID, Content: merged}); err != nil {
		return nil, fmt.Errorf("failed to save content: %w", err)
	}

	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionUpdate,
		EntityType:  models.EntityContent,
		EntityID:    constants.SiteContentID,
		Description: "Updated site content: " + strings.Join(keys, ", "),
	})
	return merged, nil
}
