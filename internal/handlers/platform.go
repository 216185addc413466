package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/middleware"
	"github.com/yukikurage/dezx-api/internal/services"
)

// PlatformHandler serves the settings singleton and the site content.
type PlatformHandler struct {
	settingsService *services.SettingsService
	contentService  *services.ContentService
}

func NewPlatformHandler(settingsService *services.SettingsService, contentService *services.ContentService) *PlatformHandler {
	return &PlatformHandler{
		settingsService: settingsService,
		contentService:  contentService,
	}
}

func (h *PlatformHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings applies a partial settings update
func (h *PlatformHandler) UpdateSettings(c *gin.Context) {
	type UploadLimitsRequest struct {
		ProposalMaxMB   *int `json:"proposal_max_mb"`
		SubmissionMaxMB *int `json:"submission_max_mb"`
	}
	type HomepageLimitsRequest struct {
		ProjectsCount     *int `json:"projects_count"`
		CompetitionsCount *int `json:"competitions_count"`
	}
	type UpdateSettingsRequest struct {
		IsFreelanceEnabled    *bool                  `json:"is_freelance_enabled"`
		IsCompetitionsEnabled *bool                  `json:"is_competitions_enabled"`
		IsRegistrationEnabled *bool                  `json:"is_registration_enabled"`
		MaintenanceMode       *bool                  `json:"maintenance_mode"`
		UploadLimits          *UploadLimitsRequest   `json:"upload_limits"`
		HomepageFeatureLimits *HomepageLimitsRequest `json:"homepage_feature_limits"`
	}

	var req UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateSettingsInput{
		IsFreelanceEnabled:    req.IsFreelanceEnabled,
		IsCompetitionsEnabled: req.IsCompetitionsEnabled,
		IsRegistrationEnabled: req.IsRegistrationEnabled,
		MaintenanceMode:       req.MaintenanceMode,
	}
	if req.UploadLimits != nil {
		input.ProposalMaxMB = req.UploadLimits.ProposalMaxMB
		input.SubmissionMaxMB = req.UploadLimits.SubmissionMaxMB
	}
	if req.HomepageFeatureLimits != nil {
		input.HomepageProjects = req.HomepageFeatureLimits.ProjectsCount
		input.HomepageCompetitions = req.HomepageFeatureLimits.CompetitionsCount
	}

	settings, err := h.settingsService.Update(c.Request.Context(), middleware.GetCaller(c), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *PlatformHandler) GetContent(c *gin.Context) {
	content, err := h.contentService.Get(c.Request.Context())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

// UpdateContent merges the posted keys into the site content
func (h *PlatformHandler) UpdateContent(c *gin.Context) {
	var patch map[string]interface{}
	if !bindJSON(c, &patch) {
		return
	}

	content, err := h.contentService.Update(c.Request.Context(), middleware.GetCaller(c), patch)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}
