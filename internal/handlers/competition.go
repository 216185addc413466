package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dezx-api/internal/dto"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/middleware"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
	"github.com/yukikurage/dezx-api/internal/services"
	"github.com/yukikurage/dezx-api/internal/utils"
)

type CompetitionHandler struct {
	competitionService *services.CompetitionService
}

func NewCompetitionHandler(competitionService *services.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: competitionService,
	}
}

// ListCompetitions returns competitions, filtered by status, category and featured
func (h *CompetitionHandler) ListCompetitions(c *gin.Context) {
	filter := repository.CompetitionFilter{
		Category: c.Query("category"),
		Page:     utils.GetPaginationParams(c),
	}
	if raw := queryString(c, "status"); raw != nil {
		status := models.CompetitionStatus(*raw)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		filter.Status = &status
	}
	featured, ok := queryBool(c, "featured")
	if !ok {
		return
	}
	filter.Featured = featured

	competitions, total, err := h.competitionService.List(c.Request.Context(), filter)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompetitionListResponse(competitions, filter.Page, total))
}

func (h *CompetitionHandler) ListMyCompetitions(c *gin.Context) {
	competitions, err := h.competitionService.ListMine(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompetitionDTOs(competitions))
}

func (h *CompetitionHandler) GetCompetition(c *gin.Context) {
	competition, err := h.competitionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompetitionDTO(*competition))
}

// CreateCompetition launches a competition
func (h *CompetitionHandler) CreateCompetition(c *gin.Context) {
	type CreateCompetitionRequest struct {
		Title          string         `json:"title" binding:"required,max=255"`
		Description    string         `json:"description"`
		Brief          string         `json:"brief"`
		Category       string         `json:"category" binding:"max=100"`
		Prizes         []models.Prize `json:"prizes"`
		StartDate      time.Time      `json:"start_date" binding:"required"`
		EndDate        time.Time      `json:"end_date" binding:"required"`
		SkillsRequired []string       `json:"skills_required"`
	}

	var req CreateCompetitionRequest
	if !bindJSON(c, &req) {
		return
	}

	competition, err := h.competitionService.Create(c.Request.Context(), middleware.GetCaller(c), services.CreateCompetitionInput{
		Title:          req.Title,
		Description:    req.Description,
		Brief:          req.Brief,
		Category:       req.Category,
		Prizes:         req.Prizes,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		SkillsRequired: req.SkillsRequired,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CompetitionDTO{Competition: *competition})
}

// UpdateCompetition edits a competition
func (h *CompetitionHandler) UpdateCompetition(c *gin.Context) {
	type UpdateCompetitionRequest struct {
		Title          *string         `json:"title" binding:"omitempty,max=255"`
		Description    *string         `json:"description"`
		Brief          *string         `json:"brief"`
		Category       *string         `json:"category" binding:"omitempty,max=100"`
		Prizes         *[]models.Prize `json:"prizes"`
		StartDate      *time.Time      `json:"start_date"`
		EndDate        *time.Time      `json:"end_date"`
		SkillsRequired *[]string       `json:"skills_required"`
		Status         *string         `json:"status"`
	}

	var req UpdateCompetitionRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateCompetitionInput{
		Title:          req.Title,
		Description:    req.Description,
		Brief:          req.Brief,
		Category:       req.Category,
		Prizes:         req.Prizes,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		SkillsRequired: req.SkillsRequired,
	}
	if req.Status != nil {
		status := models.CompetitionStatus(*req.Status)
		input.Status = &status
	}

	competition, err := h.competitionService.Update(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CompetitionDTO{Competition: *competition})
}

// DeleteCompetition removes a competition and its submissions
func (h *CompetitionHandler) DeleteCompetition(c *gin.Context) {
	if err := h.competitionService.Delete(c.Request.Context(), middleware.GetCaller(c), c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Competition deleted"})
}

func (h *CompetitionHandler) FeatureCompetition(c *gin.Context)   { h.setFeatured(c, true) }
func (h *CompetitionHandler) UnfeatureCompetition(c *gin.Context) { h.setFeatured(c, false) }

func (h *CompetitionHandler) setFeatured(c *gin.Context, featured bool) {
	competition, err := h.competitionService.SetFeatured(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), featured)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CompetitionDTO{Competition: *competition})
}
