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

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns projects, filtered by status, category and featured
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	filter := repository.ProjectFilter{
		Category: c.Query("category"),
		Page:     utils.GetPaginationParams(c),
	}
	if raw := queryString(c, "status"); raw != nil {
		status := models.ProjectStatus(*raw)
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

	projects, total, err := h.projectService.List(c.Request.Context(), filter)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, filter.Page, total))
}

// ListMyProjects returns the caller's own projects
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	projects, err := h.projectService.ListMine(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject posts a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Title          string     `json:"title" binding:"required,max=255"`
		Description    string     `json:"description"`
		Category       string     `json:"category" binding:"max=100"`
		BudgetMin      *float64   `json:"budget_min"`
		BudgetMax      *float64   `json:"budget_max"`
		Deadline       *time.Time `json:"deadline"`
		SkillsRequired []string   `json:"skills_required"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.GetCaller(c), services.CreateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		Deadline:       req.Deadline,
		SkillsRequired: req.SkillsRequired,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ProjectDTO{Project: *project})
}

// UpdateProject edits a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Title          *string    `json:"title" binding:"omitempty,max=255"`
		Description    *string    `json:"description"`
		Category       *string    `json:"category" binding:"omitempty,max=100"`
		BudgetMin      *float64   `json:"budget_min"`
		BudgetMax      *float64   `json:"budget_max"`
		Deadline       *time.Time `json:"deadline"`
		SkillsRequired *[]string  `json:"skills_required"`
		Status         *string    `json:"status"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		Deadline:       req.Deadline,
		SkillsRequired: req.SkillsRequired,
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		input.Status = &status
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProjectDTO{Project: *project})
}

// DeleteProject removes a project and its proposals
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), middleware.GetCaller(c), c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

func (h *ProjectHandler) FeatureProject(c *gin.Context)   { h.setFeatured(c, true) }
func (h *ProjectHandler) UnfeatureProject(c *gin.Context) { h.setFeatured(c, false) }

func (h *ProjectHandler) setFeatured(c *gin.Context, featured bool) {
	project, err := h.projectService.SetFeatured(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), featured)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProjectDTO{Project: *project})
}
