package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dezx-api/internal/dto"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/middleware"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/services"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// CreateSubmission enters a competition
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	type CreateSubmissionRequest struct {
		CompetitionID string `json:"competition_id" binding:"required"`
		Title         string `json:"title" binding:"required,max=255"`
		Description   string `json:"description"`
	}

	var req CreateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	submission, err := h.submissionService.Create(c.Request.Context(), middleware.GetCaller(c), services.CreateSubmissionInput{
		CompetitionID: req.CompetitionID,
		Title:         req.Title,
		Description:   req.Description,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SubmissionDTO{Submission: *submission})
}

// ListCompetitionSubmissions returns every entry, winners first
func (h *SubmissionHandler) ListCompetitionSubmissions(c *gin.Context) {
	submissions, err := h.submissionService.ListByCompetition(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSubmissionDTOs(submissions))
}

func (h *SubmissionHandler) ListMySubmissions(c *gin.Context) {
	submissions, err := h.submissionService.ListMine(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMySubmissionDTOs(submissions))
}

// UpdateSubmission edits an entry's title or description
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	type UpdateSubmissionRequest struct {
		Title       *string `json:"title" binding:"omitempty,max=255"`
		Description *string `json:"description"`
	}

	var req UpdateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	submission, err := h.submissionService.Update(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), services.UpdateSubmissionInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SubmissionDTO{Submission: *submission})
}

func (h *SubmissionHandler) ApproveSubmission(c *gin.Context) {
	h.respond(c, "Submission approved")(h.submissionService.Approve(c.Request.Context(), middleware.GetCaller(c), c.Param("id")))
}

func (h *SubmissionHandler) RejectSubmission(c *gin.Context) {
	h.respond(c, "Submission rejected")(h.submissionService.Reject(c.Request.Context(), middleware.GetCaller(c), c.Param("id")))
}

// SetWinner awards a position from 1 to 3
func (h *SubmissionHandler) SetWinner(c *gin.Context) {
	type SetWinnerRequest struct {
		Position int `json:"position" binding:"required"`
	}

	var req SetWinnerRequest
	if !bindJSON(c, &req) {
		return
	}

	h.respond(c, "Winner set")(h.submissionService.SetWinner(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), req.Position))
}

func (h *SubmissionHandler) RemoveWinner(c *gin.Context) {
	h.respond(c, "Winner removed")(h.submissionService.RemoveWinner(c.Request.Context(), middleware.GetCaller(c), c.Param("id")))
}

// respond writes the result of a state change on a submission.
func (h *SubmissionHandler) respond(c *gin.Context, message string) func(*models.Submission, error) {
	return func(submission *models.Submission, err error) {
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "submission": dto.SubmissionDTO{Submission: *submission}})
	}
}
