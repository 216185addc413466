package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dezx-api/internal/dto"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/middleware"
	"github.com/yukikurage/dezx-api/internal/services"
)

type ProposalHandler struct {
	proposalService *services.ProposalService
}

func NewProposalHandler(proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
	}
}

// CreateProposal submits a proposal on an open project
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	type CreateProposalRequest struct {
		ProjectID         string   `json:"project_id" binding:"required"`
		CoverLetter       string   `json:"cover_letter" binding:"required"`
		ProposedBudget    *float64 `json:"proposed_budget"`
		EstimatedDuration *string  `json:"estimated_duration" binding:"omitempty,max=100"`
	}

	var req CreateProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.Create(c.Request.Context(), middleware.GetCaller(c), services.CreateProposalInput{
		ProjectID:         req.ProjectID,
		CoverLetter:       req.CoverLetter,
		ProposedBudget:    req.ProposedBudget,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ProposalDTO{Proposal: *proposal})
}

// ListProjectProposals returns the proposals on a project, for its owner
func (h *ProposalHandler) ListProjectProposals(c *gin.Context) {
	proposals, err := h.proposalService.ListByProject(c.Request.Context(), middleware.GetCaller(c), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProposalDTOs(proposals))
}

func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	proposals, err := h.proposalService.ListMine(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMyProposalDTOs(proposals))
}

// ApproveProposal approves one proposal and rejects its siblings
func (h *ProposalHandler) ApproveProposal(c *gin.Context) {
	proposal, err := h.proposalService.Approve(c.Request.Context(), middleware.GetCaller(c), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proposal approved", "proposal": dto.ProposalDTO{Proposal: *proposal}})
}

func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	proposal, err := h.proposalService.Reject(c.Request.Context(), middleware.GetCaller(c), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proposal rejected", "proposal": dto.ProposalDTO{Proposal: *proposal}})
}
