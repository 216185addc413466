package dto

import (
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/services"
	"github.com/yukikurage/dezx-api/internal/utils"
)

// ProjectDTO is a project with its proposal count
type ProjectDTO struct {
	models.Project
	ProposalCount int64 `json:"proposal_count"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ProposalDTO is a proposal, joined with its project on "my" listings
type ProposalDTO struct {
	models.Proposal
	ProjectTitle  string `json:"project_title,omitempty"`
	ProjectStatus string `json:"project_status,omitempty"`
}

func ToProjectDTO(p services.ProjectWithCount) ProjectDTO {
	return ProjectDTO{Project: p.Project, ProposalCount: p.ProposalCount}
}

func ToProjectDTOs(projects []services.ProjectWithCount) []ProjectDTO {
	items := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		items[i] = ToProjectDTO(p)
	}
	return items
}

// ToProjectListResponse converts a page of projects to ProjectListResponse
func ToProjectListResponse(projects []services.ProjectWithCount, page utils.PaginationParams, total int64) ProjectListResponse {
	return ProjectListResponse{
		Projects:   ToProjectDTOs(projects),
		Pagination: page.Response(total),
	}
}

func ToProposalDTOs(proposals []models.Proposal) []ProposalDTO {
	items := make([]ProposalDTO, len(proposals))
	for i, p := range proposals {
		items[i] = ProposalDTO{Proposal: p}
	}
	return items
}

// ToMyProposalDTOs keeps the project title and status joined by the service
func ToMyProposalDTOs(proposals []services.ProposalWithProject) []ProposalDTO {
	items := make([]ProposalDTO, len(proposals))
	for i, p := range proposals {
		items[i] = ProposalDTO{
			Proposal:      p.Proposal,
			ProjectTitle:  p.ProjectTitle,
			ProjectStatus: p.ProjectStatus,
		}
	}
	return items
}
