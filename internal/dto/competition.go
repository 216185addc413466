package dto

import (
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/services"
	"github.com/yukikurage/dezx-api/internal/utils"
)

// CompetitionDTO is a competition with its submission count
type CompetitionDTO struct {
	models.Competition
	SubmissionCount int64 `json:"submission_count"`
}

// CompetitionListResponse represents a paginated list of competitions
type CompetitionListResponse struct {
	Competitions []CompetitionDTO         `json:"competitions"`
	Pagination   utils.PaginationResponse `json:"pagination"`
}

// SubmissionDTO is a submission, joined with its competition on "my" listings
type SubmissionDTO struct {
	models.Submission
	CompetitionTitle  string `json:"competition_title,omitempty"`
	CompetitionStatus string `json:"competition_status,omitempty"`
}

func ToCompetitionDTO(c services.CompetitionWithCount) CompetitionDTO {
	return CompetitionDTO{Competition: c.Competition, SubmissionCount: c.SubmissionCount}
}

func ToCompetitionDTOs(competitions []services.CompetitionWithCount) []CompetitionDTO {
	items := make([]CompetitionDTO, len(competitions))
	for i, c := range competitions {
		items[i] = ToCompetitionDTO(c)
	}
	return items
}

// ToCompetitionListResponse converts a page of competitions to CompetitionListResponse
func ToCompetitionListResponse(competitions []services.CompetitionWithCount, page utils.PaginationParams, total int64) CompetitionListResponse {
	return CompetitionListResponse{
		Competitions: ToCompetitionDTOs(competitions),
		Pagination:   page.Response(total),
	}
}

func ToSubmissionDTOs(submissions []models.Submission) []SubmissionDTO {
	items := make([]SubmissionDTO, len(submissions))
	for i, s := range submissions {
		items[i] = SubmissionDTO{Submission: s}
	}
	return items
}

// ToMySubmissionDTOs keeps the competition title and status joined by the service
func ToMySubmissionDTOs(submissions []services.SubmissionWithCompetition) []SubmissionDTO {
	items := make([]SubmissionDTO, len(submissions))
	for i, s := range submissions {
		items[i] = SubmissionDTO{
			Submission:        s.Submission,
			CompetitionTitle:  s.CompetitionTitle,
			CompetitionStatus: s.CompetitionStatus,
		}
	}
	return items
}
