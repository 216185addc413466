package dto

import (
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/utils"
)

// AuditLogListResponse represents a paginated list of audit entries
type AuditLogListResponse struct {
	Logs       []models.AuditLog        `json:"logs"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// BroadcastResponse reports how many users were notified
type BroadcastResponse struct {
	Message    string `json:"message"`
	Recipients int    `json:"recipients"`
}

// ToAuditLogListResponse converts a page of audit entries to AuditLogListResponse
func ToAuditLogListResponse(logs []models.AuditLog, page utils.PaginationParams, total int64) AuditLogListResponse {
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return AuditLogListResponse{
		Logs:       logs,
		Pagination: page.Response(total),
	}
}
