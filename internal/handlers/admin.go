package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dezx-api/internal/dto"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/middleware"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/services"
	"github.com/yukikurage/dezx-api/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns the newest admin broadcast notifications
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	activity, err := h.adminService.RecentActivity(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	if activity == nil {
		activity = []models.Notification{}
	}
	c.JSON(http.StatusOK, activity)
}

// ListAuditLogs returns moderation history, optionally by entity type
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	var entityType *models.EntityType
	if raw := queryString(c, "entity_type"); raw != nil {
		t := models.EntityType(*raw)
		entityType = &t
	}
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.AuditLogs(c.Request.Context(), middleware.GetCaller(c), entityType, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditLogListResponse(logs, params, total))
}

// Broadcast notifies every user, or every user with the given role
func (h *AdminHandler) Broadcast(c *gin.Context) {
	type BroadcastRequest struct {
		Message string  `json:"message" binding:"required"`
		Link    string  `json:"link"`
		Role    *string `json:"role"`
	}

	var req BroadcastRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.BroadcastInput{Message: req.Message, Link: req.Link}
	if req.Role != nil && *req.Role != "" {
		role := models.Role(*req.Role)
		input.Role = &role
	}

	sent, err := h.adminService.Broadcast(c.Request.Context(), middleware.GetCaller(c), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BroadcastResponse{Message: "Broadcast sent", Recipients: sent})
}
