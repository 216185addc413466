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

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns users for the admin console, optionally filtered by role
func (h *UserHandler) ListUsers(c *gin.Context) {
	var role *models.Role
	if raw := queryString(c, "role"); raw != nil {
		r := models.Role(*raw)
		if !r.Valid() {
			apierrors.BadRequest(c, "Invalid role")
			return
		}
		role = &r
	}
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.List(c.Request.Context(), middleware.GetCaller(c), role, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params, total))
}

// GetUser returns a public profile
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser edits profile fields
func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Name         *string   `json:"name" binding:"omitempty,max=255"`
		Bio          *string   `json:"bio"`
		ProfileImage *string   `json:"profile_image"`
		Skills       *[]string `json:"skills"`
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), services.UpdateProfileInput{
		Name:         req.Name,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
		Skills:       req.Skills,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) BlockUser(c *gin.Context)   { h.setBlocked(c, true, "User blocked") }
func (h *UserHandler) UnblockUser(c *gin.Context) { h.setBlocked(c, false, "User unblocked") }

func (h *UserHandler) FeatureUser(c *gin.Context)   { h.setFeatured(c, true, "User featured") }
func (h *UserHandler) UnfeatureUser(c *gin.Context) { h.setFeatured(c, false, "User unfeatured") }

// DeleteUser removes an account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), middleware.GetCaller(c), c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *UserHandler) setBlocked(c *gin.Context, blocked bool, message string) {
	user, err := h.userService.SetBlocked(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), blocked)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "user": dto.ToUserDTO(*user)})
}

func (h *UserHandler) setFeatured(c *gin.Context, featured bool, message string) {
	user, err := h.userService.SetFeatured(c.Request.Context(), middleware.GetCaller(c), c.Param("id"), featured)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "user": dto.ToUserDTO(*user)})
}
