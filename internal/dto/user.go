package dto

import (
	"time"

	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/utils"
)

// UserDTO represents a user in API responses. Secrets never leave the store.
type UserDTO struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	ProfileImage *string     `json:"profile_image"`
	Bio          *string     `json:"bio"`
	Skills       []string    `json:"skills"`
	IsBlocked    bool        `json:"is_blocked"`
	IsFeatured   bool        `json:"is_featured"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
	Token   string  `json:"token"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	skills := []string(user.Skills)
	if skills == nil {
		skills = []string{}
	}
	return UserDTO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		ProfileImage: user.ProfileImage,
		Bio:          user.Bio,
		Skills:       skills,
		IsBlocked:    user.IsBlocked,
		IsFeatured:   user.IsFeatured,
		CreatedAt:    user.CreatedAt,
	}
}

// ToUserListResponse converts a page of users to UserListResponse
func ToUserListResponse(users []models.User, page utils.PaginationParams, total int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return UserListResponse{
		Users:      items,
		Pagination: page.Response(total),
	}
}
