package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/dto"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/middleware"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService       *services.AuthService
	exposeResetTokens bool
}

// NewAuthHandler creates a new AuthHandler. With exposeResetTokens set the
// forgot-password response carries the token, for deployments without mail.
func NewAuthHandler(authService *services.AuthService, exposeResetTokens bool) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		exposeResetTokens: exposeResetTokens,
	}
}

// Register creates a designer or client account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name     string `json:"name" binding:"required,max=255"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.startSession(c, http.StatusCreated, "User registered successfully", session)
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.startSession(c, http.StatusOK, "Login successful", session)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ForgotPassword issues a reset token. The response never reveals whether
// the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	response := gin.H{"message": "If email exists, reset instructions have been sent"}
	if h.exposeResetTokens && token != "" {
		response["reset_token"] = token
	}
	c.JSON(http.StatusOK, response)
}

// ResetPassword sets a new password from a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), services.ResetPasswordInput{
		Token:    req.Token,
		Password: req.NewPassword,
	}); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func (h *AuthHandler) startSession(c *gin.Context, status int, message string, s *services.Session) {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, s.Token)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(status, dto.AuthResponse{
		Message: message,
		User:    dto.ToUserDTO(*s.User),
		Token:   s.Token,
	})
}
