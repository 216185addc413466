package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/credentials"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
	"github.com/yukikurage/dezx-api/internal/utils"
)

// AuthService handles registration, login and password resets.
type AuthService struct {
	userRepo    repository.UserRepository
	guard       *access.Guard
	credentials *credentials.Service
	notifier    *Notifier
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, guard *access.Guard, creds *credentials.Service, notifier *Notifier, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		guard:       guard,
		credentials: creds,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// Session is an authenticated user with a fresh token.
type Session struct {
	User  *models.User
	Token string
}

// Register creates a designer or client account and signs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := s.guard.Check(ctx, access.Anonymous, access.OpRegister, nil); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validation("Name is required")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if input.Role != models.RoleDesigner && input.Role != models.RoleClient {
		return nil, ErrInvalidRole
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := credentials.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:    models.NotificationNewUser,
		Message: fmt.Sprintf("New %s registered: %s", user.Role, user.Name),
		Link:    "/super-admin/users",
	})

	return s.issue(user)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials. Blocked accounts are refused after the
// password check so block status is not disclosed to guessers.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, validation("Email and password required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !credentials.CheckPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	return s.issue(user)
}

// Me returns the caller's own record.
func (s *AuthService) Me(ctx context.Context, caller access.Caller) (*models.User, error) {
	if err := s.guard.Check(ctx, caller, access.OpReadSelf, nil); err != nil {
		return nil, err
	}
	return findUser(ctx, s.userRepo, caller.ID)
}

// ForgotPassword stores a one-hour reset token and returns it. Unknown
// emails yield an empty token and no error.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", validation("Email required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return "", err
	}
	expires := s.now().UTC().Add(constants.ResetTokenLifetime)

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"reset_token":         token,
		"reset_token_expires": expires,
	}); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("Password reset token issued")
	return token, nil
}

// ResetPasswordInput holds a reset token and the new password.
type ResetPasswordInput struct {
	Token    string
	Password string
}

// ResetPassword consumes a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if input.Token == "" || input.Password == "" {
		return validation("Token and password required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByResetToken(ctx, input.Token)
	if err != nil {
		if isNotFound(err) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find reset token: %w", err)
	}
	if user.ResetTokenExpires != nil && user.ResetTokenExpires.Before(s.now()) {
		return ErrResetTokenExpired
	}

	hash, err := credentials.HashPassword(input.Password)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash":       hash,
		"reset_token":         nil,
		"reset_token_expires": nil,
	})
}

// EnsureSuperadmin creates the bootstrap superadmin when the email is unknown.
// It reports whether an account was created.
func (s *AuthService) EnsureSuperadmin(ctx context.Context, name, email, password string) (bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}
	if len(password) < constants.MinPasswordLength {
		return false, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !isNotFound(err) {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := credentials.HashPassword(password)
	if err != nil {
		return false, err
	}

	if err := s.userRepo.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleSuperadmin,
	}); err != nil {
		return false, fmt.Errorf("failed to create superadmin: %w", err)
	}
	return true, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := s.credentials.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validation("A valid email is required")
	}
	return email, nil
}

func findUser(ctx context.Context, repo repository.UserRepository, id string) (*models.User, error) {
	user, err := repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
