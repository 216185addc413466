package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/utils"
)

// ErrProposalNotPending is returned by Approve when the proposal was reviewed concurrently.
var ErrProposalNotPending = errors.New("proposal repository: proposal is no longer pending")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByResetToken finds the user holding a password reset token
	FindByResetToken(ctx context.Context, token string) (*models.User, error)

	// List retrieves users, newest first
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// ListIDs returns the ids of all users, optionally restricted to one role
	ListIDs(ctx context.Context, role *models.Role) ([]string, error)

	// UpdateFields updates the given columns of a user
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// Delete removes a user
	Delete(ctx context.Context, id string) error

	// Count counts users, optionally restricted to one role
	Count(ctx context.Context, role *models.Role) (int64, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role *models.Role
	Page utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// FindByIDs returns the projects that exist among ids, keyed by id
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Project, error)

	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// Delete removes a project and its proposals atomically
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int64, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status   *models.ProjectStatus
	Category string
	ClientID string
	Featured *bool
	Page     utils.PaginationParams
}

// ProposalRepository defines the interface for proposal data access
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	FindByID(ctx context.Context, id string) (*models.Proposal, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Proposal, error)
	ListByDesigner(ctx context.Context, designerID string) ([]models.Proposal, error)

	// Exists reports whether the designer already proposed on the project
	Exists(ctx context.Context, projectID, designerID string) (bool, error)

	// Approve approves a pending proposal, rejects its siblings and moves the
	// project to in_progress in one transaction.
	Approve(ctx context.Context, proposalID, projectID string) error

	// Reject marks a proposal rejected
	Reject(ctx context.Context, id string) error

	// CountByProjects returns proposal counts keyed by project id
	CountByProjects(ctx context.Context, projectIDs []string) (map[string]int64, error)

	Count(ctx context.Context) (int64, error)
}

// CompetitionRepository defines the interface for competition data access
type CompetitionRepository interface {
	Create(ctx context.Context, competition *models.Competition) error
	FindByID(ctx context.Context, id string) (*models.Competition, error)

	// FindByIDs returns the competitions that exist among ids, keyed by id
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Competition, error)

	List(ctx context.Context, filter CompetitionFilter) ([]models.Competition, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// Delete removes a competition and its submissions atomically
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int64, error)
}

// CompetitionFilter holds filtering options for listing competitions
type CompetitionFilter struct {
	Status   *models.CompetitionStatus
	Category string
	ClientID string
	Featured *bool
	Page     utils.PaginationParams
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]models.Submission, error)
	ListByDesigner(ctx context.Context, designerID string) ([]models.Submission, error)

	// Exists reports whether the designer already entered the competition
	Exists(ctx context.Context, competitionID, designerID string) (bool, error)

	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// SetWinner gives the submission the position, clears any other holder of
	// that position and records the designer in the competition's winner set,
	// all in one transaction.
	SetWinner(ctx context.Context, submission *models.Submission, position int) error

	// RemoveWinner clears the winner flag and position
	RemoveWinner(ctx context.Context, id string) error

	// CountByCompetitions returns submission counts keyed by competition id
	CountByCompetitions(ctx context.Context, competitionIDs []string) (map[string]int64, error)

	Count(ctx context.Context) (int64, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error

	// ListForUser returns the user's notifications, plus admin broadcasts when
	// includeBroadcasts is set, newest first
	ListForUser(ctx context.Context, userID string, includeBroadcasts bool, limit int) ([]models.Notification, error)

	// ListBroadcasts returns admin broadcasts, newest first
	ListBroadcasts(ctx context.Context, limit int) ([]models.Notification, error)

	// MarkRead marks one notification read if it is visible to the user
	MarkRead(ctx context.Context, id, userID string, includeBroadcasts bool) (bool, error)

	// MarkAllRead marks every notification visible to the user read
	MarkAllRead(ctx context.Context, userID string, includeBroadcasts bool) (int64, error)
}

// AuditLogRepository is append-only
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, int64, error)
}

// AuditLogFilter holds filtering options for listing audit logs
type AuditLogFilter struct {
	EntityType *models.EntityType
	Page       utils.PaginationParams
}

// SettingsRepository reads and writes the platform settings singleton
type SettingsRepository interface {
	// Get returns the stored settings, or defaults when none were saved
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Save(ctx context.Context, settings *models.PlatformSettings) error
}

// ContentRepository reads and writes the site content singleton
type ContentRepository interface {
	// Get returns the stored content, or gorm.ErrRecordNotFound when none was saved
	Get(ctx context.Context) (*models.SiteContent, error)
	Save(ctx context.Context, content *models.SiteContent) error
}
