package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
	"github.com/yukikurage/dezx-api/internal/utils"
)

// AdminService backs the superadmin dashboard.
type AdminService struct {
	userRepo         repository.UserRepository
	projectRepo      repository.ProjectRepository
	competitionRepo  repository.CompetitionRepository
	proposalRepo     repository.ProposalRepository
	submissionRepo   repository.SubmissionRepository
	notificationRepo repository.NotificationRepository
	auditRepo        repository.AuditLogRepository
	guard            *access.Guard
	notifier         *Notifier
}

// AdminRepositories groups the stores the dashboard reads from.
type AdminRepositories struct {
	Users         repository.UserRepository
	Projects      repository.ProjectRepository
	Competitions  repository.CompetitionRepository
	Proposals     repository.ProposalRepository
	Submissions   repository.SubmissionRepository
	Notifications repository.NotificationRepository
	AuditLogs     repository.AuditLogRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(repos AdminRepositories, guard *access.Guard, notifier *Notifier) *AdminService {
	return &AdminService{
		userRepo:         repos.Users,
		projectRepo:      repos.Projects,
		competitionRepo:  repos.Competitions,
		proposalRepo:     repos.Proposals,
		submissionRepo:   repos.Submissions,
		notificationRepo: repos.Notifications,
		auditRepo:        repos.AuditLogs,
		guard:            guard,
		notifier:         notifier,
	}
}

// Stats are platform-wide totals.
type Stats struct {
	TotalUsers   int64 `json:"total_users"`
	Designers    int64 `json:"designers"`
	Clients      int64 `json:"clients"`
	Projects     int64 `json:"projects"`
	Competitions int64 `json:"competitions"`
	Proposals    int64 `json:"proposals"`
	Submissions  int64 `json:"submissions"`
}

// BroadcastInput targets every user, or only users with Role when set.
type BroadcastInput struct {
	Message string
	Link    string
	Role    *models.Role
}

func (s *AdminService) Stats(ctx context.Context, caller access.Caller) (*Stats, error) {
	if err := s.guard.Check(ctx, caller, access.OpReadAdmin, nil); err != nil {
		return nil, err
	}

	designer, client := models.RoleDesigner, models.RoleClient
	var stats Stats
	counters := []struct {
		name  string
		dst   *int64
		count func() (int64, error)
	}{
		{"users", &stats.TotalUsers, func() (int64, error) { return s.userRepo.Count(ctx, nil) }},
		{"designers", &stats.Designers, func() (int64, error) { return s.userRepo.Count(ctx, &designer) }},
		{"clients", &stats.Clients, func() (int64, error) { return s.userRepo.Count(ctx, &client) }},
		{"projects", &stats.Projects, func() (int64, error) { return s.projectRepo.Count(ctx) }},
		{"competitions", &stats.Competitions, func() (int64, error) { return s.competitionRepo.Count(ctx) }},
		{"proposals", &stats.Proposals, func() (int64, error) { return s.proposalRepo.Count(ctx) }},
		{"submissions", &stats.Submissions, func() (int64, error) { return s.submissionRepo.Count(ctx) }},
	}
	for _, c := range counters {
		n, err := c.count()
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
		*c.dst = n
	}
	return &stats, nil
}

// RecentActivity returns the newest admin broadcast notifications.
func (s *AdminService) RecentActivity(ctx context.Context, caller access.Caller) ([]models.Notification, error) {
	if err := s.guard.Check(ctx, caller, access.OpReadAdmin, nil); err != nil {
		return nil, err
	}

	activity, err := s.notificationRepo.ListBroadcasts(ctx, constants.RecentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}
	return activity, nil
}

func (s *AdminService) AuditLogs(ctx context.Context, caller access.Caller, entityType *models.EntityType, page utils.PaginationParams) ([]models.AuditLog, int64, error) {
	if err := s.guard.Check(ctx, caller, access.OpReadAdmin, nil); err != nil {
		return nil, 0, err
	}

	logs, total, err := s.auditRepo.List(ctx, repository.AuditLogFilter{EntityType: entityType, Page: page})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}

// Broadcast sends one notification per matching user and returns how many were written.
func (s *AdminService) Broadcast(ctx context.Context, caller access.Caller, input BroadcastInput) (int, error) {
	if err := s.guard.Check(ctx, caller, access.OpBroadcast, nil); err != nil {
		return 0, err
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return 0, validation("Message is required")
	}
	if input.Role != nil && !input.Role.Valid() {
		return 0, validation("Invalid role")
	}

	ids, err := s.userRepo.ListIDs(ctx, input.Role)
	if err != nil {
		return 0, fmt.Errorf("failed to list recipients: %w", err)
	}

	sent := s.notifier.NotifyUsers(ctx, ids, Notification{
		Type:    models.NotificationBroadcast,
		Message: message,
		Link:    input.Link,
	})

	audience := "all users"
	if input.Role != nil {
		audience = string(*input.Role) + "s"
	}
	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionBroadcast,
		EntityType:  models.EntityNotification,
		Description: fmt.Sprintf("Broadcast to %s (%d recipients): %s", audience, sent, message),
	})
	return sent, nil
}
