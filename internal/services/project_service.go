package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
)

// ProjectService handles freelance project business logic
type ProjectService struct {
	projectRepo  repository.ProjectRepository
	proposalRepo repository.ProposalRepository
	guard        *access.Guard
	notifier     *Notifier
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, proposalRepo repository.ProposalRepository, guard *access.Guard, notifier *Notifier) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		proposalRepo: proposalRepo,
		guard:        guard,
		notifier:     notifier,
	}
}

// ProjectWithCount is a project with its number of proposals.
type ProjectWithCount struct {
	models.Project
	ProposalCount int64
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Title          string
	Description    string
	Category       string
	BudgetMin      *float64
	BudgetMax      *float64
	Deadline       *time.Time
	SkillsRequired []string
}

// UpdateProjectInput represents input for updating a project. Nil means unchanged.
type UpdateProjectInput struct {
	Title          *string
	Description    *string
	Category       *string
	BudgetMin      *float64
	BudgetMax      *float64
	Deadline       *time.Time
	SkillsRequired *[]string
	Status         *models.ProjectStatus
}

// List returns projects matching the filter with proposal counts
func (s *ProjectService) List(ctx context.Context, filter repository.ProjectFilter) ([]ProjectWithCount, int64, error) {
	projects, total, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	withCounts, err := s.withCounts(ctx, projects)
	if err != nil {
		return nil, 0, err
	}
	return withCounts, total, nil
}

// ListMine returns the caller's own projects
func (s *ProjectService) ListMine(ctx context.Context, caller access.Caller) ([]ProjectWithCount, error) {
	if err := s.guard.Check(ctx, caller, access.OpListMine, nil); err != nil {
		return nil, err
	}

	projects, _, err := s.projectRepo.List(ctx, repository.ProjectFilter{ClientID: caller.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return s.withCounts(ctx, projects)
}

// Get returns a project with its proposal count
func (s *ProjectService) Get(ctx context.Context, id string) (*ProjectWithCount, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	withCounts, err := s.withCounts(ctx, []models.Project{*project})
	if err != nil {
		return nil, err
	}
	return &withCounts[0], nil
}

// Create posts a new open project owned by the caller
func (s *ProjectService) Create(ctx context.Context, caller access.Caller, input CreateProjectInput) (*models.Project, error) {
	if err := s.guard.Check(ctx, caller, access.OpCreateProject, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validation("Title is required")
	}
	if err := validateBudget(input.BudgetMin, input.BudgetMax); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:          title,
		Description:    input.Description,
		Category:       strings.TrimSpace(input.Category),
		BudgetMin:      input.BudgetMin,
		BudgetMax:      input.BudgetMax,
		Deadline:       input.Deadline,
		SkillsRequired: jsonStrings(input.SkillsRequired),
		ClientID:       caller.ID,
		ClientName:     caller.Name,
		Status:         models.ProjectStatusOpen,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:    models.NotificationNewProject,
		Message: fmt.Sprintf("New project posted: %s", project.Title),
		Link:    "/freelance/" + project.ID,
	})
	return project, nil
}

// Update edits a project; owner or superadmin only
func (s *ProjectService) Update(ctx context.Context, caller access.Caller, id string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, caller, access.OpUpdateProject, &access.Target{OwnerID: project.ClientID}); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, validation("Title cannot be empty")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Category != nil {
		fields["category"] = strings.TrimSpace(*input.Category)
	}

	budgetMin, budgetMax := project.BudgetMin, project.BudgetMax
	if input.BudgetMin != nil {
		budgetMin = input.BudgetMin
		fields["budget_min"] = *input.BudgetMin
	}
	if input.BudgetMax != nil {
		budgetMax = input.BudgetMax
		fields["budget_max"] = *input.BudgetMax
	}
	if err := validateBudget(budgetMin, budgetMax); err != nil {
		return nil, err
	}

	if input.Deadline != nil {
		fields["deadline"] = *input.Deadline
	}
	if input.SkillsRequired != nil {
		fields["skills_required"] = jsonStrings(*input.SkillsRequired)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, validation("Invalid project status")
		}
		fields["status"] = *input.Status
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.projectRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.find(ctx, id)
}

// Delete removes a project and its proposals
func (s *ProjectService) Delete(ctx context.Context, caller access.Caller, id string) error {
	project, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx, caller, access.OpDeleteProject, &access.Target{OwnerID: project.ClientID}); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionDelete,
		EntityType:  models.EntityProject,
		EntityID:    id,
		Description: fmt.Sprintf("Deleted project %q", project.Title),
	})
	return nil
}

// SetFeatured features or unfeatures a project on the homepage
func (s *ProjectService) SetFeatured(ctx context.Context, caller access.Caller, id string, featured bool) (*models.Project, error) {
	if err := s.guard.Check(ctx, caller, access.OpFeatureProject, nil); err != nil {
		return nil, err
	}

	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.UpdateFields(ctx, id, map[string]interface{}{"is_featured": featured}); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	project.IsFeatured = featured

	action, verb := models.AuditActionUnfeature, "Unfeatured"
	if featured {
		action, verb = models.AuditActionFeature, "Featured"
	}
	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      action,
		EntityType:  models.EntityProject,
		EntityID:    id,
		Description: fmt.Sprintf("%s project %q", verb, project.Title),
	})
	return project, nil
}

func (s *ProjectService) find(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) withCounts(ctx context.Context, projects []models.Project) ([]ProjectWithCount, error) {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	counts, err := s.proposalRepo.CountByProjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals: %w", err)
	}

	result := make([]ProjectWithCount, len(projects))
	for i, p := range projects {
		result[i] = ProjectWithCount{Project: p, ProposalCount: counts[p.ID]}
	}
	return result, nil
}

func validateBudget(min, max *float64) error {
	if (min != nil && *min < 0) || (max != nil && *max < 0) {
		return validation("Budget cannot be negative")
	}
	if min != nil && max != nil && *min > *max {
		return validation("Minimum budget cannot exceed maximum budget")
	}
	return nil
}
