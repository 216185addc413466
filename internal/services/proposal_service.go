package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/metrics"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
)

// ProposalService runs the proposal lifecycle: pending, then approved or rejected.
type ProposalService struct {
	proposalRepo repository.ProposalRepository
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	guard        *access.Guard
	notifier     *Notifier
}

// NewProposalService creates a new ProposalService
func NewProposalService(proposalRepo repository.ProposalRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, guard *access.Guard, notifier *Notifier) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		guard:        guard,
		notifier:     notifier,
	}
}

// CreateProposalInput represents input for submitting a proposal
type CreateProposalInput struct {
	ProjectID         string
	CoverLetter       string
	ProposedBudget    *float64
	EstimatedDuration *string
}

// ProposalWithProject is a proposal joined with its project's title and status.
type ProposalWithProject struct {
	models.Proposal
	ProjectTitle  string
	ProjectStatus string
}

// Create submits a proposal on an open project. A designer gets one proposal per project.
func (s *ProposalService) Create(ctx context.Context, caller access.Caller, input CreateProposalInput) (*models.Proposal, error) {
	if err := s.guard.Check(ctx, caller, access.OpCreateProposal, nil); err != nil {
		return nil, err
	}

	coverLetter := strings.TrimSpace(input.CoverLetter)
	if coverLetter == "" {
		return nil, validation("Cover letter is required")
	}
	if input.ProposedBudget != nil && *input.ProposedBudget < 0 {
		return nil, validation("Proposed budget cannot be negative")
	}

	project, err := s.findProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, ErrProjectNotOpen
	}

	exists, err := s.proposalRepo.Exists(ctx, project.ID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing proposal: %w", err)
	}
	if exists {
		return nil, ErrDuplicateProposal
	}

	proposal := &models.Proposal{
		ProjectID:         project.ID,
		DesignerID:        caller.ID,
		DesignerName:      caller.Name,
		DesignerImage:     s.profileImage(ctx, caller.ID),
		CoverLetter:       coverLetter,
		ProposedBudget:    input.ProposedBudget,
		EstimatedDuration: input.EstimatedDuration,
		Status:            models.ReviewStatusPending,
	}
	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateProposal
		}
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:     models.NotificationNewProposal,
		Message:  fmt.Sprintf("New proposal for '%s' from %s", project.Title, proposal.DesignerName),
		ToUserID: project.ClientID,
		Link:     "/client/projects/" + project.ID,
	})
	return proposal, nil
}

// ListByProject returns a project's proposals to its owner
func (s *ProposalService) ListByProject(ctx context.Context, caller access.Caller, projectID string) ([]models.Proposal, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, caller, access.OpListProposals, &access.Target{OwnerID: project.ClientID}); err != nil {
		return nil, err
	}

	proposals, err := s.proposalRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// ListMine returns the caller's proposals with their projects' title and status
func (s *ProposalService) ListMine(ctx context.Context, caller access.Caller) ([]ProposalWithProject, error) {
	if err := s.guard.Check(ctx, caller, access.OpListMine, nil); err != nil {
		return nil, err
	}

	proposals, err := s.proposalRepo.ListByDesigner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	ids := make([]string, len(proposals))
	for i, p := range proposals {
		ids[i] = p.ProjectID
	}
	projects, err := s.projectRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	result := make([]ProposalWithProject, len(proposals))
	for i, p := range proposals {
		result[i] = ProposalWithProject{Proposal: p, ProjectTitle: "Unknown", ProjectStatus: "unknown"}
		if project, ok := projects[p.ProjectID]; ok {
			result[i].ProjectTitle = project.Title
			result[i].ProjectStatus = string(project.Status)
		}
	}
	return result, nil
}

// Approve accepts a pending proposal. Every sibling is rejected and the
// project moves to in_progress in the same transaction.
func (s *ProposalService) Approve(ctx context.Context, caller access.Caller, id string) (_ *models.Proposal, err error) {
	defer func() { metrics.RecordTransition("proposal", "approve", err) }()

	proposal, project, err := s.reviewable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ReviewStatusPending {
		return nil, ErrProposalNotPending
	}

	if err := s.proposalRepo.Approve(ctx, proposal.ID, project.ID); err != nil {
		if errors.Is(err, repository.ErrProposalNotPending) {
			return nil, ErrProposalNotPending
		}
		return nil, fmt.Errorf("failed to approve proposal: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:     models.NotificationProposalApproved,
		Message:  fmt.Sprintf("Your proposal for '%s' has been approved!", project.Title),
		ToUserID: proposal.DesignerID,
		Link:     "/designer/proposals",
	})
	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionApprove,
		EntityType:  models.EntityProposal,
		EntityID:    proposal.ID,
		Description: fmt.Sprintf("Approved proposal from %s on project %q", proposal.DesignerName, project.Title),
	})
	return s.find(ctx, proposal.ID)
}

// Reject declines a proposal. The project is untouched. Rejecting an already
// rejected proposal returns it unchanged; an approved proposal stays approved.
func (s *ProposalService) Reject(ctx context.Context, caller access.Caller, id string) (_ *models.Proposal, err error) {
	defer func() { metrics.RecordTransition("proposal", "reject", err) }()

	proposal, project, err := s.reviewable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	switch proposal.Status {
	case models.ReviewStatusRejected:
		return proposal, nil
	case models.ReviewStatusApproved:
		return nil, ErrProposalNotPending
	}

	if err := s.proposalRepo.Reject(ctx, proposal.ID); err != nil {
		return nil, fmt.Errorf("failed to reject proposal: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:     models.NotificationProposalRejected,
		Message:  fmt.Sprintf("Your proposal for '%s' was not selected", project.Title),
		ToUserID: proposal.DesignerID,
		Link:     "/designer/proposals",
	})
	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionReject,
		EntityType:  models.EntityProposal,
		EntityID:    proposal.ID,
		Description: fmt.Sprintf("Rejected proposal from %s on project %q", proposal.DesignerName, project.Title),
	})
	return s.find(ctx, proposal.ID)
}

// reviewable loads a proposal and its project and checks the caller may review it.
func (s *ProposalService) reviewable(ctx context.Context, caller access.Caller, id string) (*models.Proposal, *models.Project, error) {
	proposal, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.findProject(ctx, proposal.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.guard.Check(ctx, caller, access.OpReviewProposal, &access.Target{OwnerID: project.ClientID}); err != nil {
		return nil, nil, err
	}
	return proposal, project, nil
}

func (s *ProposalService) find(ctx context.Context, id string) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}
	return proposal, nil
}

func (s *ProposalService) findProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// profileImage is a best-effort lookup for denormalizing onto entries.
func (s *ProposalService) profileImage(ctx context.Context, userID string) *string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil
	}
	return user.ProfileImage
}
