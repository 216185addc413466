package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/metrics"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
)

// SubmissionService runs competition entries: review and winner selection.
type SubmissionService struct {
	submissionRepo  repository.SubmissionRepository
	competitionRepo repository.CompetitionRepository
	userRepo        repository.UserRepository
	guard           *access.Guard
	notifier        *Notifier
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(submissionRepo repository.SubmissionRepository, competitionRepo repository.CompetitionRepository, userRepo repository.UserRepository, guard *access.Guard, notifier *Notifier) *SubmissionService {
	return &SubmissionService{
		submissionRepo:  submissionRepo,
		competitionRepo: competitionRepo,
		userRepo:        userRepo,
		guard:           guard,
		notifier:        notifier,
	}
}

// CreateSubmissionInput represents input for entering a competition
type CreateSubmissionInput struct {
	CompetitionID string
	Title         string
	Description   string
}

// UpdateSubmissionInput represents input for editing an entry. Nil means unchanged.
type UpdateSubmissionInput struct {
	Title       *string
	Description *string
}

// SubmissionWithCompetition is a submission joined with its competition's title and status.
type SubmissionWithCompetition struct {
	models.Submission
	CompetitionTitle  string
	CompetitionStatus string
}

// Create enters a competition that is upcoming or active. One entry per designer.
func (s *SubmissionService) Create(ctx context.Context, caller access.Caller, input CreateSubmissionInput) (*models.Submission, error) {
	if err := s.guard.Check(ctx, caller, access.OpCreateSubmission, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validation("Title is required")
	}

	competition, err := s.findCompetition(ctx, input.CompetitionID)
	if err != nil {
		return nil, err
	}
	if !competition.Status.AcceptsSubmissions() {
		return nil, ErrCompetitionNotAccepts
	}

	exists, err := s.submissionRepo.Exists(ctx, competition.ID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}
	if exists {
		return nil, ErrDuplicateSubmission
	}

	submission := &models.Submission{
		CompetitionID: competition.ID,
		DesignerID:    caller.ID,
		DesignerName:  caller.Name,
		DesignerImage: s.profileImage(ctx, caller.ID),
		Title:         title,
		Description:   input.Description,
		Status:        models.ReviewStatusPending,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:     models.NotificationNewSubmission,
		Message:  fmt.Sprintf("New submission for '%s' from %s", competition.Title, submission.DesignerName),
		ToUserID: competition.ClientID,
		Link:     "/client/competitions/" + competition.ID,
	})
	return submission, nil
}

// ListByCompetition is public: entries are shown on the competition page.
func (s *SubmissionService) ListByCompetition(ctx context.Context, competitionID string) ([]models.Submission, error) {
	if _, err := s.findCompetition(ctx, competitionID); err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionService) ListMine(ctx context.Context, caller access.Caller) ([]SubmissionWithCompetition, error) {
	if err := s.guard.Check(ctx, caller, access.OpListMine, nil); err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.ListByDesigner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	ids := make([]string, len(submissions))
	for i, sub := range submissions {
		ids[i] = sub.CompetitionID
	}
	competitions, err := s.competitionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load competitions: %w", err)
	}

	result := make([]SubmissionWithCompetition, len(submissions))
	for i, sub := range submissions {
		result[i] = SubmissionWithCompetition{Submission: sub, CompetitionTitle: "Unknown", CompetitionStatus: "unknown"}
		if competition, ok := competitions[sub.CompetitionID]; ok {
			result[i].CompetitionTitle = competition.Title
			result[i].CompetitionStatus = string(competition.Status)
		}
	}
	return result, nil
}

// Update edits an entry's title or description; its designer or a superadmin only.
func (s *SubmissionService) Update(ctx context.Context, caller access.Caller, id string, input UpdateSubmissionInput) (*models.Submission, error) {
	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, caller, access.OpUpdateSubmission, &access.Target{OwnerID: submission.DesignerID}); err != nil {
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
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.submissionRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	return s.find(ctx, id)
}

// Approve marks an entry approved. Review does not touch the winner flag.
func (s *SubmissionService) Approve(ctx context.Context, caller access.Caller, id string) (*models.Submission, error) {
	return s.review(ctx, caller, id, models.ReviewStatusApproved)
}

// Reject marks an entry rejected.
func (s *SubmissionService) Reject(ctx context.Context, caller access.Caller, id string) (*models.Submission, error) {
	return s.review(ctx, caller, id, models.ReviewStatusRejected)
}

// SetWinner awards position 1, 2 or 3. A previous holder of the position
// loses it and the designer joins the competition's winner set.
func (s *SubmissionService) SetWinner(ctx context.Context, caller access.Caller, id string, position int) (_ *models.Submission, err error) {
	defer func() { metrics.RecordTransition("submission", "winner", err) }()

	submission, competition, err := s.judgeable(ctx, caller, id, access.OpSetWinner)
	if err != nil {
		return nil, err
	}
	if position < constants.MinWinnerPosition || position > constants.MaxWinnerPosition {
		return nil, ErrInvalidPosition
	}

	if err := s.submissionRepo.SetWinner(ctx, submission, position); err != nil {
		if isDuplicate(err) {
			return nil, apiConflict("Winner position was taken concurrently, try again")
		}
		return nil, fmt.Errorf("failed to set winner: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:     models.NotificationCompetitionWinner,
		Message:  fmt.Sprintf("Congratulations! You won position #%d in '%s'!", position, competition.Title),
		ToUserID: submission.DesignerID,
		Link:     "/competitions/" + competition.ID,
	})
	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionWinner,
		EntityType:  models.EntitySubmission,
		EntityID:    submission.ID,
		Description: fmt.Sprintf("Set %s as winner #%d of competition %q", submission.DesignerName, position, competition.Title),
	})
	return s.find(ctx, id)
}

// RemoveWinner clears the winner flag and position. The designer stays in
// the competition's winner set.
func (s *SubmissionService) RemoveWinner(ctx context.Context, caller access.Caller, id string) (_ *models.Submission, err error) {
	defer func() { metrics.RecordTransition("submission", "remove_winner", err) }()

	submission, competition, err := s.judgeable(ctx, caller, id, access.OpSetWinner)
	if err != nil {
		return nil, err
	}

	if err := s.submissionRepo.RemoveWinner(ctx, submission.ID); err != nil {
		return nil, fmt.Errorf("failed to remove winner: %w", err)
	}

	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionWinner,
		EntityType:  models.EntitySubmission,
		EntityID:    submission.ID,
		Description: fmt.Sprintf("Removed winner %s from competition %q", submission.DesignerName, competition.Title),
	})
	return s.find(ctx, id)
}

func (s *SubmissionService) review(ctx context.Context, caller access.Caller, id string, status models.ReviewStatus) (_ *models.Submission, err error) {
	defer func() { metrics.RecordTransition("submission", string(status), err) }()

	submission, competition, err := s.judgeable(ctx, caller, id, access.OpReviewSubmission)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"status": status}
	// A rejected entry cannot keep a podium place.
	if status == models.ReviewStatusRejected && submission.IsWinner {
		fields["is_winner"] = false
		fields["winner_position"] = nil
	}
	if err := s.submissionRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to review submission: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:     models.NotificationSubmissionUpdated,
		Message:  fmt.Sprintf("Your submission to '%s' was %s", competition.Title, status),
		ToUserID: submission.DesignerID,
		Link:     "/competitions/" + competition.ID,
	})

	action := models.AuditActionApprove
	if status == models.ReviewStatusRejected {
		action = models.AuditActionReject
	}
	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      action,
		EntityType:  models.EntitySubmission,
		EntityID:    submission.ID,
		Description: fmt.Sprintf("Marked submission from %s %s in competition %q", submission.DesignerName, status, competition.Title),
	})
	return s.find(ctx, id)
}

// judgeable loads a submission and its competition and checks the caller
// owns the competition.
func (s *SubmissionService) judgeable(ctx context.Context, caller access.Caller, id string, op access.Operation) (*models.Submission, *models.Competition, error) {
	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	competition, err := s.findCompetition(ctx, submission.CompetitionID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.guard.Check(ctx, caller, op, &access.Target{OwnerID: competition.ClientID}); err != nil {
		return nil, nil, err
	}
	return submission, competition, nil
}

func (s *SubmissionService) find(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return submission, nil
}

func (s *SubmissionService) findCompetition(ctx context.Context, id string) (*models.Competition, error) {
	competition, err := s.competitionRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to find competition: %w", err)
	}
	return competition, nil
}

func (s *SubmissionService) profileImage(ctx context.Context, userID string) *string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil
	}
	return user.ProfileImage
}
