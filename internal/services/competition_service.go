package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
	"gorm.io/datatypes"
)

// CompetitionService handles design competition business logic
type CompetitionService struct {
	competitionRepo repository.CompetitionRepository
	submissionRepo  repository.SubmissionRepository
	guard           *access.Guard
	notifier        *Notifier
	now             func() time.Time
}

// NewCompetitionService creates a new CompetitionService
func NewCompetitionService(competitionRepo repository.CompetitionRepository, submissionRepo repository.SubmissionRepository, guard *access.Guard, notifier *Notifier) *CompetitionService {
	return &CompetitionService{
		competitionRepo: competitionRepo,
		submissionRepo:  submissionRepo,
		guard:           guard,
		notifier:        notifier,
		now:             time.Now,
	}
}

// CompetitionWithCount is a competition with its number of submissions.
type CompetitionWithCount struct {
	models.Competition
	SubmissionCount int64
}

// CreateCompetitionInput represents input for creating a competition
type CreateCompetitionInput struct {
	Title          string
	Description    string
	Brief          string
	Category       string
	Prizes         []models.Prize
	StartDate      time.Time
	EndDate        time.Time
	SkillsRequired []string
}

// UpdateCompetitionInput represents input for updating a competition. Nil means unchanged.
type UpdateCompetitionInput struct {
	Title          *string
	Description    *string
	Brief          *string
	Category       *string
	Prizes         *[]models.Prize
	StartDate      *time.Time
	EndDate        *time.Time
	SkillsRequired *[]string
	Status         *models.CompetitionStatus
}

func (s *CompetitionService) List(ctx context.Context, filter repository.CompetitionFilter) ([]CompetitionWithCount, int64, error) {
	competitions, total, err := s.competitionRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list competitions: %w", err)
	}

	withCounts, err := s.withCounts(ctx, competitions)
	if err != nil {
		return nil, 0, err
	}
	return withCounts, total, nil
}

func (s *CompetitionService) ListMine(ctx context.Context, caller access.Caller) ([]CompetitionWithCount, error) {
	if err := s.guard.Check(ctx, caller, access.OpListMine, nil); err != nil {
		return nil, err
	}

	competitions, _, err := s.competitionRepo.List(ctx, repository.CompetitionFilter{ClientID: caller.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return s.withCounts(ctx, competitions)
}

func (s *CompetitionService) Get(ctx context.Context, id string) (*CompetitionWithCount, error) {
	competition, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	withCounts, err := s.withCounts(ctx, []models.Competition{*competition})
	if err != nil {
		return nil, err
	}
	return &withCounts[0], nil
}

// Create launches a competition. Its status is derived from the schedule
// once, here, and only changes through an explicit update.
func (s *CompetitionService) Create(ctx context.Context, caller access.Caller, input CreateCompetitionInput) (*models.Competition, error) {
	if err := s.guard.Check(ctx, caller, access.OpCreateCompetition, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validation("Title is required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, validation("Start and end dates are required")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, validation("End date must be after start date")
	}
	prizes, err := validatePrizes(input.Prizes)
	if err != nil {
		return nil, err
	}

	competition := &models.Competition{
		Title:          title,
		Description:    input.Description,
		Brief:          input.Brief,
		Category:       strings.TrimSpace(input.Category),
		Prizes:         prizes,
		StartDate:      input.StartDate.UTC(),
		EndDate:        input.EndDate.UTC(),
		SkillsRequired: jsonStrings(input.SkillsRequired),
		ClientID:       caller.ID,
		ClientName:     caller.Name,
		Status:         models.DeriveCompetitionStatus(input.StartDate, input.EndDate, s.now()),
		WinnerIDs:      datatypes.JSONSlice[string]{},
	}
	if err := s.competitionRepo.Create(ctx, competition); err != nil {
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Type:    models.NotificationNewCompetition,
		Message: fmt.Sprintf("New competition: %s", competition.Title),
		Link:    "/competitions/" + competition.ID,
	})
	return competition, nil
}

func (s *CompetitionService) Update(ctx context.Context, caller access.Caller, id string, input UpdateCompetitionInput) (*models.Competition, error) {
	competition, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, caller, access.OpUpdateCompetition, &access.Target{OwnerID: competition.ClientID}); err != nil {
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
	if input.Brief != nil {
		fields["brief"] = *input.Brief
	}
	if input.Category != nil {
		fields["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Prizes != nil {
		prizes, err := validatePrizes(*input.Prizes)
		if err != nil {
			return nil, err
		}
		fields["prizes"] = prizes
	}

	start, end := competition.StartDate, competition.EndDate
	if input.StartDate != nil {
		start = input.StartDate.UTC()
		fields["start_date"] = start
	}
	if input.EndDate != nil {
		end = input.EndDate.UTC()
		fields["end_date"] = end
	}
	if !end.After(start) {
		return nil, validation("End date must be after start date")
	}

	if input.SkillsRequired != nil {
		fields["skills_required"] = jsonStrings(*input.SkillsRequired)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, validation("Invalid competition status")
		}
		fields["status"] = *input.Status
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.competitionRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update competition: %w", err)
	}
	return s.find(ctx, id)
}

func (s *CompetitionService) Delete(ctx context.Context, caller access.Caller, id string) error {
	competition, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx, caller, access.OpDeleteCompetition, &access.Target{OwnerID: competition.ClientID}); err != nil {
		return err
	}

	if err := s.competitionRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrCompetitionNotFound
		}
		return fmt.Errorf("failed to delete competition: %w", err)
	}

	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      models.AuditActionDelete,
		EntityType:  models.EntityCompetition,
		EntityID:    id,
		Description: fmt.Sprintf("Deleted competition %q", competition.Title),
	})
	return nil
}

func (s *CompetitionService) SetFeatured(ctx context.Context, caller access.Caller, id string, featured bool) (*models.Competition, error) {
	if err := s.guard.Check(ctx, caller, access.OpFeatureCompetition, nil); err != nil {
		return nil, err
	}

	competition, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.competitionRepo.UpdateFields(ctx, id, map[string]interface{}{"is_featured": featured}); err != nil {
		return nil, fmt.Errorf("failed to update competition: %w", err)
	}
	competition.IsFeatured = featured

	action, verb := models.AuditActionUnfeature, "Unfeatured"
	if featured {
		action, verb = models.AuditActionFeature, "Featured"
	}
	s.notifier.Audit(ctx, caller, AuditEntry{
		Action:      action,
		EntityType:  models.EntityCompetition,
		EntityID:    id,
		Description: fmt.Sprintf("%s competition %q", verb, competition.Title),
	})
	return competition, nil
}

func (s *CompetitionService) find(ctx context.Context, id string) (*models.Competition, error) {
	competition, err := s.competitionRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to find competition: %w", err)
	}
	return competition, nil
}

func (s *CompetitionService) withCounts(ctx context.Context, competitions []models.Competition) ([]CompetitionWithCount, error) {
	ids := make([]string, len(competitions))
	for i, c := range competitions {
		ids[i] = c.ID
	}

	counts, err := s.submissionRepo.CountByCompetitions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	result := make([]CompetitionWithCount, len(competitions))
	for i, c := range competitions {
		result[i] = CompetitionWithCount{Competition: c, SubmissionCount: counts[c.ID]}
	}
	return result, nil
}

func validatePrizes(prizes []models.Prize) (datatypes.JSONSlice[models.Prize], error) {
	seen := make(map[int]bool, len(prizes))
	out := make(datatypes.JSONSlice[models.Prize], 0, len(prizes))
	for _, p := range prizes {
		if p.Position < constants.MinWinnerPosition || p.Position > constants.MaxWinnerPosition {
			return nil, ErrInvalidPosition
		}
		if seen[p.Position] {
			return nil, validation(fmt.Sprintf("Duplicate prize for position %d", p.Position))
		}
		if p.Amount != nil && *p.Amount < 0 {
			return nil, validation("Prize amount cannot be negative")
		}
		seen[p.Position] = true
		out = append(out, p)
	}
	return out, nil
}
