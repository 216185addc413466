package services

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/metrics"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
	"github.com/yukikurage/dezx-api/internal/utils"
)

var errStoreDown = errors.New("store unavailable")

type failingNotifications struct {
	repository.NotificationRepository
}

func (failingNotifications) CreateBatch(context.Context, []models.Notification) error {
	return errStoreDown
}

type failingAuditLogs struct {
	repository.AuditLogRepository
}

func (failingAuditLogs) Create(context.Context, *models.AuditLog) error {
	return errStoreDown
}

func (s *ServiceTestSuite) fanoutFailures(kind string) float64 {
	families, err := metrics.Registry.Gather()
	s.Require().NoError(err)
	for _, family := range families {
		if family.GetName() != "dezx_fanout_failures_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "kind" && label.GetValue() == kind {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func (s *ServiceTestSuite) TestFanoutFailuresDoNotFailTransitions() {
	admin := s.newCaller("admin", models.RoleSuperadmin)
	client := s.newCaller("client", models.RoleClient)
	alice := s.newCaller("alice", models.RoleDesigner)
	project := s.newProject(client)
	competition := s.newCompetition(client)

	proposal, err := s.proposals.Create(s.ctx, alice, CreateProposalInput{ProjectID: project.ID, CoverLetter: "hi"})
	s.Require().NoError(err)
	entry := s.submit(alice, competition.ID)

	log := logrus.New()
	log.SetOutput(io.Discard)
	notifier := NewNotifier(failingNotifications{s.notifications}, failingAuditLogs{s.auditLogs}, log)
	guard := access.NewGuard(s.users, s.settingsRepo)
	projectRepo := repository.NewProjectRepository(s.db)
	competitionRepo := repository.NewCompetitionRepository(s.db)
	proposals := NewProposalService(repository.NewProposalRepository(s.db), projectRepo, s.users, guard, notifier)
	submissions := NewSubmissionService(repository.NewSubmissionRepository(s.db), competitionRepo, s.users, guard, notifier)

	notesBefore := s.fanoutFailures("notification")
	auditBefore := s.fanoutFailures("audit")

	approved, err := proposals.Approve(s.ctx, admin, proposal.ID)
	s.Require().NoError(err)
	s.Equal(models.ReviewStatusApproved, approved.Status)

	gotProject, err := s.projects.Get(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Equal(models.ProjectStatusInProgress, gotProject.Status)
	s.Require().NotNil(gotProject.ApprovedProposalID)
	s.Equal(proposal.ID, *gotProject.ApprovedProposalID)

	winner, err := submissions.SetWinner(s.ctx, admin, entry.ID, 1)
	s.Require().NoError(err)
	s.True(winner.IsWinner)
	s.Require().NotNil(winner.WinnerPosition)
	s.Equal(1, *winner.WinnerPosition)

	gotCompetition, err := s.competitions.Get(s.ctx, competition.ID)
	s.Require().NoError(err)
	s.Contains([]string(gotCompetition.WinnerIDs), alice.ID)

	s.GreaterOrEqual(s.fanoutFailures("notification"), notesBefore+2)
	s.GreaterOrEqual(s.fanoutFailures("audit"), auditBefore+2)

	notes, err := s.notifications.ListForUser(s.ctx, alice.ID, false, 50)
	s.Require().NoError(err)
	s.Empty(notes)

	_, total, err := s.auditLogs.List(s.ctx, repository.AuditLogFilter{Page: utils.NewPaginationParams(1, 10)})
	s.Require().NoError(err)
	s.Zero(total)
}
