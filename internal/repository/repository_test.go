package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/testutil"
	"github.com/yukikurage/dezx-api/internal/utils"
	"gorm.io/gorm"
)

func seedProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()
	project := &models.Project{Title: "Logo", ClientID: "client-1", Status: models.ProjectStatusOpen}
	require.NoError(t, db.Create(project).Error)
	return project
}

func seedProposal(t *testing.T, db *gorm.DB, projectID, designerID string) *models.Proposal {
	t.Helper()
	proposal := &models.Proposal{
		ProjectID:   projectID,
		DesignerID:  designerID,
		CoverLetter: "hello",
		Status:      models.ReviewStatusPending,
	}
	require.NoError(t, db.Create(proposal).Error)
	return proposal
}

func TestProposalRepository_ApproveCascade(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	project := seedProject(t, db)
	p1 := seedProposal(t, db, project.ID, "d1")
	p2 := seedProposal(t, db, project.ID, "d2")
	p3 := seedProposal(t, db, project.ID, "d3")

	require.NoError(t, repo.Approve(ctx, p2.ID, project.ID))

	for id, want := range map[string]models.ReviewStatus{
		p1.ID: models.ReviewStatusRejected,
		p2.ID: models.ReviewStatusApproved,
		p3.ID: models.ReviewStatusRejected,
	} {
		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got.Status)
	}

	var updated models.Project
	require.NoError(t, db.First(&updated, "id = ?", project.ID).Error)
	require.Equal(t, models.ProjectStatusInProgress, updated.Status)
	require.NotNil(t, updated.ApprovedProposalID)
	require.Equal(t, p2.ID, *updated.ApprovedProposalID)
}

func TestProposalRepository_ApproveTwiceFails(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	project := seedProject(t, db)
	p1 := seedProposal(t, db, project.ID, "d1")

	require.NoError(t, repo.Approve(ctx, p1.ID, project.ID))
	require.ErrorIs(t, repo.Approve(ctx, p1.ID, project.ID), ErrProposalNotPending)
}

func TestProposalRepository_UniquePerDesigner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	project := seedProject(t, db)
	seedProposal(t, db, project.ID, "d1")

	exists, err := repo.Exists(ctx, project.ID, "d1")
	require.NoError(t, err)
	require.True(t, exists)

	err = repo.Create(ctx, &models.Proposal{ProjectID: project.ID, DesignerID: "d1", CoverLetter: "again"})
	require.Error(t, err)
}

func TestProjectRepository_DeleteCascadesProposals(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	project := seedProject(t, db)
	seedProposal(t, db, project.ID, "d1")
	other := seedProject(t, db)
	seedProposal(t, db, other.ID, "d1")

	require.NoError(t, repo.Delete(ctx, project.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.Proposal{}).Count(&remaining).Error)
	require.Equal(t, int64(1), remaining)

	require.ErrorIs(t, repo.Delete(ctx, project.ID), gorm.ErrRecordNotFound)
}

func TestProjectRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	open := seedProject(t, db)
	closed := &models.Project{Title: "Closed", ClientID: "client-2", Status: models.ProjectStatusClosed, Category: "branding"}
	require.NoError(t, db.Create(closed).Error)

	status := models.ProjectStatusOpen
	projects, total, err := repo.List(ctx, ProjectFilter{Status: &status})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, open.ID, projects[0].ID)

	projects, total, err = repo.List(ctx, ProjectFilter{Category: "branding"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, closed.ID, projects[0].ID)

	projects, total, err = repo.List(ctx, ProjectFilter{Page: utils.NewPaginationParams(2, 1)})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, projects, 1)
}

func TestProposalRepository_CountByProjects(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	a := seedProject(t, db)
	b := seedProject(t, db)
	seedProposal(t, db, a.ID, "d1")
	seedProposal(t, db, a.ID, "d2")

	counts, err := repo.CountByProjects(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[a.ID])
	require.Equal(t, int64(0), counts[b.ID])
}

func seedCompetition(t *testing.T, db *gorm.DB) *models.Competition {
	t.Helper()
	now := time.Now().UTC()
	competition := &models.Competition{
		Title:     "Poster",
		ClientID:  "client-1",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		Status:    models.CompetitionStatusActive,
	}
	require.NoError(t, db.Create(competition).Error)
	return competition
}

func seedSubmission(t *testing.T, db *gorm.DB, competitionID, designerID string) *models.Submission {
	t.Helper()
	submission := &models.Submission{
		CompetitionID: competitionID,
		DesignerID:    designerID,
		Title:         "Entry",
		Status:        models.ReviewStatusPending,
	}
	require.NoError(t, db.Create(submission).Error)
	return submission
}

func TestSubmissionRepository_SetWinnerReassignsPosition(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	competition := seedCompetition(t, db)
	s1 := seedSubmission(t, db, competition.ID, "d1")
	s2 := seedSubmission(t, db, competition.ID, "d2")

	require.NoError(t, repo.SetWinner(ctx, s1, 1))
	require.NoError(t, repo.SetWinner(ctx, s2, 1))

	first, err := repo.FindByID(ctx, s1.ID)
	require.NoError(t, err)
	require.False(t, first.IsWinner)
	require.Nil(t, first.WinnerPosition)

	second, err := repo.FindByID(ctx, s2.ID)
	require.NoError(t, err)
	require.True(t, second.IsWinner)
	require.NotNil(t, second.WinnerPosition)
	require.Equal(t, 1, *second.WinnerPosition)
	require.Equal(t, models.ReviewStatusApproved, second.Status)

	var updated models.Competition
	require.NoError(t, db.First(&updated, "id = ?", competition.ID).Error)
	require.Contains(t, []string(updated.WinnerIDs), "d2")
}

func TestSubmissionRepository_WinnerIDsIsASet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	competition := seedCompetition(t, db)
	s1 := seedSubmission(t, db, competition.ID, "d1")

	require.NoError(t, repo.SetWinner(ctx, s1, 1))
	require.NoError(t, repo.SetWinner(ctx, s1, 2))

	var updated models.Competition
	require.NoError(t, db.First(&updated, "id = ?", competition.ID).Error)
	require.Equal(t, []string{"d1"}, []string(updated.WinnerIDs))

	require.NoError(t, repo.RemoveWinner(ctx, s1.ID))
	cleared, err := repo.FindByID(ctx, s1.ID)
	require.NoError(t, err)
	require.False(t, cleared.IsWinner)
	require.Nil(t, cleared.WinnerPosition)

	require.NoError(t, db.First(&updated, "id = ?", competition.ID).Error)
	require.Equal(t, []string{"d1"}, []string(updated.WinnerIDs))
}

func TestCompetitionRepository_DeleteCascadesSubmissions(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCompetitionRepository(db)
	ctx := context.Background()

	competition := seedCompetition(t, db)
	seedSubmission(t, db, competition.ID, "d1")

	require.NoError(t, repo.Delete(ctx, competition.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&remaining).Error)
	require.Zero(t, remaining)
}

func TestNotificationRepository_Visibility(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	user := "u1"
	other := "u2"
	require.NoError(t, repo.CreateBatch(ctx, []models.Notification{
		{ToUserID: &user, Type: models.NotificationNewProposal, Message: "mine"},
		{ToUserID: &other, Type: models.NotificationNewProposal, Message: "theirs"},
		{Type: models.NotificationNewUser, Message: "[Admin] broadcast"},
	}))

	mine, err := repo.ListForUser(ctx, user, false, 50)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	withBroadcasts, err := repo.ListForUser(ctx, user, true, 50)
	require.NoError(t, err)
	require.Len(t, withBroadcasts, 2)

	ok, err := repo.MarkRead(ctx, mine[0].ID, other, false)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.MarkRead(ctx, mine[0].ID, user, false)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := repo.MarkAllRead(ctx, user, true)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	broadcasts, err := repo.ListBroadcasts(ctx, 20)
	require.NoError(t, err)
	require.Len(t, broadcasts, 1)
	require.True(t, broadcasts[0].IsRead)
}

func TestSettingsRepository_DefaultsAndSave(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	require.True(t, settings.IsFreelanceEnabled)

	settings.IsFreelanceEnabled = false
	require.NoError(t, repo.Save(ctx, settings))

	settings.MaintenanceMode = true
	require.NoError(t, repo.Save(ctx, settings))

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	require.False(t, stored.IsFreelanceEnabled)
	require.True(t, stored.MaintenanceMode)

	var rows int64
	require.NoError(t, db.Model(&models.PlatformSettings{}).Count(&rows).Error)
	require.Equal(t, int64(1), rows)
}

func TestContentRepository_SaveAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Save(ctx, &models.SiteContent{Content: map[string]interface{}{"hero_headline": "Hi"}}))
	require.NoError(t, repo.Save(ctx, &models.SiteContent{Content: map[string]interface{}{"hero_headline": "Hello"}}))

	content, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Hello", content.Content["hero_headline"])
}

func TestUserRepository_UpdateAndCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Dee", Email: "dee@example.com", PasswordHash: "x", Role: models.RoleDesigner}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdateFields(ctx, user.ID, map[string]interface{}{"is_blocked": true}))
	require.NoError(t, repo.UpdateFields(ctx, user.ID, map[string]interface{}{"is_blocked": true}))
	require.ErrorIs(t, repo.UpdateFields(ctx, "missing", map[string]interface{}{"is_blocked": true}), gorm.ErrRecordNotFound)

	found, err := repo.FindByEmail(ctx, "dee@example.com")
	require.NoError(t, err)
	require.True(t, found.IsBlocked)

	role := models.RoleDesigner
	count, err := repo.Count(ctx, &role)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	ids, err := repo.ListIDs(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{user.ID}, ids)
}
