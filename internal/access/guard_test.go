package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/models"
	"gorm.io/gorm"
)

type stubUsers map[string]*models.User

func (s stubUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSettings struct {
	settings *models.PlatformSettings
	err      error
	reads    int
}

func (s *stubSettings) Get(context.Context) (*models.PlatformSettings, error) {
	s.reads++
	return s.settings, s.err
}

func TestGuard_ResolveUsesStoredBlockStatus(t *testing.T) {
	users := stubUsers{
		"u1": {ID: "u1", Name: "Client", Role: models.RoleClient, IsBlocked: true},
	}
	g := NewGuard(users, &stubSettings{})

	c, err := g.Resolve(context.Background(), &Identity{SubjectID: "u1", Role: models.RoleSuperadmin})
	require.NoError(t, err)
	require.True(t, c.Authenticated)
	require.True(t, c.Blocked)
	require.Equal(t, models.RoleClient, c.Role)
}

func TestGuard_ResolveAnonymousAndDeletedUser(t *testing.T) {
	g := NewGuard(stubUsers{}, &stubSettings{})

	c, err := g.Resolve(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, c.Authenticated)

	_, err = g.Resolve(context.Background(), &Identity{SubjectID: "gone"})
	require.ErrorIs(t, err, apierrors.Unauthenticated)
}

func TestGuard_CheckMapsReasons(t *testing.T) {
	disabled := models.DefaultPlatformSettings("")
	disabled.IsFreelanceEnabled = false
	settings := &stubSettings{settings: &disabled}
	g := NewGuard(stubUsers{}, settings)
	ctx := context.Background()

	err := g.Check(ctx, caller("c", models.RoleClient), OpCreateProject, nil)
	require.ErrorIs(t, err, apierrors.FeatureDisabled)
	require.Equal(t, 1, settings.reads)

	err = g.Check(ctx, caller("c", models.RoleClient), OpUpdateProject, &Target{OwnerID: "x"})
	require.ErrorIs(t, err, apierrors.Forbidden)
	require.Equal(t, 1, settings.reads)

	blocked := caller("c", models.RoleClient)
	blocked.Blocked = true
	err = g.Check(ctx, blocked, OpUpdateProject, &Target{OwnerID: "c"})
	require.ErrorIs(t, err, apierrors.Blocked)
	require.ErrorIs(t, err, apierrors.Forbidden)

	err = g.Check(ctx, Anonymous, OpReadSelf, nil)
	require.ErrorIs(t, err, apierrors.Unauthenticated)

	require.NoError(t, g.Check(ctx, caller("c", models.RoleClient), OpUpdateProject, &Target{OwnerID: "c"}))
}

func TestGuard_CheckSettingsFailure(t *testing.T) {
	g := NewGuard(stubUsers{}, &stubSettings{err: errors.New("db down")})

	err := g.Check(context.Background(), caller("c", models.RoleClient), OpCreateProject, nil)
	require.Error(t, err)
	status, _ := apierrors.Classify(err)
	require.Equal(t, 500, status)
}
