package access

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dezx-api/internal/models"
)

func caller(id string, role models.Role) Caller {
	return Caller{ID: id, Role: role, Authenticated: true}
}

func settingsWith(mutate func(*models.PlatformSettings)) *models.PlatformSettings {
	s := models.DefaultPlatformSettings("")
	if mutate != nil {
		mutate(&s)
	}
	return &s
}

func TestAuthorize_Unauthenticated(t *testing.T) {
	d := Authorize(Anonymous, OpCreateProject, nil, settingsWith(nil))
	require.False(t, d.Allowed)
	require.Equal(t, ReasonUnauthenticated, d.Reason)

	d = Authorize(Anonymous, OpReadSelf, nil, nil)
	require.Equal(t, ReasonUnauthenticated, d.Reason)

	d = Authorize(Anonymous, OpRegister, nil, settingsWith(nil))
	require.True(t, d.Allowed)
}

func TestAuthorize_RegisterFeatureGate(t *testing.T) {
	disabled := settingsWith(func(s *models.PlatformSettings) { s.IsRegistrationEnabled = false })

	d := Authorize(Anonymous, OpRegister, nil, disabled)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonFeatureDisabled, d.Reason)
}

func TestAuthorize_BlockedCallerCanOnlyRead(t *testing.T) {
	c := caller("u1", models.RoleClient)
	c.Blocked = true

	d := Authorize(c, OpCreateProject, nil, settingsWith(nil))
	require.Equal(t, ReasonBlocked, d.Reason)

	d = Authorize(c, OpUpdateProject, &Target{OwnerID: "u1"}, nil)
	require.Equal(t, ReasonBlocked, d.Reason)

	d = Authorize(c, OpReadNotifications, nil, nil)
	require.True(t, d.Allowed)

	d = Authorize(c, OpListMine, nil, nil)
	require.True(t, d.Allowed)
}

func TestAuthorize_BlockTakesPrecedenceOverSuperadmin(t *testing.T) {
	c := caller("admin", models.RoleSuperadmin)
	c.Blocked = true

	d := Authorize(c, OpModerateUser, nil, nil)
	require.Equal(t, ReasonBlocked, d.Reason)
}

func TestAuthorize_Roles(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		op      Operation
		allowed bool
	}{
		{"client creates project", models.RoleClient, OpCreateProject, true},
		{"designer creates project", models.RoleDesigner, OpCreateProject, false},
		{"client creates competition", models.RoleClient, OpCreateCompetition, true},
		{"designer creates competition", models.RoleDesigner, OpCreateCompetition, false},
		{"designer creates proposal", models.RoleDesigner, OpCreateProposal, true},
		{"client creates proposal", models.RoleClient, OpCreateProposal, false},
		{"designer creates submission", models.RoleDesigner, OpCreateSubmission, true},
		{"client creates submission", models.RoleClient, OpCreateSubmission, false},
		{"client updates settings", models.RoleClient, OpUpdateSettings, false},
		{"designer broadcasts", models.RoleDesigner, OpBroadcast, false},
		{"superadmin creates proposal", models.RoleSuperadmin, OpCreateProposal, true},
		{"superadmin creates project", models.RoleSuperadmin, OpCreateProject, true},
		{"superadmin updates settings", models.RoleSuperadmin, OpUpdateSettings, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(caller("u1", tt.role), tt.op, nil, settingsWith(nil))
			require.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				require.Equal(t, ReasonRole, d.Reason)
			}
		})
	}
}

func TestAuthorize_Ownership(t *testing.T) {
	target := &Target{OwnerID: "owner"}

	d := Authorize(caller("owner", models.RoleClient), OpUpdateProject, target, nil)
	require.True(t, d.Allowed)

	d = Authorize(caller("other", models.RoleClient), OpUpdateProject, target, nil)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonOwnership, d.Reason)

	d = Authorize(caller("admin", models.RoleSuperadmin), OpDeleteCompetition, target, nil)
	require.True(t, d.Allowed)

	d = Authorize(caller("owner", models.RoleClient), OpReviewProposal, nil, nil)
	require.Equal(t, ReasonOwnership, d.Reason)
}

func TestAuthorize_FeatureGates(t *testing.T) {
	noFreelance := settingsWith(func(s *models.PlatformSettings) { s.IsFreelanceEnabled = false })
	noCompetitions := settingsWith(func(s *models.PlatformSettings) { s.IsCompetitionsEnabled = false })

	d := Authorize(caller("c", models.RoleClient), OpCreateProject, nil, noFreelance)
	require.Equal(t, ReasonFeatureDisabled, d.Reason)

	d = Authorize(caller("c", models.RoleClient), OpCreateCompetition, nil, noFreelance)
	require.True(t, d.Allowed)

	d = Authorize(caller("c", models.RoleClient), OpCreateCompetition, nil, noCompetitions)
	require.Equal(t, ReasonFeatureDisabled, d.Reason)

	d = Authorize(caller("admin", models.RoleSuperadmin), OpCreateProject, nil, noFreelance)
	require.Equal(t, ReasonFeatureDisabled, d.Reason)

	d = Authorize(caller("c", models.RoleClient), OpCreateProject, nil, nil)
	require.True(t, d.Allowed)
}

func TestAuthorize_RoleCheckedBeforeFeature(t *testing.T) {
	noFreelance := settingsWith(func(s *models.PlatformSettings) { s.IsFreelanceEnabled = false })

	d := Authorize(caller("d", models.RoleDesigner), OpCreateProject, nil, noFreelance)
	require.Equal(t, ReasonRole, d.Reason)
}
