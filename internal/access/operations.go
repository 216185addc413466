package access

import "github.com/yukikurage/dezx-api/internal/models"

var (
	creators  = []models.Role{models.RoleClient, models.RoleSuperadmin}
	designers = []models.Role{models.RoleDesigner, models.RoleSuperadmin}
	admins    = []models.Role{models.RoleSuperadmin}
)

// Auth and accounts
var (
	OpRegister      = Operation{Name: "register", Public: true, Mutating: true, Feature: FeatureRegistration}
	OpReadSelf      = Operation{Name: "read_self"}
	OpUpdateProfile = Operation{Name: "update_profile", Mutating: true, OwnerOnly: true}
	OpListUsers     = Operation{Name: "list_users", Roles: admins}
	OpModerateUser  = Operation{Name: "moderate_user", Mutating: true, Roles: admins}
)

// Projects and proposals
var (
	OpCreateProject  = Operation{Name: "create_project", Mutating: true, Roles: creators, Feature: FeatureFreelance}
	OpUpdateProject  = Operation{Name: "update_project", Mutating: true, OwnerOnly: true}
	OpDeleteProject  = Operation{Name: "delete_project", Mutating: true, OwnerOnly: true}
	OpFeatureProject = Operation{Name: "feature_project", Mutating: true, Roles: admins}
	OpListMine       = Operation{Name: "list_mine"}
	OpCreateProposal = Operation{Name: "create_proposal", Mutating: true, Roles: designers}
	OpListProposals  = Operation{Name: "list_proposals", OwnerOnly: true}
	OpReviewProposal = Operation{Name: "review_proposal", Mutating: true, OwnerOnly: true}
)

// Competitions and submissions
var (
	OpCreateCompetition  = Operation{Name: "create_competition", Mutating: true, Roles: creators, Feature: FeatureCompetitions}
	OpUpdateCompetition  = Operation{Name: "update_competition", Mutating: true, OwnerOnly: true}
	OpDeleteCompetition  = Operation{Name: "delete_competition", Mutating: true, OwnerOnly: true}
	OpFeatureCompetition = Operation{Name: "feature_competition", Mutating: true, Roles: admins}
	OpCreateSubmission   = Operation{Name: "create_submission", Mutating: true, Roles: designers}
	OpUpdateSubmission   = Operation{Name: "update_submission", Mutating: true, OwnerOnly: true}
	OpReviewSubmission   = Operation{Name: "review_submission", Mutating: true, OwnerOnly: true}
	OpSetWinner          = Operation{Name: "set_winner", Mutating: true, OwnerOnly: true}
)

// Notifications and administration
var (
	OpReadNotifications = Operation{Name: "read_notifications"}
	OpMarkNotification  = Operation{Name: "mark_notification", Mutating: true}
	OpUpdateSettings    = Operation{Name: "update_settings", Mutating: true, Roles: admins}
	OpUpdateContent     = Operation{Name: "update_content", Mutating: true, Roles: admins}
	OpReadAdmin         = Operation{Name: "read_admin", Roles: admins}
	OpBroadcast         = Operation{Name: "broadcast", Mutating: true, Roles: admins}
)
