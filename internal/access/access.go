// Package access decides whether a caller may perform an operation.
//
// Authorize is a pure function over a snapshot of the caller, the target and
// the platform settings. Guard wraps it with the store reads needed to build
// that snapshot: the caller's user record is always re-read so a block takes
// effect immediately, regardless of what the session token says.
package access

import (
	"slices"

	"github.com/yukikurage/dezx-api/internal/models"
)

// Identity is what the credential service vouches for.
type Identity struct {
	SubjectID string
	Email     string
	Role      models.Role
}

// Caller is the resolved actor of a request. The zero value is anonymous.
type Caller struct {
	ID            string
	Name          string
	Email         string
	Role          models.Role
	Authenticated bool
	Blocked       bool
}

// Anonymous is the caller for requests without a valid credential.
var Anonymous = Caller{}

func (c Caller) IsSuperadmin() bool {
	return c.Authenticated && c.Role == models.RoleSuperadmin
}

type Feature int

const (
	FeatureNone Feature = iota
	FeatureFreelance
	FeatureCompetitions
	FeatureRegistration
)

// Operation describes the access rules of one API operation.
type Operation struct {
	Name      string
	Public    bool
	Mutating  bool
	Roles     []models.Role
	OwnerOnly bool
	Feature   Feature
}

// Target is the entity an operation acts on. For proposals and submissions
// the owner is the owner of the parent project or competition.
type Target struct {
	OwnerID string
}

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonBlocked         Reason = "blocked"
	ReasonRole            Reason = "role"
	ReasonOwnership       Reason = "ownership"
	ReasonFeatureDisabled Reason = "feature_disabled"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason Reason) Decision { return Decision{Reason: reason} }

// Authorize applies the rules in precedence order: authentication, block,
// role, ownership, feature gate. settings may be nil for operations without
// a feature gate.
func Authorize(caller Caller, op Operation, target *Target, settings *models.PlatformSettings) Decision {
	if !caller.Authenticated {
		if op.Public {
			return featureGate(op, settings)
		}
		return deny(ReasonUnauthenticated)
	}

	if caller.Blocked && op.Mutating {
		return deny(ReasonBlocked)
	}

	superadmin := caller.Role == models.RoleSuperadmin

	if len(op.Roles) > 0 && !superadmin && !slices.Contains(op.Roles, caller.Role) {
		return deny(ReasonRole)
	}

	if op.OwnerOnly && !superadmin {
		if target == nil || target.OwnerID == "" || target.OwnerID != caller.ID {
			return deny(ReasonOwnership)
		}
	}

	return featureGate(op, settings)
}

func featureGate(op Operation, settings *models.PlatformSettings) Decision {
	if op.Feature == FeatureNone {
		return allow()
	}
	if settings == nil {
		defaults := models.DefaultPlatformSettings("")
		settings = &defaults
	}

	enabled := true
	switch op.Feature {
	case FeatureFreelance:
		enabled = settings.IsFreelanceEnabled
	case FeatureCompetitions:
		enabled = settings.IsCompetitionsEnabled
	case FeatureRegistration:
		enabled = settings.IsRegistrationEnabled
	}
	if !enabled {
		return deny(ReasonFeatureDisabled)
	}
	return allow()
}
