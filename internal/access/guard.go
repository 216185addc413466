package access

import (
	"context"
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/metrics"
	"github.com/yukikurage/dezx-api/internal/models"
	"gorm.io/gorm"
)

// UserReader loads the caller's current user record.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// SettingsReader reads the platform settings singleton.
type SettingsReader interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
}

// Guard resolves callers and enforces Authorize decisions.
type Guard struct {
	users    UserReader
	settings SettingsReader
}

func NewGuard(users UserReader, settings SettingsReader) *Guard {
	return &Guard{
		users:    users,
		settings: settings,
	}
}

// Resolve turns a verified identity into a Caller. A nil identity yields
// Anonymous. Role and block status come from the store, not the token.
func (g *Guard) Resolve(ctx context.Context, identity *Identity) (Caller, error) {
	if identity == nil {
		return Anonymous, nil
	}

	user, err := g.users.FindByID(ctx, identity.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Anonymous, apierrors.New(apierrors.Unauthenticated, "account no longer exists")
		}
		return Anonymous, fmt.Errorf("failed to resolve caller: %w", err)
	}

	return Caller{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		Authenticated: true,
		Blocked:       user.IsBlocked,
	}, nil
}

// Check returns nil when caller may perform op on target, otherwise an error
// wrapping the matching apierrors kind.
func (g *Guard) Check(ctx context.Context, caller Caller, op Operation, target *Target) error {
	var settings *models.PlatformSettings
	if op.Feature != FeatureNone {
		s, err := g.settings.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load platform settings: %w", err)
		}
		settings = s
	}

	decision := Authorize(caller, op, target, settings)
	if decision.Allowed {
		return nil
	}
	metrics.RecordDenial(string(decision.Reason))
	return DenialError(op, decision.Reason)
}

// DenialError converts a deny reason into an API error.
func DenialError(op Operation, reason Reason) error {
	switch reason {
	case ReasonUnauthenticated:
		return apierrors.New(apierrors.Unauthenticated, "Authentication required")
	case ReasonBlocked:
		return apierrors.New(apierrors.Blocked, "Account is blocked")
	case ReasonRole:
		return apierrors.New(apierrors.Forbidden, "Insufficient permissions")
	case ReasonOwnership:
		return apierrors.New(apierrors.Forbidden, "Not authorized")
	case ReasonFeatureDisabled:
		return apierrors.New(apierrors.FeatureDisabled, featureMessage(op.Feature))
	default:
		return apierrors.New(apierrors.Forbidden, "Access denied")
	}
}

func featureMessage(f Feature) string {
	switch f {
	case FeatureFreelance:
		return "Freelance projects are currently disabled"
	case FeatureCompetitions:
		return "Competitions are currently disabled"
	case FeatureRegistration:
		return "Registration is currently disabled"
	default:
		return "Feature is disabled"
	}
}
