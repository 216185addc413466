package constants

import "time"

// Context and session keys
const (
	ContextKeyIdentity = "identity"
	ContextKeyCaller   = "caller"
	SessionKeyToken    = "token"
	SessionCookieName  = "dezx_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength  = 8
	ResetTokenLifetime = time.Hour
	BearerPrefix       = "Bearer "
)

// Singleton document ids
const (
	PlatformSettingsID = "platform_settings"
	SiteContentID      = "site_content_main"
)

// Winner positions
const (
	MinWinnerPosition = 1
	MaxWinnerPosition = 3
)

// AdminNotificationPrefix marks the broadcast copy of a user-targeted notification.
const AdminNotificationPrefix = "[Admin] "

// RecentActivityLimit caps the admin recent-activity feed.
const RecentActivityLimit = 20

// NotificationListLimit caps a user's notification feed.
const NotificationListLimit = 50
