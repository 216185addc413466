package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dezx-api/internal/access"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
)

// Maintenance answers 503 to writes from non-superadmins while maintenance
// mode is on. Reads and paths under exemptPrefix stay available.
func Maintenance(settings access.SettingsReader, exemptPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWrite(c.Request.Method) || strings.HasPrefix(c.Request.URL.Path, exemptPrefix) {
			c.Next()
			return
		}
		if GetCaller(c).IsSuperadmin() {
			c.Next()
			return
		}

		current, err := settings.Get(c.Request.Context())
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}
		if current.MaintenanceMode {
			apierrors.ServiceUnavailable(c, "Platform is under maintenance")
			c.Abort()
			return
		}
		c.Next()
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
