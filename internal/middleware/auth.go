package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/credentials"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
)

// Authenticate resolves the caller for every request. The bearer header wins
// over the session token. A bad bearer token is rejected; a stale session
// token is ignored and the request continues as Anonymous.
func Authenticate(creds *credentials.Service, guard *access.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromHeader := bearerToken(c)
		if token == "" {
			token = sessionToken(c)
		}
		if token == "" {
			c.Set(constants.ContextKeyCaller, access.Anonymous)
			c.Next()
			return
		}

		identity, err := creds.Verify(token)
		if err != nil {
			if fromHeader {
				apierrors.Unauthorized(c, "Invalid or expired token")
				c.Abort()
				return
			}
			c.Set(constants.ContextKeyCaller, access.Anonymous)
			c.Next()
			return
		}

		caller, err := guard.Resolve(c.Request.Context(), identity)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, identity)
		c.Set(constants.ContextKeyCaller, caller)
		c.Next()
	}
}

// RequireAuth rejects anonymous callers
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetCaller(c).Authenticated {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCaller retrieves the current caller from context
func GetCaller(c *gin.Context) access.Caller {
	value, exists := c.Get(constants.ContextKeyCaller)
	if !exists {
		return access.Anonymous
	}
	caller, ok := value.(access.Caller)
	if !ok {
		return access.Anonymous
	}
	return caller
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	return token, token != ""
}

func sessionToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(constants.SessionKeyToken).(string)
	return token
}
