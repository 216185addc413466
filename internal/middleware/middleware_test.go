package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/logging"
	"github.com/yukikurage/dezx-api/internal/models"
)

type fixedSettings struct {
	settings models.PlatformSettings
}

func (f fixedSettings) Get(context.Context) (*models.PlatformSettings, error) {
	s := f.settings
	return &s, nil
}

func serve(r *gin.Engine, method, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withCaller(caller access.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyCaller, caller)
		c.Next()
	}
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(1, 2, logging.Discard())

	r := gin.New()
	r.Use(limiter.Handler())
	r.POST("/login", ok)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/login", nil).Code)

	// Another client has its own bucket.
	w := serve(r, http.MethodPost, "/login", func(req *http.Request) { req.RemoteAddr = "10.0.0.2:1234" })
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenance(t *testing.T) {
	gin.SetMode(gin.TestMode)
	settings := fixedSettings{settings: models.DefaultPlatformSettings(constants.PlatformSettingsID)}
	settings.settings.MaintenanceMode = true

	build := func(caller access.Caller) *gin.Engine {
		r := gin.New()
		r.Use(withCaller(caller), Maintenance(settings, "/api/auth"))
		r.GET("/api/projects", ok)
		r.POST("/api/projects", ok)
		r.POST("/api/auth/login", ok)
		return r
	}

	client := build(access.Caller{ID: "c", Role: models.RoleClient, Authenticated: true})
	assert.Equal(t, http.StatusOK, serve(client, http.MethodGet, "/api/projects", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(client, http.MethodPost, "/api/projects", nil).Code)
	assert.Equal(t, http.StatusOK, serve(client, http.MethodPost, "/api/auth/login", nil).Code)

	admin := build(access.Caller{ID: "a", Role: models.RoleSuperadmin, Authenticated: true})
	assert.Equal(t, http.StatusOK, serve(admin, http.MethodPost, "/api/projects", nil).Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://dezx.example"}))
	r.GET("/api/projects", ok)

	w := serve(r, http.MethodOptions, "/api/projects", func(req *http.Request) {
		req.Header.Set("Origin", "https://dezx.example")
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://dezx.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(r, http.MethodGet, "/api/projects", func(req *http.Request) {
		req.Header.Set("Origin", "https://evil.example")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequireAuthAndGetCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	require.Equal(t, access.Anonymous, GetCaller(c))

	r := gin.New()
	r.GET("/anon", RequireAuth(), ok)
	r.GET("/authed", withCaller(access.Caller{ID: "u", Authenticated: true}), RequireAuth(), ok)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/anon", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/authed", nil).Code)
}
