package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/dezx-api/internal/config"
	"github.com/yukikurage/dezx-api/internal/database"
	"github.com/yukikurage/dezx-api/internal/logging"
	"github.com/yukikurage/dezx-api/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	log := logging.New(cfg.IsProduction())

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.GinMode,
		}); err != nil {
			log.WithError(err).Error("Sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Connect to database
	if err := database.Connect(cfg, log); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	store, err := newSessionStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create session store")
	}

	srv := server.New(server.Options{
		Config:       cfg,
		DB:           database.GetDB(),
		Log:          log,
		SessionStore: store,
	})
	defer srv.Close()

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := srv.Auth.EnsureSuperadmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.WithError(err).Fatal("Failed to bootstrap superadmin")
		}
		if created {
			log.WithField("email", cfg.AdminEmail).Info("Bootstrap superadmin created")
		}
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown error")
	}
}

// newSessionStore uses Redis when configured and signed cookies otherwise.
func newSessionStore(cfg *config.Config, log logrus.FieldLogger) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		log.WithField("addr", redisAddr).Info("Using Redis session store")
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.JWTExpiry.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
