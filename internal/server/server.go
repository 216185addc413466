// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/config"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/credentials"
	"github.com/yukikurage/dezx-api/internal/handlers"
	"github.com/yukikurage/dezx-api/internal/metrics"
	"github.com/yukikurage/dezx-api/internal/middleware"
	"github.com/yukikurage/dezx-api/internal/repository"
	"github.com/yukikurage/dezx-api/internal/services"
	"gorm.io/gorm"
)

const limiterCleanupInterval = 10 * time.Minute

// Options holds what the server needs from main.
type Options struct {
	Config       *config.Config
	DB           *gorm.DB
	Log          logrus.FieldLogger
	SessionStore sessions.Store
}

// Server is the assembled HTTP application.
type Server struct {
	Router *gin.Engine
	Auth   *services.AuthService

	stop chan struct{}
}

// New builds the router with every route mounted.
func New(opts Options) *Server {
	cfg, db, log := opts.Config, opts.DB, opts.Log

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	competitionRepo := repository.NewCompetitionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	contentRepo := repository.NewContentRepository(db)

	guard := access.NewGuard(userRepo, settingsRepo)
	creds := credentials.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	notifier := services.NewNotifier(notificationRepo, auditRepo, log)

	authService := services.NewAuthService(userRepo, guard, creds, notifier, log)

	authHandler := handlers.NewAuthHandler(authService, cfg.ExposeResetTokens)
	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo, guard, notifier))
	projectHandler := handlers.NewProjectHandler(services.NewProjectService(projectRepo, proposalRepo, guard, notifier))
	competitionHandler := handlers.NewCompetitionHandler(services.NewCompetitionService(competitionRepo, submissionRepo, guard, notifier))
	proposalHandler := handlers.NewProposalHandler(services.NewProposalService(proposalRepo, projectRepo, userRepo, guard, notifier))
	submissionHandler := handlers.NewSubmissionHandler(services.NewSubmissionService(submissionRepo, competitionRepo, userRepo, guard, notifier))
	notificationHandler := handlers.NewNotificationHandler(services.NewNotificationService(notificationRepo, guard))
	platformHandler := handlers.NewPlatformHandler(
		services.NewSettingsService(settingsRepo, guard, notifier),
		services.NewContentService(contentRepo, guard, notifier),
	)
	adminHandler := handlers.NewAdminHandler(services.NewAdminService(services.AdminRepositories{
		Users:         userRepo,
		Projects:      projectRepo,
		Competitions:  competitionRepo,
		Proposals:     proposalRepo,
		Submissions:   submissionRepo,
		Notifications: notificationRepo,
		AuditLogs:     auditRepo,
	}, guard, notifier))

	s := &Server{
		Router: gin.New(),
		Auth:   authService,
		stop:   make(chan struct{}),
	}
	r := s.Router

	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(sessions.Sessions(constants.SessionCookieName, opts.SessionStore))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, log)
	limiter.StartCleanup(limiterCleanupInterval, s.stop)

	// API routes
	api := r.Group("/api")
	api.Use(middleware.Authenticate(creds, guard))
	api.Use(middleware.Maintenance(settingsRepo, "/api/auth"))
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"message": "DEZX API is running",
			})
		})

		// Auth routes
		auth := api.Group("/auth")
		auth.Use(limiter.Handler())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.PUT("/:id/block", userHandler.BlockUser)
			users.PUT("/:id/unblock", userHandler.UnblockUser)
			users.PUT("/:id/feature", userHandler.FeatureUser)
			users.PUT("/:id/unfeature", userHandler.UnfeatureUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		api.GET("/content", platformHandler.GetContent)
		api.PUT("/content", platformHandler.UpdateContent)
		api.GET("/settings", platformHandler.GetSettings)

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/my", projectHandler.ListMyProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", projectHandler.CreateProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.PUT("/:id/feature", projectHandler.FeatureProject)
			projects.PUT("/:id/unfeature", projectHandler.UnfeatureProject)
		}

		competitions := api.Group("/competitions")
		{
			competitions.GET("", competitionHandler.ListCompetitions)
			competitions.GET("/my", competitionHandler.ListMyCompetitions)
			competitions.GET("/:id", competitionHandler.GetCompetition)
			competitions.POST("", competitionHandler.CreateCompetition)
			competitions.PUT("/:id", competitionHandler.UpdateCompetition)
			competitions.DELETE("/:id", competitionHandler.DeleteCompetition)
			competitions.PUT("/:id/feature", competitionHandler.FeatureCompetition)
			competitions.PUT("/:id/unfeature", competitionHandler.UnfeatureCompetition)
		}

		proposals := api.Group("/proposals")
		{
			proposals.POST("", proposalHandler.CreateProposal)
			proposals.GET("/my", proposalHandler.ListMyProposals)
			proposals.GET("/project/:id", proposalHandler.ListProjectProposals)
			proposals.PUT("/:id/approve", proposalHandler.ApproveProposal)
			proposals.PUT("/:id/reject", proposalHandler.RejectProposal)
		}

		submissions := api.Group("/submissions")
		{
			submissions.POST("", submissionHandler.CreateSubmission)
			submissions.GET("/my", submissionHandler.ListMySubmissions)
			submissions.GET("/competition/:id", submissionHandler.ListCompetitionSubmissions)
			submissions.PUT("/:id", submissionHandler.UpdateSubmission)
			submissions.PUT("/:id/approve", submissionHandler.ApproveSubmission)
			submissions.PUT("/:id/reject", submissionHandler.RejectSubmission)
			submissions.PUT("/:id/winner", submissionHandler.SetWinner)
			submissions.DELETE("/:id/winner", submissionHandler.RemoveWinner)
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/recent-activity", adminHandler.GetRecentActivity)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			admin.POST("/broadcast", adminHandler.Broadcast)
			admin.PUT("/settings", platformHandler.UpdateSettings)
		}
	}

	return s
}

// Close stops background work started by New.
func (s *Server) Close() {
	close(s.stop)
}
