package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/core"
	"votify-backend-go/internal/middleware"
)

// Services bundles what the routes need. All fields are required.
type Services struct {
	Users      core.UserService
	Candidates core.CandidateService
	Settings   core.SettingsService
	Voting     core.VotingService
	Reports    core.ReportService
	Audit      core.AuditService
}

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (request id, logging, recovery, CORS) is
// applied to router by the caller. Closing shutdown ends open event streams.
func SetupRoutes(router *gin.Engine, verifier middleware.TokenVerifier, services Services, shutdown <-chan struct{}, logger *zap.Logger) {
	authMW := middleware.NewAuthMiddleware(verifier, services.Users, logger)
	endOnShutdown := middleware.EndOnShutdown(shutdown)

	authHandler := NewAuthHandler()
	userHandler := NewUserHandler(services.Users, logger)
	candidateHandler := NewCandidateHandler(services.Candidates, logger)
	votingHandler := NewVotingHandler(services.Voting, services.Settings, logger)
	settingsHandler := NewSettingsHandler(services.Settings, logger)
	reportHandler := NewReportHandler(services.Reports, services.Candidates, services.Audit, logger)

	router.GET("/health", HealthCheck)

	apiV1 := router.Group("/api/v1", authMW.VerifyToken())
	{
		apiV1.GET("/users/me", authMW.LoadSession(), authHandler.GetSession)

		apiV1.GET("/voting/status", votingHandler.Status)
		apiV1.GET("/voting/status/stream", endOnShutdown, votingHandler.StatusStream)
		apiV1.GET("/candidates", candidateHandler.Catalog)
		apiV1.POST("/votes", authMW.LoadSession(), votingHandler.SubmitVote)

		admin := apiV1.Group("/admin", authMW.RequireAdmin())
		{
			admin.POST("/create-user", userHandler.CreateUser)
			admin.POST("/update-user", userHandler.UpdateUser)
			admin.POST("/delete-user", userHandler.DeleteUser)
			admin.GET("/users", userHandler.ListUsers)
			admin.PUT("/users/:uid/profile", userHandler.UpdateProfile)

			admin.GET("/candidates", candidateHandler.ListCandidates)
			admin.POST("/candidates", candidateHandler.CreateCandidate)
			admin.GET("/candidates/:id", candidateHandler.GetCandidate)
			admin.PUT("/candidates/:id", candidateHandler.UpdateCandidate)
			admin.DELETE("/candidates/:id", candidateHandler.DeleteCandidate)

			admin.GET("/settings", settingsHandler.GetSettings)
			admin.PUT("/settings", settingsHandler.SaveSettings)
			admin.PATCH("/settings/enabled", settingsHandler.ToggleEnabled)

			admin.GET("/audit-logs", reportHandler.AuditLogs)
		}

		reports := apiV1.Group("/reports", authMW.RequireAdmin())
		{
			reports.GET("/summary", reportHandler.Summary)
			reports.GET("/stream", endOnShutdown, reportHandler.Stream)
			reports.GET("/candidates/:id/voters", reportHandler.Voters)
			reports.POST("/reset", reportHandler.Reset)
			reports.GET("/export.xlsx", reportHandler.ExportXLSX)
			reports.GET("/export.csv", reportHandler.ExportCSV)
		}
	}

	logger.Info("API routes configured under /api/v1 and /health")
}
