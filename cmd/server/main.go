package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"votify-backend-go/internal/api"
	"votify-backend-go/internal/config"
	"votify-backend-go/internal/core"
	"votify-backend-go/internal/db"
	"votify-backend-go/internal/firebase"
	"votify-backend-go/internal/identity"
	"votify-backend-go/internal/middleware"
	"votify-backend-go/internal/notify"
	"votify-backend-go/pkg/cache"
	"votify-backend-go/pkg/logger"
	"votify-backend-go/pkg/mailer"
	"votify-backend-go/pkg/messagequeue"
)

func main() {
	// --- 1. Environment ---
	// .env is a local development convenience; release deployments inject
	// the environment directly.
	if !strings.EqualFold(os.Getenv("GIN_MODE"), "release") {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to load .env file: %v", err)
		}
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("GIN_MODE"))
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// --- 3. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	loc := appConfig.Location()
	zapLogger.Info("Application configuration loaded", zap.String("timezone", loc.String()))

	// --- 4. Initialize Firebase Admin SDK (Firestore and Auth) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	clients, err := firebase.NewClients(initCtx, appConfig, zapLogger)
	cancelInitCtx()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer func() {
		if err := clients.Close(); err != nil {
			zapLogger.Warn("Failed to close Firestore client", zap.Error(err))
		}
	}()

	// serverCtx is cancelled on shutdown and stops background consumers.
	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	// --- 5. Optional infrastructure: cache and event bus ---
	var summaryCache cache.Cache = cache.Noop{}
	if appConfig.RedisAddress != "" {
		redisCache, err := cache.NewRedisCache(serverCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddress,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		}, zapLogger)
		if err != nil {
			zapLogger.Warn("Redis unavailable, report cache disabled", zap.Error(err))
		} else {
			summaryCache = redisCache
			defer redisCache.Close()
		}
	}

	var publisher core.EventPublisher
	var queue *messagequeue.RabbitMQService
	if appConfig.RabbitMQURL != "" {
		queue, err = messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable, vote events disabled", zap.Error(err))
		} else {
			publisher = queue
			defer queue.Close()
		}
	}

	// --- 6. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	candidateRepo := db.NewFirestoreCandidateRepository(clients.Firestore)
	settingsRepo := db.NewFirestoreSettingsRepository(clients.Firestore)
	voteRepo := db.NewFirestoreVoteRepository(clients.Firestore)
	auditRepo := db.NewFirestoreAuditRepository(clients.Firestore)

	// --- 7. Initialize Services ---
	identityProvider := identity.NewFirebaseProvider(clients.Auth)
	auditService := core.NewAuditService(auditRepo, zapLogger)
	settingsService := core.NewSettingsService(settingsRepo, auditService, loc, zapLogger)
	reportService := core.NewReportService(candidateRepo, userRepo, voteRepo, auditService, core.ReportServiceConfig{
		Cache:    summaryCache,
		CacheTTL: appConfig.ReportCacheTTL,
		Location: loc,
	}, zapLogger)
	services := api.Services{
		Users:      core.NewUserService(userRepo, identityProvider, auditService, reportService, zapLogger),
		Candidates: core.NewCandidateService(candidateRepo, auditService, reportService, zapLogger),
		Settings:   settingsService,
		Voting:     core.NewVotingService(voteRepo, settingsService, reportService, publisher, appConfig.RabbitMQQueue, zapLogger),
		Reports:    reportService,
		Audit:      auditService,
	}
	zapLogger.Info("Core services initialized")

	// --- 8. Receipt worker ---
	if queue != nil && appConfig.MailEnabled() {
		sender, err := mailer.New(mailer.Config{
			Host:     appConfig.SMTPHost,
			Port:     appConfig.SMTPPort,
			Username: appConfig.SMTPUsername,
			Password: appConfig.SMTPPassword,
			Sender:   appConfig.MailSender,
		})
		if err != nil {
			zapLogger.Warn("Mailer misconfigured, receipts disabled", zap.Error(err))
		} else {
			worker := notify.NewReceiptWorker(queue, sender, appConfig.RabbitMQQueue, loc, zapLogger)
			go func() {
				if err := worker.Run(serverCtx); err != nil {
					zapLogger.Error("Receipt worker stopped", zap.Error(err))
				}
			}()
		}
	}

	// --- 9. Setup Gin HTTP Engine ---
	if strings.EqualFold(appConfig.GinMode, "release") {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))
	if len(middleware.AllowedOrigins(appConfig)) == 0 {
		zapLogger.Warn("CLIENT_URL is not configured; CORS allows any origin without credentials")
	}

	api.SetupRoutes(router, identityProvider, services, serverCtx.Done(), zapLogger)

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	// Shutdown waits for in-flight requests; event streams and the receipt
	// worker end through serverCtx.
	httpServer.RegisterOnShutdown(stopServer)

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
