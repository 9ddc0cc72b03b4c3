// Command seed loads demo accounts, candidates and a voting period into the
// configured Firebase project.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"votify-backend-go/configs"
	"votify-backend-go/internal/config"
	"votify-backend-go/internal/core"
	"votify-backend-go/internal/db"
	"votify-backend-go/internal/firebase"
	"votify-backend-go/internal/identity"
	"votify-backend-go/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	zapLogger, err := logger.New(os.Getenv("LOG_LEVEL"), "debug")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	path := configs.SeedPath()
	seed, err := configs.LoadSeed(path)
	if err != nil {
		zapLogger.Fatal("Failed to load seed file", zap.String("path", path), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	clients, err := firebase.NewClients(ctx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Firebase", zap.Error(err))
	}
	defer func() { _ = clients.Close() }()

	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	audit := core.NewAuditService(db.NewFirestoreAuditRepository(clients.Firestore), zapLogger)
	s := &seeder{
		users:      core.NewUserService(userRepo, identity.NewFirebaseProvider(clients.Auth), audit, nil, zapLogger),
		candidates: core.NewCandidateService(db.NewFirestoreCandidateRepository(clients.Firestore), audit, nil, zapLogger),
		settings:   core.NewSettingsService(db.NewFirestoreSettingsRepository(clients.Firestore), audit, appConfig.Location(), zapLogger),
		logger:     zapLogger,
	}

	res, err := s.run(ctx, seed)
	if err != nil {
		zapLogger.Fatal("Seeding failed", zap.Error(err))
	}
	zapLogger.Info("Seeding finished",
		zap.Int("usersCreated", res.UsersCreated),
		zap.Int("usersSkipped", res.UsersSkipped),
		zap.Int("candidatesCreated", res.CandidatesCreated),
		zap.Int("candidatesSkipped", res.CandidatesSkipped),
		zap.Bool("periodSaved", res.PeriodSaved))
}
