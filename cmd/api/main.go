package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-cvnetwork-backend/config"
	_ "go-cvnetwork-backend/docs" // Important for Swagger
	v1 "go-cvnetwork-backend/internal/delivery/http/v1"
	"go-cvnetwork-backend/internal/repository/postgres"
	"go-cvnetwork-backend/internal/usecase"
	"go-cvnetwork-backend/pkg/audit"
	"go-cvnetwork-backend/pkg/database"
	"go-cvnetwork-backend/pkg/logger"
	"go-cvnetwork-backend/pkg/redis"
	"go-cvnetwork-backend/pkg/storage"
	"go-cvnetwork-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           CV Network Backend API
// @version         1.0
// @description     Backend for the CV and portfolio network using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting cvnetwork backend", "port", cfg.Port)
	auditLogger := audit.Init("cvnetwork-backend", cfg.Environment)
	defer auditLogger.Sync()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.Migrate(context.Background(), dbPool); err != nil {
		logger.Log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 4. Setup Redis (optional; rate limiting falls back to in-memory)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable", "error", err)
	}
	defer redis.Close()

	// 5. Setup Upload Storage
	store := storage.NewStore(cfg.UploadsDir, cfg.MaxUploadSize)

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	competenceRepo := postgres.NewCompetenceRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	messageRepo := postgres.NewMessageRepository(dbPool)
	visitRepo := postgres.NewVisitRepository(dbPool)
	accountRepo := postgres.NewAccountRepository(dbPool)

	// 7. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)

	authUC := usecase.NewAuthUsecase(userRepo, validate, cfg.JWTSecret)
	userUC := usecase.NewUserUsecase(userRepo, profileRepo, competenceRepo, projectRepo, visitRepo, store, validate)
	profileUC := usecase.NewProfileUsecase(profileRepo, visitRepo, validate)
	competenceUC := usecase.NewCompetenceUsecase(competenceRepo)
	projectUC := usecase.NewProjectUsecase(projectRepo, store, validate)
	messageUC := usecase.NewMessageUsecase(messageRepo, userRepo, validate)
	accountUC := usecase.NewAccountUsecase(accountRepo, userRepo, store)
	adminUC := usecase.NewAdminUsecase(userRepo, competenceRepo)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		ProfileUC:    profileUC,
		CompetenceUC: competenceUC,
		ProjectUC:    projectUC,
		MessageUC:    messageUC,
		AccountUC:    accountUC,
		AdminUC:      adminUC,
		Config:       cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
