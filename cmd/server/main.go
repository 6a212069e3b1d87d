package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizdeck/session-service/internal/cache"
	"github.com/quizdeck/session-service/internal/config"
	"github.com/quizdeck/session-service/internal/handlers"
	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/repositories/postgres"
	"github.com/quizdeck/session-service/internal/services"
	"github.com/quizdeck/session-service/internal/utils"
	appvalidator "github.com/quizdeck/session-service/internal/validator"
	"github.com/quizdeck/session-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	validator := appvalidator.New()

	quizRepo := postgres.NewQuizPostgreSQL(db)
	resultRepo := postgres.NewResultPostgreSQL(db)

	redisCache := cache.NewRedisCache(redisClient, logger)
	quizCache := cache.NewQuizCache(redisCache, func(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
		record, err := quizRepo.GetByIDWithDetails(ctx, quizID)
		if err != nil {
			return nil, err
		}
		return record.ToDefinition(), nil
	}, logger)

	sessionService := services.NewSessionService(quizCache, resultRepo, publisher, validator, logger, services.SessionServiceConfig{
		AssetBaseURL:     cfg.AssetBaseURL,
		MaxActivePerUser: cfg.MaxActiveSessions,
	})
	leaderboardService := services.NewLeaderboardService(quizRepo, resultRepo, logger)
	exportService := services.NewExportService(quizRepo, resultRepo, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	hm := handlers.NewHandlerManager(sessionService, leaderboardService, exportService, cfg.JWTSecret, logger)
	hm.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Session service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
