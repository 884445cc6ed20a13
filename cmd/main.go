package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zharaskq/pitwall/config"
	"github.com/Zharaskq/pitwall/db"
	"github.com/Zharaskq/pitwall/handlers"
	"github.com/Zharaskq/pitwall/ingest"
	"github.com/Zharaskq/pitwall/repositories"
	api "github.com/Zharaskq/pitwall/routes"
	"github.com/Zharaskq/pitwall/services"
	"github.com/Zharaskq/pitwall/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, avatar and logo uploads disabled")
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	driverRepo := repositories.NewPostgresDriverRepository(dbConn)
	raceRepo := repositories.NewPostgresRaceRepository(dbConn)
	predictionRepo := repositories.NewPostgresPredictionRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	logger.Info("repositories initialized")

	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, uploader)
	driverService := services.NewDriverService(driverRepo, teamRepo)

	recomputer := services.NewRecomputeService(
		dbConn,
		raceRepo,
		driverRepo,
		predictionRepo,
		standingRepo,
		logger,
	)

	raceService := services.NewRaceService(raceRepo, driverRepo, recomputer)
	predictionService := services.NewPredictionService(predictionRepo, raceRepo, driverRepo)
	leagueService := services.NewLeagueService(leagueRepo, emailService, uploader, cfg.JWTSecretKey, cfg.PublicURL, logger)
	standingsService := services.NewStandingsService(standingRepo, leagueRepo, uploader)

	resultSource := ingest.NewOpenF1Client(cfg.OpenF1BaseURL, nil)
	syncService := services.NewSyncService(resultSource, raceRepo, driverRepo, recomputer, cfg.SeasonYear, logger)
	logger.Info("services initialized")

	// Result sync scheduler: pull finished sessions on a fixed interval.
	go func() {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		logger.Info("result sync scheduler started", slog.Duration("interval", cfg.SyncInterval))

		if _, err := syncService.SyncResults(context.Background()); err != nil {
			logger.Error("scheduler: initial sync failed", slog.Any("error", err))
		}

		for range ticker.C {
			if _, err := syncService.SyncResults(context.Background()); err != nil {
				logger.Error("scheduler: periodic sync failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	driverHandler := handlers.NewDriverHandler(driverService)
	raceHandler := handlers.NewRaceHandler(raceService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	adminHandler := handlers.NewAdminHandler(recomputer, syncService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		userHandler,
		driverHandler,
		raceHandler,
		predictionHandler,
		leagueHandler,
		standingsHandler,
		adminHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
