// Package main provides the entry point for the GridWatch API server
// @title GridWatch API
// @version 1.0
// @description Day-ahead electricity price ingestion service.
// @host localhost:8080
// @BasePath /api/v1
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gridwatch/internal/api/server"
	"gridwatch/internal/config"
	"gridwatch/internal/database"
	"gridwatch/internal/entsoe"
	"gridwatch/internal/fetcher"
	"gridwatch/internal/repository/postgres"
	"gridwatch/internal/scheduler"
	"gridwatch/internal/validation"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		logrus.WithError(err).Warn("No env file loaded")
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize database and run migrations
	db, err := database.SetupDatabase(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up database")
	}
	defer db.Close()

	// Initialize validators
	validation.Initialize()

	// Initialize repositories
	priceRepo := postgres.NewPriceRepository(db)
	zoneRepo := postgres.NewZoneRepository(db)
	fetchLogRepo := postgres.NewFetchLogRepository(db)

	// Initialize the upstream client and orchestrator
	client := entsoe.NewClient(entsoe.Config{
		BaseURL:            cfg.Entsoe.BaseURL,
		SecurityToken:      cfg.Entsoe.SecurityToken,
		RateLimitPerMinute: cfg.Entsoe.RateLimitPerMinute,
		MaxInFlight:        cfg.Entsoe.MaxInFlight,
		RequestTimeout:     cfg.Entsoe.RequestTimeout,
		BackoffInitial:     cfg.Entsoe.BackoffInitial,
		BackoffMax:         cfg.Entsoe.BackoffMax,
		BackoffMaxElapsed:  cfg.Entsoe.BackoffMaxElapsed,
	})
	fetchService := fetcher.NewService(client, priceRepo, zoneRepo, fetchLogRepo, cfg.Fetcher.Workers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the daily fetch schedule
	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(fetchService, scheduler.Config{
			Enabled:     cfg.Scheduler.Enabled,
			Timezone:    cfg.Scheduler.Timezone,
			PrimaryTime: cfg.Scheduler.PrimaryTime,
			RetryTimes:  cfg.Scheduler.RetryTimes,
		})
		if err != nil {
			logrus.WithError(err).Fatal("Failed to create scheduler")
		}
		go sched.Start(ctx)
	} else {
		logrus.Info("Scheduler disabled, fetches must be triggered via the API")
	}

	// Start HTTP server
	srv := server.New(cfg, db, fetchService)
	go func() {
		if err := srv.Start(); err != nil {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	cancel()

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exiting")
}
