package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/data/mongo"
	"github.com/wrio-webgold/webgold/internal/data/postgres"
	"github.com/wrio-webgold/webgold/internal/data/redis"
	"github.com/wrio-webgold/webgold/internal/logger"
	"github.com/wrio-webgold/webgold/internal/platform/ethereum"
	"github.com/wrio-webgold/webgold/internal/platform/persistence"
	"github.com/wrio-webgold/webgold/internal/rates"
	"github.com/wrio-webgold/webgold/internal/webgold_api"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("webgold_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting WebGold API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}
	if err := mongo.EnsureIndexes(appCtx, mongoDB.Database()); err != nil {
		log.Error("Failed to create MongoDB indexes", "error", err)
		os.Exit(1)
	}

	redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}

	ethClient, err := ethereum.Dial(appCtx, log, &cfg.Ethereum)
	if err != nil {
		log.Error("Failed to initialize Ethereum client", "error", err)
		os.Exit(1)
	}
	tokenClient := ethereum.NewTokenClient(log, ethClient, &cfg.Ethereum)

	rateSource, err := rates.NewSource(log, &cfg.Rates)
	if err != nil {
		log.Error("Failed to initialize rate source", "error", err)
		os.Exit(1)
	}
	oracle := rates.NewOracle(log, rateSource, &cfg.Rates)

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	feedRepo := postgres.NewEtherFeedRepository(log, postgresDB)
	journalRepo := mongo.NewJournalRepository(log, mongoDB.Database())
	transferRepo := mongo.NewTransferRepository(log, mongoDB.Database())
	idempotencyStore := redis.NewIdempotencyStore(log, redisClient, cfg.Redis.IdempotencyTTL)

	services := webgold_api.Services{
		Admin:    service.NewAdminService(log, accountRepo, journalRepo, feedRepo, tokenClient, &cfg.Payment),
		Transfer: service.NewTransferService(log, transferRepo, accountRepo, tokenClient, idempotencyStore),
		Funds:    service.NewFundsService(log, accountRepo, oracle, &cfg.Payment, &cfg.Auth),
		Account:  service.NewAccountService(log, accountRepo),
		History:  service.NewHistoryService(log, journalRepo),
	}

	server := webgold_api.NewServer(log, cfg, services)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Drain in-flight requests before closing their backing stores
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	ethClient.Close()
	postgresDB.Close()

	if closeErr := redisClient.Close(); closeErr != nil {
		log.Error("Error closing Redis client", "error", closeErr)
	}

	if closeErr := mongoDB.Close(shutdownCtx); closeErr != nil {
		log.Error("Error closing MongoDB connection", "error", closeErr)
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
		os.Exit(1)
	}
	log.Info("Server shutdown completed")
}
