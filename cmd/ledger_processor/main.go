package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/data/mongo"
	"github.com/wrio-webgold/webgold/internal/data/postgres"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/components"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/consumer"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/feeder"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/outbox_poller"
	"github.com/wrio-webgold/webgold/internal/logger"
	"github.com/wrio-webgold/webgold/internal/platform/messaging/consumers"
	"github.com/wrio-webgold/webgold/internal/platform/messaging/producers"
	"github.com/wrio-webgold/webgold/internal/platform/persistence"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

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

	repos := components.Repositories{
		Accounts: postgres.NewAccountRepository(log, postgresDB),
		Feeds:    postgres.NewEtherFeedRepository(log, postgresDB),
		Outbox:   postgres.NewOutboxRepository(log, postgresDB),
		Journal:  mongo.NewJournalRepository(log, mongoDB.Database()),
	}

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// dlqProducer is nil when no DLQ topic is configured; its methods are nil-safe
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	mutationProducer, err := producers.NewMutationProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize mutation Kafka producer", "error", err)
		os.Exit(1)
	}

	processingService, releasePool := components.CreateProcessingService(postgresDB.Pool(), repos, log, cfg)

	mutationHandler := consumer.NewMutationEventHandler(log, processingService, dlqProducer)

	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		repos.Outbox,
		outbox_poller.NewJournalPublisher(repos.Outbox, repos.Journal, log),
		log,
	)

	feedScheduler := feeder.NewScheduler(cfg.Feeder, repos.Accounts, mutationProducer, log.With("component", "feeder"))

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.MutationTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, mutationHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		feedScheduler.Start(appCtx)
	}()

	go func() {
		log.Info("Starting metrics listener", "port", cfg.Metrics.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("metrics listener error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	releasePool()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping metrics listener", "error", err)
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}
	if err := mutationProducer.Close(); err != nil {
		log.Error("Error closing mutation Kafka producer", "error", err)
	}
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serviceErr != nil {
		log.Error("Ledger Processor shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Ledger Processor shutdown completed")
}
