package components

import (
	"log/slog"

	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/etherfeed"
	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/outbox"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/service"
	"github.com/wrio-webgold/webgold/internal/platform/persistence"
)

// Repositories groups the stores the processing pipeline writes to
type Repositories struct {
	Accounts account.Repository
	Feeds    etherfeed.Repository
	Outbox   outbox.Repository
	Journal  journal.Repository
}

// CreateProcessingService wires the processing pipeline behind a bounded worker pool.
// The returned release func stops the pool and is a no-op for the base service.
func CreateProcessingService(
	db persistence.TxBeginner,
	repos Repositories,
	logger *slog.Logger,
	cfg *config.Config,
) (service.ProcessingService, func()) {
	baseService := service.NewProcessingService(
		db,
		NewMutationValidator(repos.Journal, repos.Outbox, logger),
		NewAccountManager(repos.Accounts, logger),
		NewFeedRecorder(repos.Feeds, logger),
		NewOutboxManager(repos.Outbox, logger),
		NewFailureRecorder(repos.Journal, logger),
		logger,
	)

	if cfg.WorkerPool.Size <= 0 {
		logger.Warn("Worker pool disabled, processing mutations inline", "pool_size", cfg.WorkerPool.Size)
		return baseService, func() {}
	}

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService, func() {}
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService, workerPoolService.Shutdown
}
