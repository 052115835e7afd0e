package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// WorkerPoolProcessingService bounds the number of mutations processed at once
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessMutation runs the mutation on a pool worker and waits for its result
func (s *WorkerPoolProcessingService) ProcessMutation(ctx context.Context, mutation *shared.LedgerMutation) error {
	logger := s.logger
	if mutation.CorrelationID != "" {
		logger = s.logger.With("correlation_id", mutation.CorrelationID)
	}

	resultChan := make(chan error, 1)
	mutationCopy := *mutation

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.ProcessMutation(ctx, &mutationCopy)
	})
	if err != nil {
		logger.Error("Failed to submit mutation to worker pool",
			"mutation_id", mutation.MutationID.String(),
			"error", err,
		)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
