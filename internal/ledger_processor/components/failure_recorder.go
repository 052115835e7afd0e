package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/service"
)

type FailureRecorderImpl struct {
	journalRepo journal.Repository
	logger      *slog.Logger
}

func NewFailureRecorder(journalRepo journal.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// RecordFailure journals a rejected mutation as FAILED
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, mutation *shared.LedgerMutation, failureReason string) error {
	logger := r.logger
	if mutation.CorrelationID != "" {
		logger = r.logger.With("correlation_id", mutation.CorrelationID)
	}
	mutationID := mutation.MutationID.String()

	logger.Info("Recording failed mutation", "mutation_id", mutationID, "reason", failureReason)

	existing, err := r.journalRepo.GetByMutationID(ctx, mutation.MutationID)
	if err != nil && !errors.Is(err, journal.ErrRecordNotFound{}) {
		logger.Error("Failed to get existing journal record", "mutation_id", mutationID, "error", err)
	}

	if existing != nil {
		if existing.Status == shared.MutationStatusFailed {
			logger.Info("Journal record already marked as FAILED", "mutation_id", mutationID)
			return nil
		}
		if err := r.journalRepo.UpdateStatus(ctx, mutation.MutationID, shared.MutationStatusFailed, failureReason); err != nil {
			logger.Error("Failed to update journal record to FAILED", "mutation_id", mutationID, "error", err)
			return err
		}
		return nil
	}

	now := time.Now().UTC()
	record := journal.FromMutation(mutation, shared.MutationStatusFailed)
	record.FailureReason = failureReason
	record.ProcessedAt = &now

	if err := r.journalRepo.Create(ctx, record); err != nil {
		if errors.Is(err, journal.ErrDuplicateRecord{}) {
			logger.Info("Failed mutation journaled concurrently", "mutation_id", mutationID)
			return nil
		}
		logger.Error("Failed to create FAILED journal record", "mutation_id", mutationID, "error", err)
		return err
	}
	logger.Info("Created FAILED journal record", "mutation_id", mutationID)
	return nil
}
