package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/outbox"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/service"
)

type MutationValidatorImpl struct {
	journalRepo journal.Repository
	outboxRepo  outbox.Repository
	logger      *slog.Logger
}

func NewMutationValidator(journalRepo journal.Repository, outboxRepo outbox.Repository, logger *slog.Logger) service.MutationValidator {
	return &MutationValidatorImpl{
		journalRepo: journalRepo,
		outboxRepo:  outboxRepo,
		logger:      logger,
	}
}

// Validate checks the mutation shape and the sign rules of its kind
func (v *MutationValidatorImpl) Validate(ctx context.Context, mutation *shared.LedgerMutation) error {
	logger := v.logger
	if mutation.CorrelationID != "" {
		logger = v.logger.With("correlation_id", mutation.CorrelationID)
	}

	if mutation.WrioID == "" {
		logger.Error("Mutation without account", "mutation_id", mutation.MutationID.String())
		return fmt.Errorf("mutation has no wrio id: %w", shared.ErrInvalidDelta)
	}

	if err := mutation.ValidateDeltas(); err != nil {
		logger.Error("Invalid mutation",
			"mutation_id", mutation.MutationID.String(),
			"kind", mutation.Kind,
			"wrg_delta", mutation.WRGDelta,
			"eth_delta", mutation.ETHDelta,
			"error", err,
		)
		return err
	}

	return nil
}

// CheckIdempotency reports whether the mutation was already applied. A terminal journal
// record or a pending outbox message both mean the balances already carry it.
func (v *MutationValidatorImpl) CheckIdempotency(ctx context.Context, mutation *shared.LedgerMutation) (bool, error) {
	logger := v.logger
	if mutation.CorrelationID != "" {
		logger = v.logger.With("correlation_id", mutation.CorrelationID)
	}
	mutationID := mutation.MutationID.String()

	record, err := v.journalRepo.GetByMutationID(ctx, mutation.MutationID)
	if err != nil && !errors.Is(err, journal.ErrRecordNotFound{}) {
		logger.Error("Failed to check journal for idempotency", "mutation_id", mutationID, "error", err)
		return false, fmt.Errorf("idempotency check failed for mutation %s: %w", mutationID, err)
	}
	if record != nil && record.Terminal() {
		logger.Info("Mutation already processed (idempotency)", "mutation_id", mutationID, "status", record.Status)
		return true, nil
	}

	message, err := v.outboxRepo.GetByMutationID(ctx, mutation.MutationID)
	if err != nil && !errors.Is(err, outbox.ErrMessageNotFound{}) {
		logger.Error("Failed to check outbox for idempotency", "mutation_id", mutationID, "error", err)
		return false, fmt.Errorf("idempotency check failed for mutation %s: %w", mutationID, err)
	}
	if message != nil {
		logger.Info("Mutation already applied, awaiting publication", "mutation_id", mutationID, "outbox_id", message.ID)
		return true, nil
	}

	return false, nil
}
