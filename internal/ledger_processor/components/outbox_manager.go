package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/outbox"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/service"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry stages the journal record of an applied mutation for publication
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, mutation *shared.LedgerMutation) error {
	logger := m.logger
	if mutation.CorrelationID != "" {
		logger = m.logger.With("correlation_id", mutation.CorrelationID)
	}
	mutationID := mutation.MutationID.String()

	// ProcessedAt is set by the poller
	record := journal.FromMutation(mutation, shared.MutationStatusProcessing)

	message, err := outbox.NewMessage(record)
	if err != nil {
		logger.Error("Failed to build outbox message", "mutation_id", mutationID, "error", err)
		return fmt.Errorf("failed to create outbox message payload for mutation %s: %w", mutationID, err)
	}

	if err := m.outboxRepo.WithTx(tx).Create(ctx, message); err != nil {
		logger.Error("Failed to create outbox message", "mutation_id", mutationID, "wrio_id", mutation.WrioID, "error", err)
		return fmt.Errorf("failed to create outbox message for mutation %s: %w", mutationID, err)
	}
	logger.Info("Outbox message created", "mutation_id", mutationID, "outbox_id", message.ID)

	return nil
}
