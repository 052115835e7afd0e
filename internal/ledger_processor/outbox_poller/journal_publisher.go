package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/outbox"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// JournalPublisher moves outbox messages into the journal store
type JournalPublisher interface {
	PublishToJournal(ctx context.Context, message *outbox.Message) error
}

type JournalPublisherImpl struct {
	outboxRepo  outbox.Repository
	journalRepo journal.Repository
	logger      *slog.Logger
}

func NewJournalPublisher(
	outboxRepo outbox.Repository,
	journalRepo journal.Repository,
	logger *slog.Logger,
) JournalPublisher {
	return &JournalPublisherImpl{
		outboxRepo:  outboxRepo,
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// PublishToJournal writes the carried record as COMPLETED and marks the message PROCESSED.
// Replays are safe: an already completed record is left untouched.
func (p *JournalPublisherImpl) PublishToJournal(ctx context.Context, message *outbox.Message) error {
	record, err := message.JournalRecord()
	if err != nil {
		p.logger.Error("Failed to decode journal record from outbox payload",
			"outbox_id", message.ID, "mutation_id", message.MutationID.String(), "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to mark outbox message FAILED_TO_PUBLISH", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if record.CorrelationID != "" {
		logger = p.logger.With("correlation_id", record.CorrelationID)
	}
	mutationID := record.MutationID.String()

	now := time.Now().UTC()
	record.Status = shared.MutationStatusCompleted
	record.ProcessedAt = &now

	existing, err := p.journalRepo.GetByMutationID(ctx, record.MutationID)
	if err != nil && !errors.Is(err, journal.ErrRecordNotFound{}) {
		logger.Error("Failed to check existing journal record", "mutation_id", mutationID, "error", err)
		return fmt.Errorf("failed to check existing journal record %s: %w", mutationID, err)
	}

	switch {
	case existing == nil:
		if err := p.journalRepo.Create(ctx, record); err != nil && !errors.Is(err, journal.ErrDuplicateRecord{}) {
			logger.Error("Failed to create journal record", "mutation_id", mutationID, "error", err)
			return fmt.Errorf("failed to create journal record %s: %w", mutationID, err)
		}
	case existing.Status != shared.MutationStatusCompleted:
		if err := p.journalRepo.UpdateStatus(ctx, record.MutationID, shared.MutationStatusCompleted, ""); err != nil {
			logger.Error("Failed to update journal record to COMPLETED", "mutation_id", mutationID, "error", err)
			return fmt.Errorf("failed to update journal record %s to COMPLETED: %w", mutationID, err)
		}
	default:
		logger.Info("Journal record already COMPLETED", "mutation_id", mutationID)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to mark outbox message PROCESSED", "outbox_id", message.ID, "mutation_id", mutationID, "error", err)
		return fmt.Errorf("journal write for %s OK, but failed to mark outbox %d as PROCESSED: %w", mutationID, message.ID, err)
	}
	logger.Info("Outbox message published to journal", "outbox_id", message.ID, "mutation_id", mutationID)
	return nil
}
