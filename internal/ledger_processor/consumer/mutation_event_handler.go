package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/service"
	"github.com/wrio-webgold/webgold/internal/platform/messaging/producers"
)

var errMissingMutationID = errors.New("mutation_id is missing")

// MutationEventHandler handles ledger mutation messages from Kafka
type MutationEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

func NewMutationEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *MutationEventHandler {
	return &MutationEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

func decodeMutation(value []byte) (*shared.LedgerMutation, error) {
	var mutation shared.LedgerMutation
	if err := json.Unmarshal(value, &mutation); err != nil {
		return nil, err
	}
	if mutation.MutationID == uuid.Nil {
		return nil, errMissingMutationID
	}
	return &mutation, nil
}

// HandleMessage decodes and processes one message. A nil return commits the offset.
func (h *MutationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	mutation, err := decodeMutation(value)
	if err != nil {
		return h.deadLetter(ctx, key, value, err)
	}

	logger := h.logger
	if mutation.CorrelationID != "" {
		logger = h.logger.With("correlation_id", mutation.CorrelationID)
	}

	logger.Info("Received ledger mutation",
		"mutation_id", mutation.MutationID.String(),
		"wrio_id", mutation.WrioID,
		"kind", mutation.Kind,
		"wrg_delta", mutation.WRGDelta,
		"eth_delta", mutation.ETHDelta,
	)

	if err := h.processingService.ProcessMutation(ctx, mutation); err != nil {
		logger.Error("Failed to process mutation",
			"mutation_id", mutation.MutationID.String(),
			"wrio_id", mutation.WrioID,
			"error", err,
		)
		return fmt.Errorf("processing mutation %s failed: %w", mutation.MutationID.String(), err)
	}

	return nil
}

func (h *MutationEventHandler) deadLetter(ctx context.Context, key, value []byte, decodeErr error) error {
	h.logger.Error("Failed to decode ledger mutation", "error", decodeErr, "message_key", string(key))

	reason := "undecodable mutation: " + decodeErr.Error()
	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
		if errors.Is(dlqErr, producers.ErrDLQDisabled) {
			// Nothing would ever decode it, so retrying only blocks the partition.
			h.logger.Warn("Dropping undecodable message, DLQ disabled", "message_key", string(key))
			return nil
		}
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", decodeErr,
			"message_key", string(key),
		)
		return fmt.Errorf("failed to decode message value: %w", decodeErr)
	}

	h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key))
	return nil
}
