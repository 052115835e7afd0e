package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// MutationProducer writes ledger mutations keyed by WRIO ID so that every
// mutation of one account lands on the same partition.
type MutationProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewMutationProducer creates the producer and ensures the mutation topic exists
func NewMutationProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*MutationProducer, error) {
	if cfg.MutationTopic == "" {
		return nil, fmt.Errorf("kafka mutation topic is not configured")
	}

	if err := dialAndEnsureTopic(cfg.Brokers, cfg.MutationTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure mutation topic %s exists: %w", cfg.MutationTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.MutationTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &MutationProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.MutationTopic,
	}, nil
}

// PublishMutation writes the mutation synchronously
func (p *MutationProducer) PublishMutation(ctx context.Context, mutation *shared.LedgerMutation) error {
	value, err := json.Marshal(mutation)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger mutation: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(mutation.WrioID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "mutation-kind", Value: []byte(mutation.Kind)},
			{Key: "correlation-id", Value: []byte(mutation.CorrelationID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger mutation",
			"topic", p.topic,
			"mutation_id", mutation.MutationID.String(),
			"wrio_id", mutation.WrioID,
			"error", err,
		)
		return fmt.Errorf("failed to publish ledger mutation to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published ledger mutation",
		"topic", p.topic,
		"mutation_id", mutation.MutationID.String(),
		"kind", string(mutation.Kind),
	)
	return nil
}

func (p *MutationProducer) Close() error {
	p.logger.Info("Closing mutation producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
