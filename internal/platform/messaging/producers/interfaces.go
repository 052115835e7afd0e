package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// MutationPublisher publishes ledger mutations to the mutation topic
type MutationPublisher interface {
	PublishMutation(ctx context.Context, mutation *shared.LedgerMutation) error
	Close() error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// topicAdmin is the part of kafka.Conn used to make sure a topic exists
type topicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

var _ topicAdmin = (*kafka.Conn)(nil)
