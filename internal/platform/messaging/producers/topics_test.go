package producers

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTopicAdmin struct {
	partitions []kafka.Partition
	readErr    error
	createErr  error
	reads      int
	created    []kafka.TopicConfig
}

func (f *fakeTopicAdmin) ReadPartitions(_ ...string) ([]kafka.Partition, error) {
	f.reads++
	return f.partitions, f.readErr
}

func (f *fakeTopicAdmin) CreateTopics(topics ...kafka.TopicConfig) error {
	f.created = append(f.created, topics...)
	return f.createErr
}

func TestEnsureTopic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("ExistingTopic", func(t *testing.T) {
		admin := &fakeTopicAdmin{partitions: []kafka.Partition{{Topic: "ledger_mutations", ID: 0}}}

		require.NoError(t, ensureTopic(admin, "ledger_mutations", 3, 1, 0, logger))
		assert.Equal(t, 1, admin.reads)
		assert.Empty(t, admin.created)
	})

	t.Run("CreatesMissingTopicWithDefaults", func(t *testing.T) {
		admin := &fakeTopicAdmin{readErr: errors.New("unknown topic")}

		require.NoError(t, ensureTopic(admin, "ledger_mutations_dlq", 0, 0, 0, logger))
		assert.Equal(t, topicReadAttempts, admin.reads)
		require.Len(t, admin.created, 1)
		assert.Equal(t, "ledger_mutations_dlq", admin.created[0].Topic)
		assert.Equal(t, 1, admin.created[0].NumPartitions)
		assert.Equal(t, 1, admin.created[0].ReplicationFactor)
	})

	t.Run("CreateFails", func(t *testing.T) {
		admin := &fakeTopicAdmin{createErr: errors.New("not controller")}

		err := ensureTopic(admin, "ledger_mutations", 3, 1, 0, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create kafka topic ledger_mutations")
	})
}
