package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// Message stores a journal record until it has been published to the journal store
type Message struct {
	ID            int64               `json:"id"`
	MutationID    uuid.UUID           `json:"mutation_id"`
	WrioID        string              `json:"wrio_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(record *journal.Record) (*Message, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	return &Message{
		MutationID: record.MutationID,
		WrioID:     record.WrioID,
		Payload:    payload,
		Status:     shared.OutboxStatusPending,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *Message) touch() {
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	m.touch()
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	m.touch()
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	m.touch()
}

// JournalRecord decodes the journal record carried by the payload
func (m *Message) JournalRecord() (*journal.Record, error) {
	var record journal.Record
	if err := json.Unmarshal(m.Payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
