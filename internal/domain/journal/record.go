package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// Record is the journal copy of a processed ledger mutation. Completed records are
// the source of the categorized ledger views.
type Record struct {
	MutationID     uuid.UUID             `json:"mutation_id" bson:"mutation_id"`
	WrioID         string                `json:"wrio_id" bson:"wrio_id"`
	Kind           shared.MutationKind   `json:"kind" bson:"kind"`
	WRGDelta       int64                 `json:"wrg_delta" bson:"wrg_delta"`
	ETHDelta       int64                 `json:"eth_delta" bson:"eth_delta"`
	EthAccount     string                `json:"eth_account,omitempty" bson:"eth_account,omitempty"`
	IdempotencyKey string                `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CorrelationID  string                `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Status         shared.MutationStatus `json:"status" bson:"status"`
	FailureReason  string                `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at" bson:"created_at"`
	ProcessedAt    *time.Time            `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}

// FromMutation builds a record for the mutation with the given status
func FromMutation(m *shared.LedgerMutation, status shared.MutationStatus) *Record {
	return &Record{
		MutationID:     m.MutationID,
		WrioID:         m.WrioID,
		Kind:           m.Kind,
		WRGDelta:       m.WRGDelta,
		ETHDelta:       m.ETHDelta,
		EthAccount:     m.EthAccount,
		IdempotencyKey: m.IdempotencyKey,
		CorrelationID:  m.CorrelationID,
		Status:         status,
		CreatedAt:      m.Timestamp,
	}
}

// Terminal reports whether the record reached a final status
func (r *Record) Terminal() bool {
	return r.Status == shared.MutationStatusCompleted || r.Status == shared.MutationStatusFailed
}
