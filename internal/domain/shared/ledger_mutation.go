package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidMutationKind = errors.New("invalid mutation kind")
	ErrInvalidDelta        = errors.New("invalid mutation delta")

	// ErrRequestInProgress is returned while another request holds the same idempotency key
	ErrRequestInProgress = errors.New("duplicate request currently processing")
)

// LedgerMutation defines a Kafka message carrying one balance change for one account.
// Deltas are signed minor units; a mutation never touches more than one account.
type LedgerMutation struct {
	MutationID     uuid.UUID    `json:"mutation_id"`
	WrioID         string       `json:"wrio_id"`
	Kind           MutationKind `json:"kind"`
	WRGDelta       int64        `json:"wrg_delta"`
	ETHDelta       int64        `json:"eth_delta"`
	EthAccount     string       `json:"eth_account,omitempty"` // Destination wallet of ether feeds
	IdempotencyKey string       `json:"idempotency_key,omitempty"`
	CorrelationID  string       `json:"correlation_id"`
	Timestamp      time.Time    `json:"timestamp"`
}

// ValidateDeltas enforces the sign rules of each mutation kind
func (m *LedgerMutation) ValidateDeltas() error {
	switch m.Kind {
	case MutationKindEmission, MutationKindDonation, MutationKindPrePayment:
		if m.WRGDelta <= 0 || m.ETHDelta != 0 {
			return ErrInvalidDelta
		}
	case MutationKindEtherFeed:
		if m.ETHDelta <= 0 || m.WRGDelta != 0 || m.EthAccount == "" {
			return ErrInvalidDelta
		}
	case MutationKindSettlement:
		if m.WRGDelta == 0 && m.ETHDelta == 0 {
			return ErrInvalidDelta
		}
	default:
		return ErrInvalidMutationKind
	}
	return nil
}
