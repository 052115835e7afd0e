// Package etherfeed models the append-only log of gas top-ups sent to user wallets.
package etherfeed

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidWallet = errors.New("ether feed destination must be a hex encoded ethereum address")
	ErrInvalidAmount = errors.New("ether feed amount must be positive")
)

// Event records one top-up. Amount is kept in raw minor units.
type Event struct {
	ID         int64     `json:"id"`
	MutationID uuid.UUID `json:"mutation_id"`
	EthAccount string    `json:"eth_account"`
	Amount     int64     `json:"amount"`
	FedAt      time.Time `json:"timestamp"`
}

// NewEvent validates and builds a feed event for the wallet. The address is
// kept as given so listings return exactly what was recorded.
func NewEvent(wallet string, amount int64, at time.Time) (*Event, error) {
	if !common.IsHexAddress(wallet) {
		return nil, ErrInvalidWallet
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Event{
		EthAccount: wallet,
		Amount:     amount,
		FedAt:      at.UTC(),
	}, nil
}

// Repository persists feed events. Events are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, event *Event) error

	// List returns every event, newest first
	List(ctx context.Context) ([]*Event, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrDuplicateFeed indicates a feed was already recorded for the mutation
type ErrDuplicateFeed struct {
	MutationID uuid.UUID
}

func (e ErrDuplicateFeed) Error() string {
	return "ether feed already recorded for mutation: " + e.MutationID.String()
}
