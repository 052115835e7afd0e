package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// ErrWalletMismatch rejects ether feeds addressed to a wallet the account does not own
var ErrWalletMismatch = errors.New("ether feed destination is not the account wallet")

// ProcessingService applies ledger mutations to account balances
type ProcessingService interface {
	ProcessMutation(ctx context.Context, mutation *shared.LedgerMutation) error
}

// MutationValidator validates mutations before processing
type MutationValidator interface {
	Validate(ctx context.Context, mutation *shared.LedgerMutation) error
	CheckIdempotency(ctx context.Context, mutation *shared.LedgerMutation) (bool, error)
}

// AccountManager locks the target account and applies the mutation deltas
type AccountManager interface {
	LockAndApply(ctx context.Context, tx pgx.Tx, mutation *shared.LedgerMutation) (*account.LedgerAccount, error)
}

// FeedRecorder appends ether feed events inside the mutation transaction
type FeedRecorder interface {
	RecordFeed(ctx context.Context, tx pgx.Tx, mutation *shared.LedgerMutation) error
}

// OutboxManager handles the creation of outbox entries for applied mutations
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, mutation *shared.LedgerMutation) error
}

// FailureRecorder handles recording rejected mutations in the journal
type FailureRecorder interface {
	RecordFailure(ctx context.Context, mutation *shared.LedgerMutation, failureReason string) error
}
