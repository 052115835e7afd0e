package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/ledger"
	"github.com/wrio-webgold/webgold/internal/domain/transfer"
	"github.com/wrio-webgold/webgold/internal/platform/ethereum"
	"github.com/wrio-webgold/webgold/internal/rates"
)

// AdminService serves the read-only admin dashboard
type AdminService interface {
	// MasterStats reads the platform master account from the chain
	MasterStats(ctx context.Context) (*ethereum.MasterStats, error)

	// ListEntries returns the accounts of one categorized view ordered by WRIO ID.
	// An empty view is an empty slice, not an error.
	ListEntries(ctx context.Context, kind ledger.Kind) ([]ledger.Entry, error)

	// ListEtherFeeds returns every ether feed, newest first
	ListEtherFeeds(ctx context.Context) ([]EtherFeedView, error)
}

// TransferService builds and hands out unsigned token transfers
type TransferService interface {
	// GetForSigning returns the transfer when requester is its origin or destination.
	// Returns ErrInvalidID, ErrTransferNotFound or ErrForbidden otherwise.
	GetForSigning(ctx context.Context, id, requester string) (*transfer.PendingTransfer, error)

	// CreateTransfer builds and stores an unsigned transfer. A non-empty idempotency key
	// makes repeats return the transfer of the first request.
	CreateTransfer(ctx context.Context, req CreateTransferInput) (*transfer.PendingTransfer, error)
}

// FundsService assembles the add-funds page data
type FundsService interface {
	// GetFundsData never fails; on any error the degraded payload is returned
	GetFundsData(ctx context.Context, wrioID, username string) FundsData
}

// AccountService manages the caller's own ledger account
type AccountService interface {
	// EnsureAccount returns the account of wrioID, creating an empty one on first use
	EnsureAccount(ctx context.Context, wrioID, name string) (*account.LedgerAccount, error)

	// AssignWallet binds an Ethereum address to the account once
	AssignWallet(ctx context.Context, wrioID, name, wallet string) (*account.LedgerAccount, error)
}

// HistoryService pages through an account's ledger mutations
type HistoryService interface {
	ListTransactions(ctx context.Context, wrioID string, limit, offset int) ([]*journal.Record, error)
}

// RateProvider is satisfied by rates.Oracle
type RateProvider interface {
	GetRates(ctx context.Context) (rates.Quote, error)
}

// ChainClient is satisfied by ethereum.TokenClient
type ChainClient interface {
	MasterStats(ctx context.Context) (*ethereum.MasterStats, error)
	BuildTransfer(ctx context.Context, origin, dest string, amount int64) (string, error)
}

// IdempotencyStore is satisfied by the Redis idempotency store
type IdempotencyStore interface {
	Reserve(ctx context.Context, scope, key string) (string, bool, error)
	Complete(ctx context.Context, scope, key, id string) error
	Release(ctx context.Context, scope, key string)
}

// EtherFeedView is one row of the ether feed log
type EtherFeedView struct {
	Amount        int64 // raw minor units
	EthAccount    string
	Timestamp     time.Time
	DisplayAmount decimal.Decimal // Amount scaled by the ether display divisor
}

// CreateTransferInput carries a transfer request of an authenticated origin
type CreateTransferInput struct {
	OriginWrioID   string
	DestWrioID     string
	Amount         int64 // WRG minor units
	IdempotencyKey string
}

// FundsData is the add-funds payload. Rate fields are nil in the degraded form.
type FundsData struct {
	Username        string
	LoginURL        string
	Balance         *decimal.Decimal
	GramPriceUSD    *decimal.Decimal
	BTCToWRGRate    *decimal.Decimal
	BTCExchangeRate *decimal.Decimal
	ExchangeRate    decimal.Decimal
	Degraded        bool
}
