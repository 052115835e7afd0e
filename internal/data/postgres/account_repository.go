// Package postgres provides PostgreSQL implementations of the domain repositories.
// It covers ledger accounts, the ether feed log and the transactional outbox.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/platform/persistence"
)

const (
	accountColumns = `wrio_id, name, COALESCE(eth_wallet, ''), wrg_balance, eth_balance, version, created_at, updated_at`

	insertAccountQuery = `INSERT INTO ledger_accounts (wrio_id, name, eth_wallet, wrg_balance, eth_balance, version, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)`

	getAccountQuery = `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE wrio_id = $1`

	listAccountsQuery = `SELECT ` + accountColumns + ` FROM ledger_accounts ORDER BY wrio_id`

	listAccountsByIDsQuery = `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE wrio_id = ANY($1) ORDER BY wrio_id`

	listUnderfundedQuery = `SELECT ` + accountColumns + ` FROM ledger_accounts
		WHERE eth_wallet IS NOT NULL AND eth_balance < $1 ORDER BY wrio_id LIMIT $2`

	assignWalletQuery = `UPDATE ledger_accounts SET eth_wallet = $1, version = version + 1, updated_at = NOW()
		WHERE wrio_id = $2 AND eth_wallet IS NULL`

	updateAccountQuery = `UPDATE ledger_accounts
		SET name = $1, wrg_balance = $2, eth_balance = $3, version = $4, updated_at = $5
		WHERE wrio_id = $6 AND version = $7`

	lockAccountQuery = `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE wrio_id = $1 FOR UPDATE`
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the transaction
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *AccountRepository) Create(ctx context.Context, acc *account.LedgerAccount) error {
	_, err := r.querier.Exec(ctx, insertAccountQuery,
		acc.WrioID,
		acc.Name,
		acc.EthWallet,
		acc.WRGBalance,
		acc.ETHBalance,
		acc.Version,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return account.ErrDuplicateAccount{WrioID: acc.WrioID}
		}
		r.logger.Error("Failed to create account", "wrio_id", acc.WrioID, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetByWrioID(ctx context.Context, wrioID string) (*account.LedgerAccount, error) {
	acc, err := scanAccount(r.querier.QueryRow(ctx, getAccountQuery, wrioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{WrioID: wrioID}
		}
		r.logger.Error("Failed to get account", "wrio_id", wrioID, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*account.LedgerAccount, error) {
	return r.queryAccounts(ctx, "list accounts", listAccountsQuery)
}

// ListByWrioIDs loads the given accounts, silently skipping unknown IDs
func (r *AccountRepository) ListByWrioIDs(ctx context.Context, wrioIDs []string) ([]*account.LedgerAccount, error) {
	if len(wrioIDs) == 0 {
		return []*account.LedgerAccount{}, nil
	}
	return r.queryAccounts(ctx, "list accounts by wrio ids", listAccountsByIDsQuery, wrioIDs)
}

func (r *AccountRepository) ListUnderfunded(ctx context.Context, threshold int64, limit int) ([]*account.LedgerAccount, error) {
	return r.queryAccounts(ctx, "list underfunded accounts", listUnderfundedQuery, threshold, limit)
}

func (r *AccountRepository) AssignWallet(ctx context.Context, wrioID, wallet string) error {
	result, err := r.querier.Exec(ctx, assignWalletQuery, wallet, wrioID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn("Wallet already bound to another account", "wrio_id", wrioID, "wallet", wallet)
			return account.ErrWalletInUse
		}
		r.logger.Error("Failed to assign wallet", "wrio_id", wrioID, "error", err)
		return fmt.Errorf("failed to assign wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Either the account is missing or it already has a wallet
		if _, err := r.GetByWrioID(ctx, wrioID); err != nil {
			return err
		}
		return account.ErrWalletAlreadyAssigned
	}

	return nil
}

// Update persists balances using optimistic locking: the row must still carry the
// version the account had before its last in-memory change.
func (r *AccountRepository) Update(ctx context.Context, acc *account.LedgerAccount) error {
	result, err := r.querier.Exec(ctx, updateAccountQuery,
		acc.Name,
		acc.WRGBalance,
		acc.ETHBalance,
		acc.Version,
		acc.UpdatedAt,
		acc.WrioID,
		acc.Version-1,
	)
	if err != nil {
		r.logger.Error("Failed to update account", "wrio_id", acc.WrioID, "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{WrioID: acc.WrioID}
	}

	return nil
}

// LockForUpdate obtains a row lock on the account and returns its current state.
// It must run inside a transaction.
func (r *AccountRepository) LockForUpdate(ctx context.Context, wrioID string) (*account.LedgerAccount, error) {
	acc, err := scanAccount(r.querier.QueryRow(ctx, lockAccountQuery, wrioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{WrioID: wrioID}
		}
		r.logger.Error("Failed to lock account for update", "wrio_id", wrioID, "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}

	return acc, nil
}

func (r *AccountRepository) queryAccounts(ctx context.Context, op, query string, args ...any) ([]*account.LedgerAccount, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+op, "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	accounts := make([]*account.LedgerAccount, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over accounts", "error", err)
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

func scanAccount(row pgx.Row) (*account.LedgerAccount, error) {
	var acc account.LedgerAccount
	err := row.Scan(
		&acc.WrioID,
		&acc.Name,
		&acc.EthWallet,
		&acc.WRGBalance,
		&acc.ETHBalance,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
