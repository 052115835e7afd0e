package account

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines ledger account persistence operations
type Repository interface {
	Create(ctx context.Context, account *LedgerAccount) error
	GetByWrioID(ctx context.Context, wrioID string) (*LedgerAccount, error)

	// List returns every account ordered by WRIO ID
	List(ctx context.Context) ([]*LedgerAccount, error)
	ListByWrioIDs(ctx context.Context, wrioIDs []string) ([]*LedgerAccount, error)

	// ListUnderfunded returns accounts with a wallet whose ETH balance is below threshold
	ListUnderfunded(ctx context.Context, threshold int64, limit int) ([]*LedgerAccount, error)

	// AssignWallet sets the wallet only when none is assigned yet
	AssignWallet(ctx context.Context, wrioID, wallet string) error

	// Update uses optimistic locking on the version the account was read with
	Update(ctx context.Context, account *LedgerAccount) error

	// LockForUpdate acquires a pessimistic lock for mutation processing
	LockForUpdate(ctx context.Context, wrioID string) (*LedgerAccount, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	WrioID string
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for account: " + e.WrioID
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	WrioID string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.WrioID
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.WrioID == "" || t.WrioID == e.WrioID
}

// ErrDuplicateAccount indicates WRIO ID uniqueness violation
type ErrDuplicateAccount struct {
	WrioID string
}

func (e ErrDuplicateAccount) Error() string {
	return "account already exists: " + e.WrioID
}
