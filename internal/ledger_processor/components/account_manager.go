package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/service"
)

// AccountManagerImpl implements the AccountManager interface
type AccountManagerImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

func NewAccountManager(accountRepo account.Repository, logger *slog.Logger) service.AccountManager {
	return &AccountManagerImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// LockAndApply locks the account row, checks the mutation against it and persists
// the new balances. Ether feeds must target the wallet assigned to the account.
func (m *AccountManagerImpl) LockAndApply(ctx context.Context, tx pgx.Tx, mutation *shared.LedgerMutation) (*account.LedgerAccount, error) {
	logger := m.logger
	if mutation.CorrelationID != "" {
		logger = m.logger.With("correlation_id", mutation.CorrelationID)
	}
	mutationID := mutation.MutationID.String()

	accountRepoTx := m.accountRepo.WithTx(tx)

	locked, err := accountRepoTx.LockForUpdate(ctx, mutation.WrioID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			logger.Warn("Account not found for lock", "mutation_id", mutationID, "wrio_id", mutation.WrioID)
			return nil, err
		}
		logger.Error("Failed to lock account", "mutation_id", mutationID, "wrio_id", mutation.WrioID, "error", err)
		return nil, fmt.Errorf("failed to lock account %s: %w", mutation.WrioID, err)
	}

	if mutation.Kind == shared.MutationKindEtherFeed {
		if !locked.HasWallet() {
			logger.Warn("Ether feed for account without wallet", "mutation_id", mutationID, "wrio_id", locked.WrioID)
			return nil, account.ErrNoWallet
		}
		if !locked.OwnsWallet(mutation.EthAccount) {
			logger.Warn("Ether feed wallet mismatch",
				"mutation_id", mutationID,
				"wrio_id", locked.WrioID,
				"eth_account", mutation.EthAccount,
			)
			return nil, service.ErrWalletMismatch
		}
	}

	if err := locked.Apply(mutation.WRGDelta, mutation.ETHDelta); err != nil {
		logger.Warn("Failed to apply mutation to account",
			"mutation_id", mutationID,
			"wrg_balance", locked.WRGBalance,
			"eth_balance", locked.ETHBalance,
			"error", err,
		)
		return nil, err
	}

	if err := accountRepoTx.Update(ctx, locked); err != nil {
		var conflict account.ErrConcurrentModification
		if errors.As(err, &conflict) {
			logger.Warn("Concurrent modification on account update", "mutation_id", mutationID, "wrio_id", locked.WrioID)
		} else {
			logger.Error("Failed to update account", "mutation_id", mutationID, "wrio_id", locked.WrioID, "error", err)
		}
		return nil, err
	}
	logger.Info("Account balances updated",
		"mutation_id", mutationID,
		"wrio_id", locked.WrioID,
		"wrg_balance", locked.WRGBalance,
		"eth_balance", locked.ETHBalance,
	)

	return locked, nil
}
