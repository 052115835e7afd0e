package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wrio-webgold/webgold/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(logger *slog.Logger, accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// EnsureAccount returns the caller's account, creating it on first use
func (s *AccountServiceImpl) EnsureAccount(ctx context.Context, wrioID, name string) (*account.LedgerAccount, error) {
	acc, err := s.accountRepo.GetByWrioID(ctx, wrioID)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, account.ErrAccountNotFound{}) {
		return nil, err
	}

	acc, err = account.NewLedgerAccount(wrioID, name)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		var dup account.ErrDuplicateAccount
		if errors.As(err, &dup) {
			// created concurrently by another request
			return s.accountRepo.GetByWrioID(ctx, wrioID)
		}
		return nil, err
	}

	s.logger.Info("Ledger account created", "wrio_id", wrioID)
	return acc, nil
}

// AssignWallet validates the address and stores it when the account has no wallet yet
func (s *AccountServiceImpl) AssignWallet(ctx context.Context, wrioID, name, wallet string) (*account.LedgerAccount, error) {
	acc, err := s.EnsureAccount(ctx, wrioID, name)
	if err != nil {
		return nil, err
	}

	if err := acc.AssignWallet(wallet); err != nil {
		return nil, err
	}

	if err := s.accountRepo.AssignWallet(ctx, wrioID, acc.EthWallet); err != nil {
		return nil, err
	}

	s.logger.Info("Ethereum wallet assigned", "wrio_id", wrioID, "wallet", acc.EthWallet)
	return acc, nil
}
