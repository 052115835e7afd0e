package service

import (
	"context"
	"log/slog"

	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/currency"
	"github.com/wrio-webgold/webgold/internal/domain/etherfeed"
	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/ledger"
	"github.com/wrio-webgold/webgold/internal/platform/ethereum"
)

// AdminServiceImpl implements the AdminService interface. It only reads.
type AdminServiceImpl struct {
	accountRepo account.Repository
	journalRepo journal.Repository
	feedRepo    etherfeed.Repository
	chain       ChainClient
	divisor     int64
	logger      *slog.Logger
}

func NewAdminService(
	logger *slog.Logger,
	accountRepo account.Repository,
	journalRepo journal.Repository,
	feedRepo etherfeed.Repository,
	chain ChainClient,
	paymentCfg *config.PaymentConfig,
) AdminService {
	return &AdminServiceImpl{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		feedRepo:    feedRepo,
		chain:       chain,
		divisor:     paymentCfg.EtherDisplayDivisor,
		logger:      logger,
	}
}

func (s *AdminServiceImpl) MasterStats(ctx context.Context) (*ethereum.MasterStats, error) {
	return s.chain.MasterStats(ctx)
}

// ListEntries lists all accounts for the balance view, otherwise the accounts that
// received at least one completed mutation of the view's kind
func (s *AdminServiceImpl) ListEntries(ctx context.Context, kind ledger.Kind) ([]ledger.Entry, error) {
	if !kind.Valid() {
		return nil, ledger.ErrUnknownKind{Kind: kind}
	}

	var accounts []*account.LedgerAccount
	var err error

	if mutationKind, filtered := kind.MutationKind(); filtered {
		ids, idsErr := s.journalRepo.DistinctWrioIDsByKind(ctx, mutationKind)
		if idsErr != nil {
			return nil, idsErr
		}
		if len(ids) == 0 {
			return []ledger.Entry{}, nil
		}
		accounts, err = s.accountRepo.ListByWrioIDs(ctx, ids)
	} else {
		accounts, err = s.accountRepo.List(ctx)
	}
	if err != nil {
		s.logger.Error("Failed to list ledger entries", "kind", string(kind), "error", err)
		return nil, err
	}

	entries := make([]ledger.Entry, 0, len(accounts))
	for _, acc := range accounts {
		entries = append(entries, ledger.EntryFromAccount(kind, acc))
	}
	return entries, nil
}

func (s *AdminServiceImpl) ListEtherFeeds(ctx context.Context) ([]EtherFeedView, error) {
	events, err := s.feedRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list ether feeds", "error", err)
		return nil, err
	}

	views := make([]EtherFeedView, 0, len(events))
	for _, e := range events {
		views = append(views, EtherFeedView{
			Amount:        e.Amount,
			EthAccount:    e.EthAccount,
			Timestamp:     e.FedAt,
			DisplayAmount: currency.FromMinorUnits(e.Amount, s.divisor),
		})
	}
	return views, nil
}
