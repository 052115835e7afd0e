package components

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/wrio-webgold/webgold/internal/domain/etherfeed"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/ledger_processor/service"
)

type FeedRecorderImpl struct {
	feedRepo etherfeed.Repository
	logger   *slog.Logger
}

func NewFeedRecorder(feedRepo etherfeed.Repository, logger *slog.Logger) service.FeedRecorder {
	return &FeedRecorderImpl{
		feedRepo: feedRepo,
		logger:   logger,
	}
}

// RecordFeed appends the ether feed event in the same transaction as the balance change
func (r *FeedRecorderImpl) RecordFeed(ctx context.Context, tx pgx.Tx, mutation *shared.LedgerMutation) error {
	event, err := etherfeed.NewEvent(mutation.EthAccount, mutation.ETHDelta, mutation.Timestamp)
	if err != nil {
		r.logger.Warn("Invalid ether feed", "mutation_id", mutation.MutationID.String(), "error", err)
		return err
	}
	event.MutationID = mutation.MutationID

	if err := r.feedRepo.WithTx(tx).Append(ctx, event); err != nil {
		return err
	}
	r.logger.Info("Ether feed recorded",
		"mutation_id", mutation.MutationID.String(),
		"eth_account", event.EthAccount,
		"amount", event.Amount,
	)
	return nil
}
