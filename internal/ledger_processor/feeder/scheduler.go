// Package feeder tops up the gas balance of user wallets running low on ether.
package feeder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/platform/messaging/producers"
)

// Scheduler publishes ETHER_FEED mutations for underfunded accounts on every tick
type Scheduler struct {
	accountRepo account.Repository
	publisher   producers.MutationPublisher
	cfg         config.FeederConfig
	logger      *slog.Logger
	now         func() time.Time
}

func NewScheduler(
	cfg config.FeederConfig,
	accountRepo account.Repository,
	publisher producers.MutationPublisher,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		accountRepo: accountRepo,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Start runs until ctx is canceled
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting ether feeder",
		"interval", s.cfg.Interval.String(),
		"threshold", s.cfg.Threshold,
		"amount", s.cfg.Amount,
		"batch_size", s.cfg.BatchSize,
	)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Ether feeder stopping")
			return
		case <-ticker.C:
			if err := s.feedUnderfunded(ctx); err != nil {
				s.logger.Error("Ether feed round failed", "error", err)
			}
		}
	}
}

// FeedMutationID is stable for an account within one feeder window, so a round that
// runs twice in the same window publishes the same mutation and is applied once.
func FeedMutationID(wrioID string, window time.Time) uuid.UUID {
	name := "etherfeed:" + wrioID + ":" + strconv.FormatInt(window.Unix(), 10)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}

func (s *Scheduler) feedUnderfunded(ctx context.Context) error {
	accounts, err := s.accountRepo.ListUnderfunded(ctx, s.cfg.Threshold, s.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list underfunded accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil
	}

	now := s.now().UTC()
	window := now.Truncate(s.cfg.Interval)
	correlationID := uuid.New().String()
	logger := s.logger.With("correlation_id", correlationID)

	published := 0
	for _, acc := range accounts {
		mutation := &shared.LedgerMutation{
			MutationID:    FeedMutationID(acc.WrioID, window),
			WrioID:        acc.WrioID,
			Kind:          shared.MutationKindEtherFeed,
			ETHDelta:      s.cfg.Amount,
			EthAccount:    acc.EthWallet,
			CorrelationID: correlationID,
			Timestamp:     now,
		}
		if err := s.publisher.PublishMutation(ctx, mutation); err != nil {
			logger.Error("Failed to publish ether feed",
				"wrio_id", acc.WrioID,
				"mutation_id", mutation.MutationID.String(),
				"error", err,
			)
			continue
		}
		published++
	}

	logger.Info("Ether feed round done", "underfunded", len(accounts), "published", published)
	return nil
}
