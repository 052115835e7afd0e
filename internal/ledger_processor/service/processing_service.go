package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/etherfeed"
	"github.com/wrio-webgold/webgold/internal/domain/outbox"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/metrics"
	"github.com/wrio-webgold/webgold/internal/platform/persistence"
)

type ProcessingServiceImpl struct {
	db              persistence.TxBeginner
	validator       MutationValidator
	accountManager  AccountManager
	feedRecorder    FeedRecorder
	outboxManager   OutboxManager
	failureRecorder FailureRecorder
	logger          *slog.Logger
}

func NewProcessingService(
	db persistence.TxBeginner,
	validator MutationValidator,
	accountManager AccountManager,
	feedRecorder FeedRecorder,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		db:              db,
		validator:       validator,
		accountManager:  accountManager,
		feedRecorder:    feedRecorder,
		outboxManager:   outboxManager,
		failureRecorder: failureRecorder,
		logger:          logger,
	}
}

// ProcessMutation applies one mutation atomically. Business rejections are recorded
// and acknowledged; every other error is returned so the message is retried.
func (s *ProcessingServiceImpl) ProcessMutation(ctx context.Context, mutation *shared.LedgerMutation) error {
	logger := s.logger
	if mutation.CorrelationID != "" {
		logger = s.logger.With("correlation_id", mutation.CorrelationID)
	}
	mutationID := mutation.MutationID.String()

	logger.Info("Processing mutation", "mutation_id", mutationID, "wrio_id", mutation.WrioID, "kind", mutation.Kind)

	if err := s.validator.Validate(ctx, mutation); err != nil {
		logger.Warn("Mutation validation failed", "mutation_id", mutationID, "error", err)
		s.reject(ctx, logger, mutation, validationFailureReason(err))
		return nil
	}

	skip, err := s.validator.CheckIdempotency(ctx, mutation)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	err = persistence.ExecuteTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := s.accountManager.LockAndApply(ctx, tx, mutation); err != nil {
			return err
		}
		if mutation.Kind == shared.MutationKindEtherFeed {
			if err := s.feedRecorder.RecordFeed(ctx, tx, mutation); err != nil {
				return err
			}
		}
		return s.outboxManager.CreateOutboxEntry(ctx, tx, mutation)
	})
	if err != nil {
		if alreadyApplied(err) {
			logger.Info("Mutation applied concurrently, skipping", "mutation_id", mutationID)
			return nil
		}
		if reason, ok := businessFailureReason(err); ok {
			logger.Warn("Mutation rejected", "mutation_id", mutationID, "reason", reason, "error", err)
			s.reject(ctx, logger, mutation, reason)
			return nil
		}
		logger.Error("Mutation transaction failed", "mutation_id", mutationID, "error", err)
		metrics.RecordMutation(string(mutation.Kind), "retry")
		return err
	}

	metrics.RecordMutation(string(mutation.Kind), string(shared.MutationStatusCompleted))
	if mutation.Kind == shared.MutationKindEtherFeed {
		metrics.RecordEtherFeed()
	}
	logger.Info("Mutation committed", "mutation_id", mutationID, "wrio_id", mutation.WrioID)
	return nil
}

func (s *ProcessingServiceImpl) reject(ctx context.Context, logger *slog.Logger, mutation *shared.LedgerMutation, reason shared.FailureReason) {
	metrics.RecordMutation(string(mutation.Kind), string(shared.MutationStatusFailed))
	if err := s.failureRecorder.RecordFailure(ctx, mutation, string(reason)); err != nil {
		logger.Error("Failed to record mutation failure", "mutation_id", mutation.MutationID.String(), "error", err)
	}
}

func validationFailureReason(err error) shared.FailureReason {
	switch {
	case errors.Is(err, shared.ErrInvalidMutationKind):
		return shared.FailureReasonInvalidKind
	case errors.Is(err, shared.ErrInvalidDelta):
		return shared.FailureReasonInvalidAmount
	default:
		return shared.FailureReasonUnknownError
	}
}

func businessFailureReason(err error) (shared.FailureReason, bool) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound{}):
		return shared.FailureReasonAccountNotFound, true
	case errors.Is(err, account.ErrInsufficientFunds):
		return shared.FailureReasonInsufficientFunds, true
	case errors.Is(err, ErrWalletMismatch), errors.Is(err, account.ErrNoWallet):
		return shared.FailureReasonWalletMismatch, true
	case errors.Is(err, etherfeed.ErrInvalidWallet):
		return shared.FailureReasonWalletMismatch, true
	case errors.Is(err, etherfeed.ErrInvalidAmount):
		return shared.FailureReasonInvalidAmount, true
	}
	return "", false
}

func alreadyApplied(err error) bool {
	var dupMessage outbox.ErrDuplicateMessage
	var dupFeed etherfeed.ErrDuplicateFeed
	return errors.As(err, &dupMessage) || errors.As(err, &dupFeed)
}
