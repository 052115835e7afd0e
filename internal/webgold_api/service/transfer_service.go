package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/transfer"
	"github.com/wrio-webgold/webgold/internal/metrics"
)

const completeAttempts = 3

var completeRetryDelay = 50 * time.Millisecond

// TransferServiceImpl implements the TransferService interface
type TransferServiceImpl struct {
	transferRepo transfer.Repository
	accountRepo  account.Repository
	chain        ChainClient
	idempotency  IdempotencyStore
	logger       *slog.Logger
}

func NewTransferService(
	logger *slog.Logger,
	transferRepo transfer.Repository,
	accountRepo account.Repository,
	chain ChainClient,
	idempotency IdempotencyStore,
) TransferService {
	return &TransferServiceImpl{
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
		chain:        chain,
		idempotency:  idempotency,
		logger:       logger,
	}
}

// GetForSigning validates the id before any lookup and never modifies the record
func (s *TransferServiceImpl) GetForSigning(ctx context.Context, id, requester string) (*transfer.PendingTransfer, error) {
	if err := transfer.ValidateID(id); err != nil {
		return nil, err
	}

	pending, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !pending.OwnedBy(requester) {
		s.logger.Warn("Signing request by non-party", "transfer_id", id, "wrio_id", requester)
		return nil, transfer.ErrForbidden{ID: id, WrioID: requester}
	}

	return pending, nil
}

func (s *TransferServiceImpl) CreateTransfer(ctx context.Context, in CreateTransferInput) (*transfer.PendingTransfer, error) {
	if err := validateTransferInput(in); err != nil {
		return nil, err
	}

	if in.IdempotencyKey == "" {
		return s.create(ctx, in)
	}

	existingID, reserved, err := s.idempotency.Reserve(ctx, in.OriginWrioID, in.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if !reserved {
		s.logger.Info("Returning transfer of repeated request",
			"idempotency_key", in.IdempotencyKey,
			"transfer_id", existingID)
		return s.transferRepo.GetByID(ctx, existingID)
	}

	pending, err := s.create(ctx, in)
	if err != nil {
		s.idempotency.Release(context.WithoutCancel(ctx), in.OriginWrioID, in.IdempotencyKey)
		return nil, err
	}

	s.completeReservation(context.WithoutCancel(ctx), in, pending.ID)
	return pending, nil
}

// completeReservation maps the key to the created transfer. When that keeps
// failing the key is released so a retry is not stuck behind the in-progress
// marker until it expires.
func (s *TransferServiceImpl) completeReservation(ctx context.Context, in CreateTransferInput, transferID string) {
	var err error
	for attempt := 1; attempt <= completeAttempts; attempt++ {
		if err = s.idempotency.Complete(ctx, in.OriginWrioID, in.IdempotencyKey, transferID); err == nil {
			return
		}
		s.logger.Warn("Failed to record idempotent transfer",
			"transfer_id", transferID,
			"attempt", attempt,
			"error", err)
		if attempt < completeAttempts {
			time.Sleep(completeRetryDelay)
		}
	}

	s.logger.Error("Releasing idempotency key after failed completion",
		"idempotency_key", in.IdempotencyKey,
		"transfer_id", transferID,
		"error", err)
	s.idempotency.Release(ctx, in.OriginWrioID, in.IdempotencyKey)
}

func validateTransferInput(in CreateTransferInput) error {
	var details []string
	if in.DestWrioID == "" {
		details = append(details, "to is required")
	} else if in.DestWrioID == in.OriginWrioID {
		details = append(details, "to must differ from the sender")
	}
	if in.Amount <= 0 {
		details = append(details, "amount must be greater than 0")
	}
	if len(details) > 0 {
		return ValidationError{Message: "invalid transfer request", Details: details}
	}
	return nil
}

func (s *TransferServiceImpl) create(ctx context.Context, in CreateTransferInput) (*transfer.PendingTransfer, error) {
	origin, err := s.accountRepo.GetByWrioID(ctx, in.OriginWrioID)
	if err != nil {
		return nil, err
	}
	dest, err := s.accountRepo.GetByWrioID(ctx, in.DestWrioID)
	if err != nil {
		return nil, err
	}

	var details []string
	if !origin.HasWallet() {
		details = append(details, "sender has no ethereum wallet")
	}
	if !dest.HasWallet() {
		details = append(details, "recipient has no ethereum wallet")
	}
	if !origin.CanSpend(in.Amount) {
		details = append(details, "insufficient WRG balance")
	}
	if len(details) > 0 {
		return nil, ValidationError{Message: "transfer cannot be built", Details: details}
	}

	unsignedTx, err := s.chain.BuildTransfer(ctx, origin.EthWallet, dest.EthWallet, in.Amount)
	if err != nil {
		return nil, err
	}

	pending := &transfer.PendingTransfer{
		UnsignedTx:   unsignedTx,
		DestWrioID:   dest.WrioID,
		DestWallet:   dest.EthWallet,
		Amount:       in.Amount,
		OriginWrioID: origin.WrioID,
		OriginWallet: origin.EthWallet,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.transferRepo.Create(ctx, pending); err != nil {
		return nil, err
	}

	metrics.RecordTransferCreated()
	s.logger.Info("Pending transfer created",
		"transfer_id", pending.ID,
		"origin_wrio_id", pending.OriginWrioID,
		"dest_wrio_id", pending.DestWrioID,
		"amount", pending.Amount)
	return pending, nil
}
