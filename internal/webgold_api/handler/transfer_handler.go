package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/wrio-webgold/webgold/internal/domain/transfer"
	"github.com/wrio-webgold/webgold/internal/webgold_api/middleware"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

// IdempotencyKeyHeader makes transfer creation safe to retry
const IdempotencyKeyHeader = "Idempotency-Key"

// TransferHandler hands unsigned transfers to their parties
type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

func NewTransferHandler(logger *slog.Logger, transferService service.TransferService) *TransferHandler {
	registerValidators()
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// SignTx returns a pending transfer for client-side signing
func (h *TransferHandler) SignTx(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondUnauthorized(c)
		return
	}

	pending, err := h.transferService.GetForSigning(c.Request.Context(), c.Query("id"), identity.WrioID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondOK(c, SignTxResponse{
		Tx:     pending.UnsignedTx,
		To:     pending.DestWrioID,
		Amount: pending.Amount,
		WrioID: identity.WrioID,
		EthID:  requesterWallet(pending, identity.WrioID),
	})
}

func requesterWallet(p *transfer.PendingTransfer, wrioID string) string {
	if p.OriginWrioID == wrioID {
		return p.OriginWallet
	}
	return p.DestWallet
}

// Create builds an unsigned transfer from the caller to another account
func (h *TransferHandler) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondUnauthorized(c)
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid transfer request body", "error", err)
		RespondValidationError(c, "Invalid request body", bindingDetails(err))
		return
	}

	pending, err := h.transferService.CreateTransfer(c.Request.Context(), service.CreateTransferInput{
		OriginWrioID:   identity.WrioID,
		DestWrioID:     req.To,
		Amount:         req.Amount,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondCreated(c, TransferResponse{
		ID:     pending.ID,
		Tx:     pending.UnsignedTx,
		To:     pending.DestWrioID,
		Amount: pending.Amount,
	})
}
