package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wrio-webgold/webgold/internal/domain/currency"
	"github.com/wrio-webgold/webgold/internal/webgold_api/middleware"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

// wrgDisplayPlaces matches the WRG minor unit
const wrgDisplayPlaces = 2

// HistoryHandler serves the caller's own transaction history
type HistoryHandler struct {
	historyService service.HistoryService
	logger         *slog.Logger
}

func NewHistoryHandler(logger *slog.Logger, historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// Transactions lists the caller's ledger mutations, newest first
func (h *HistoryHandler) Transactions(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondUnauthorized(c)
		return
	}

	var details []string
	limit, err := queryInt(c, "limit")
	if err != nil {
		details = append(details, "limit must be an integer")
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		details = append(details, "offset must be an integer")
	}
	if len(details) > 0 {
		RespondValidationError(c, "Invalid pagination", details)
		return
	}

	records, err := h.historyService.ListTransactions(c.Request.Context(), identity.WrioID, limit, offset)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	response := make([]TransactionResponse, 0, len(records))
	for _, r := range records {
		response = append(response, TransactionResponse{
			MutationID:    r.MutationID.String(),
			Kind:          string(r.Kind),
			WRGDelta:      r.WRGDelta,
			WRGAmount:     numericFixed(currency.WRGFromMinor(r.WRGDelta), wrgDisplayPlaces),
			ETHDelta:      r.ETHDelta,
			EthAccount:    r.EthAccount,
			Status:        string(r.Status),
			FailureReason: r.FailureReason,
			CreatedAt:     r.CreatedAt,
		})
	}
	RespondOK(c, response)
}

// queryInt reads an optional integer query parameter; absent means zero
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
