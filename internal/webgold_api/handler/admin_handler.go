package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/wrio-webgold/webgold/internal/domain/ledger"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

// etherDisplayPlaces is the number of decimals shown for scaled feed amounts
const etherDisplayPlaces = 2

// AdminHandler serves the read-only coin admin dashboard
type AdminHandler struct {
	adminService service.AdminService
	logger       *slog.Logger
}

func NewAdminHandler(logger *slog.Logger, adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// Master returns the master account balances and the current gas price
func (h *AdminHandler) Master(c *gin.Context) {
	stats, err := h.adminService.MasterStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondOK(c, MasterStatsResponse{
		ETHBalance: numeric(stats.ETHBalance),
		WRGBalance: numeric(stats.WRGBalance),
		GasPrice:   numeric(stats.GasPrice),
	})
}

// Entries returns a handler listing the accounts of one ledger view
func (h *AdminHandler) Entries(kind ledger.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := h.adminService.ListEntries(c.Request.Context(), kind)
		if err != nil {
			respondServiceError(c, h.logger, err)
			return
		}
		RespondOK(c, entries)
	}
}

func (h *AdminHandler) EtherFeeds(c *gin.Context) {
	feeds, err := h.adminService.ListEtherFeeds(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	response := make([]EtherFeedResponse, 0, len(feeds))
	for _, f := range feeds {
		response = append(response, EtherFeedResponse{
			Amount:        f.Amount,
			EthAccount:    f.EthAccount,
			Timestamp:     f.Timestamp,
			DisplayAmount: numericFixed(f.DisplayAmount, etherDisplayPlaces),
		})
	}
	RespondOK(c, response)
}
