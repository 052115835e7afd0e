package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/wrio-webgold/webgold/internal/webgold_api/middleware"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

type FundsHandler struct {
	fundsService service.FundsService
	logger       *slog.Logger
}

func NewFundsHandler(logger *slog.Logger, fundsService service.FundsService) *FundsHandler {
	return &FundsHandler{
		fundsService: fundsService,
		logger:       logger,
	}
}

// AddFundsData always answers 200, with the degraded payload when rates are unavailable
func (h *FundsHandler) AddFundsData(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	data := h.fundsService.GetFundsData(c.Request.Context(), identity.WrioID, identity.Name)
	if data.Degraded {
		h.logger.Info("Add funds data served from static rate", "wrio_id", identity.WrioID)
	}

	RespondOK(c, FundsResponse{
		Username:        data.Username,
		LoginURL:        data.LoginURL,
		Balance:         optionalNumeric(data.Balance),
		GrammPriceUSD:   optionalNumeric(data.GramPriceUSD),
		BTCToWRGRate:    optionalNumeric(data.BTCToWRGRate),
		BTCExchangeRate: optionalNumeric(data.BTCExchangeRate),
		ExchangeRate:    numeric(data.ExchangeRate),
	})
}
