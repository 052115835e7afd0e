package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/webgold_api/middleware"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

// UserHandler serves the caller's own session and account
type UserHandler struct {
	accountService service.AccountService
	authCfg        *config.AuthConfig
	logger         *slog.Logger
}

func NewUserHandler(logger *slog.Logger, accountService service.AccountService, authCfg *config.AuthConfig) *UserHandler {
	registerValidators()
	return &UserHandler{
		accountService: accountService,
		authCfg:        authCfg,
		logger:         logger,
	}
}

// GetUser returns the identity and opens a ledger account on first use
func (h *UserHandler) GetUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondUnauthorized(c)
		return
	}

	acc, err := h.accountService.EnsureAccount(c.Request.Context(), identity.WrioID, identity.Name)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondOK(c, UserResponse{User: userInfo(identity, acc)})
}

// Logoff clears the session cookie on the work domain
func (h *UserHandler) Logoff(c *gin.Context) {
	c.SetCookie(h.authCfg.CookieName, "", -1, "/", h.authCfg.WorkDomain, false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *UserHandler) CreateWallet(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondUnauthorized(c)
		return
	}

	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidationError(c, "Invalid request body", bindingDetails(err))
		return
	}

	acc, err := h.accountService.AssignWallet(c.Request.Context(), identity.WrioID, identity.Name, req.EthWallet)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	RespondOK(c, UserResponse{User: userInfo(identity, acc)})
}

func userInfo(identity middleware.Identity, acc *account.LedgerAccount) UserInfo {
	return UserInfo{
		WrioID:     identity.WrioID,
		Name:       identity.Name,
		Admin:      identity.Admin,
		EthWallet:  acc.EthWallet,
		WRGBalance: acc.WRGBalance,
		ETHBalance: acc.ETHBalance,
	}
}
