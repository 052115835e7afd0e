package webgold_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/ledger"
	"github.com/wrio-webgold/webgold/internal/webgold_api/handler"
	"github.com/wrio-webgold/webgold/internal/webgold_api/middleware"
)

// rateLimitVisitorTTL is how long an idle client keeps its token bucket
const rateLimitVisitorTTL = 10 * time.Minute

type handlers struct {
	admin    *handler.AdminHandler
	transfer *handler.TransferHandler
	funds    *handler.FundsHandler
	user     *handler.UserHandler
	history  *handler.HistoryHandler
}

// setupRouter configures API routes and middleware for the application. The
// returned limiter must be stopped on shutdown.
func setupRouter(logger *slog.Logger, r *gin.Engine, cfg *config.Config, h handlers) *middleware.RateLimiter {
	// Same-origin deployments leave the origin list empty
	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader, handler.IdempotencyKeyHeader},
			ExposeHeaders:    []string{middleware.CorrelationIDHeader},
			AllowCredentials: true,
		}))
	}
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("/", middleware.Auth(&cfg.Auth))

	// Coin admin dashboard
	admin := authed.Group("/api/webgold/coinadmin", middleware.RequireAdmin())
	{
		admin.GET("/master", h.admin.Master)
		admin.GET("/users", h.admin.Entries(ledger.KindBalance))
		admin.GET("/emissions", h.admin.Entries(ledger.KindEmission))
		admin.GET("/donations", h.admin.Entries(ledger.KindDonation))
		admin.GET("/prepayments", h.admin.Entries(ledger.KindPrePayment))
		admin.GET("/etherfeeds", h.admin.EtherFeeds)
	}

	// The funds page degrades instead of failing, so it is never throttled
	authed.GET("/add_funds_data", h.funds.AddFundsData)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, rateLimitVisitorTTL)
	user := authed.Group("/", middleware.RateLimit(limiter))
	{
		user.GET("/sign_tx", h.transfer.SignTx)
		user.POST("/api/webgold/transfers", h.transfer.Create)
		user.GET("/api/webgold/transactions", h.history.Transactions)
		user.GET("/get_user", h.user.GetUser)
		user.GET("/logoff", h.user.Logoff)
		user.POST("/create_wallet", h.user.CreateWallet)
	}

	return limiter
}
