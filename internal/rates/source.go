// Package rates fetches BTC and ETH market prices and caches them for the
// exchange-rate chain.
package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/wrio-webgold/webgold/internal/config"
)

const (
	ProviderBlockchain = "blockchain"
	ProviderCoinGecko  = "coingecko"
)

// ErrRateUnavailable is returned when no usable market rate can be produced
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Quote is one market observation in USD
type Quote struct {
	BTCUSD    decimal.Decimal
	ETHUSD    decimal.Decimal // zero when the source has no ETH price
	FetchedAt time.Time
	Source    string
}

// Source fetches a fresh quote from a market data provider
type Source interface {
	Name() string
	FetchQuote(ctx context.Context) (Quote, error)
}

// NewSource builds the source selected by cfg.Provider
func NewSource(logger *slog.Logger, cfg *config.RatesConfig) (Source, error) {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.FetchTimeout).
		SetHeader("Accept", "application/json")

	switch cfg.Provider {
	case ProviderBlockchain:
		return NewBlockchainInfoSource(logger, client), nil
	case ProviderCoinGecko:
		return NewCoinGeckoSource(logger, client, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown rate provider %q", cfg.Provider)
	}
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRateUnavailable, fmt.Sprintf(format, args...))
}

// BlockchainInfoSource reads the BTC ticker of blockchain.info
type BlockchainInfoSource struct {
	client *resty.Client
	logger *slog.Logger
}

func NewBlockchainInfoSource(logger *slog.Logger, client *resty.Client) *BlockchainInfoSource {
	return &BlockchainInfoSource{client: client, logger: logger}
}

func (s *BlockchainInfoSource) Name() string { return ProviderBlockchain }

type tickerEntry struct {
	Last decimal.Decimal `json:"last"`
}

func (s *BlockchainInfoSource) FetchQuote(ctx context.Context) (Quote, error) {
	var ticker map[string]tickerEntry

	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&ticker).
		Get("/ticker")
	if err != nil {
		return Quote{}, unavailable("ticker request failed: %v", err)
	}
	if resp.IsError() {
		return Quote{}, unavailable("ticker returned status %d", resp.StatusCode())
	}

	usd, ok := ticker["USD"]
	if !ok || !usd.Last.IsPositive() {
		return Quote{}, unavailable("ticker has no positive USD rate")
	}

	return Quote{BTCUSD: usd.Last, FetchedAt: time.Now().UTC(), Source: s.Name()}, nil
}

// CoinGeckoSource reads BTC and ETH prices from the CoinGecko simple price API
type CoinGeckoSource struct {
	client *resty.Client
	apiKey string
	logger *slog.Logger
}

func NewCoinGeckoSource(logger *slog.Logger, client *resty.Client, apiKey string) *CoinGeckoSource {
	return &CoinGeckoSource{client: client, apiKey: apiKey, logger: logger}
}

func (s *CoinGeckoSource) Name() string { return ProviderCoinGecko }

func (s *CoinGeckoSource) FetchQuote(ctx context.Context) (Quote, error) {
	var prices map[string]map[string]decimal.Decimal

	req := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           "bitcoin,ethereum",
			"vs_currencies": "usd",
		}).
		SetResult(&prices)
	if s.apiKey != "" {
		req.SetHeader("x-cg-demo-api-key", s.apiKey)
	}

	resp, err := req.Get("/api/v3/simple/price")
	if err != nil {
		return Quote{}, unavailable("price request failed: %v", err)
	}
	if resp.IsError() {
		return Quote{}, unavailable("price API returned status %d", resp.StatusCode())
	}

	btc := prices["bitcoin"]["usd"]
	if !btc.IsPositive() {
		return Quote{}, unavailable("price API has no positive bitcoin rate")
	}

	q := Quote{BTCUSD: btc, FetchedAt: time.Now().UTC(), Source: s.Name()}
	if eth := prices["ethereum"]["usd"]; eth.IsPositive() {
		q.ETHUSD = eth
	} else {
		s.logger.Warn("Price API returned no ethereum rate")
	}
	return q, nil
}
