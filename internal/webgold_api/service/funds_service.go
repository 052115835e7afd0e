package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/currency"
	"github.com/wrio-webgold/webgold/internal/metrics"
)

// FundsServiceImpl implements the FundsService interface
type FundsServiceImpl struct {
	accountRepo  account.Repository
	rates        RateProvider
	gramPriceUSD decimal.Decimal
	staticRate   decimal.Decimal
	loginURL     string
	logger       *slog.Logger
}

func NewFundsService(
	logger *slog.Logger,
	accountRepo account.Repository,
	rates RateProvider,
	paymentCfg *config.PaymentConfig,
	authCfg *config.AuthConfig,
) FundsService {
	return &FundsServiceImpl{
		accountRepo:  accountRepo,
		rates:        rates,
		gramPriceUSD: paymentCfg.GramPriceUSD,
		staticRate:   paymentCfg.StaticExchangeRate,
		loginURL:     authCfg.LoginURL,
		logger:       logger,
	}
}

// GetFundsData returns live rates and balance, or the static-rate payload when
// any of them cannot be produced
func (s *FundsServiceImpl) GetFundsData(ctx context.Context, wrioID, username string) FundsData {
	data := FundsData{
		Username:     username,
		LoginURL:     s.loginURL,
		ExchangeRate: s.staticRate,
	}

	if err := s.fillLive(ctx, wrioID, &data); err != nil {
		s.logger.Warn("Serving degraded funds data", "wrio_id", wrioID, "error", err)
		metrics.RecordFundsFallback()
		return FundsData{
			Username:     username,
			LoginURL:     s.loginURL,
			ExchangeRate: s.staticRate,
			Degraded:     true,
		}
	}
	return data
}

func (s *FundsServiceImpl) fillLive(ctx context.Context, wrioID string, data *FundsData) error {
	quote, err := s.rates.GetRates(ctx)
	if err != nil {
		return err
	}

	snapshot, err := currency.NewSnapshot(s.gramPriceUSD, quote.BTCUSD, quote.ETHUSD, quote.Source, quote.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to build rate snapshot: %w", err)
	}

	oneWRGInBTC, err := currency.ConvertWRGtoBTC(decimal.NewFromInt(1), snapshot.WRGToBTC)
	if err != nil {
		return err
	}

	balance := decimal.Zero
	acc, err := s.accountRepo.GetByWrioID(ctx, wrioID)
	switch {
	case err == nil:
		balance = currency.WRGFromMinor(acc.WRGBalance)
	case errors.Is(err, account.ErrAccountNotFound{}):
	default:
		return err
	}

	gram := s.gramPriceUSD
	data.Balance = &balance
	data.GramPriceUSD = &gram
	data.BTCToWRGRate = &snapshot.WRGToBTC
	data.BTCExchangeRate = &oneWRGInBTC
	data.ExchangeRate = gram
	return nil
}
