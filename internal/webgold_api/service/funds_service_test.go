package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/metrics"
	"github.com/wrio-webgold/webgold/internal/rates"
)

func newFundsService(accounts *MockAccountRepository, provider *MockRateProvider) FundsService {
	return NewFundsService(newTestLogger(), accounts, provider,
		&config.PaymentConfig{
			GramPriceUSD:       decimal.RequireFromString("50"),
			StaticExchangeRate: decimal.RequireFromString("40"),
		},
		&config.AuthConfig{LoginURL: "https://login.wrioos.com/"},
	)
}

func TestFundsServiceImpl_GetFundsData(t *testing.T) {
	ctx := context.Background()
	quote := rates.Quote{
		BTCUSD:    decimal.RequireFromString("50000"),
		ETHUSD:    decimal.RequireFromString("2500"),
		FetchedAt: time.Now(),
		Source:    rates.ProviderBlockchain,
	}

	t.Run("Live", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		provider := new(MockRateProvider)
		svc := newFundsService(accounts, provider)

		provider.On("GetRates", ctx).Return(quote, nil).Once()
		accounts.On("GetByWrioID", ctx, "U1").Return(&account.LedgerAccount{WrioID: "U1", WRGBalance: 1234}, nil).Once()

		data := svc.GetFundsData(ctx, "U1", "Alice")
		assert.False(t, data.Degraded)
		assert.Equal(t, "Alice", data.Username)
		assert.Equal(t, "https://login.wrioos.com/", data.LoginURL)
		require.NotNil(t, data.Balance)
		assert.True(t, decimal.RequireFromString("12.34").Equal(*data.Balance))
		require.NotNil(t, data.BTCToWRGRate)
		assert.True(t, decimal.RequireFromString("0.001").Equal(*data.BTCToWRGRate))
		require.NotNil(t, data.BTCExchangeRate)
		assert.True(t, decimal.RequireFromString("0.001").Equal(*data.BTCExchangeRate))
		assert.True(t, decimal.RequireFromString("50").Equal(data.ExchangeRate))
		assert.True(t, decimal.RequireFromString("50").Equal(*data.GramPriceUSD))
	})

	t.Run("NoAccountYet", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		provider := new(MockRateProvider)
		svc := newFundsService(accounts, provider)

		provider.On("GetRates", ctx).Return(quote, nil).Once()
		accounts.On("GetByWrioID", ctx, "U2").Return(nil, account.ErrAccountNotFound{WrioID: "U2"}).Once()

		data := svc.GetFundsData(ctx, "U2", "Bob")
		assert.False(t, data.Degraded)
		require.NotNil(t, data.Balance)
		assert.True(t, data.Balance.IsZero())
	})

	t.Run("RatesUnavailable", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		provider := new(MockRateProvider)
		svc := newFundsService(accounts, provider)
		before := testutil.ToFloat64(metrics.FundsFallbacksTotal)

		provider.On("GetRates", ctx).Return(rates.Quote{}, rates.ErrRateUnavailable).Once()

		data := svc.GetFundsData(ctx, "U1", "Alice")
		assert.True(t, data.Degraded)
		assert.Equal(t, "Alice", data.Username)
		assert.Nil(t, data.Balance)
		assert.Nil(t, data.BTCToWRGRate)
		assert.Nil(t, data.BTCExchangeRate)
		assert.True(t, decimal.RequireFromString("40").Equal(data.ExchangeRate))
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.FundsFallbacksTotal))
		accounts.AssertNotCalled(t, "GetByWrioID", mock.Anything, mock.Anything)
	})

	t.Run("BalanceLookupFails", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		provider := new(MockRateProvider)
		svc := newFundsService(accounts, provider)

		provider.On("GetRates", ctx).Return(quote, nil).Once()
		accounts.On("GetByWrioID", ctx, "U1").Return(nil, errors.New("db down")).Once()

		data := svc.GetFundsData(ctx, "U1", "Alice")
		assert.True(t, data.Degraded)
		assert.Nil(t, data.Balance)
	})

	t.Run("ZeroMarketRate", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		provider := new(MockRateProvider)
		svc := newFundsService(accounts, provider)

		provider.On("GetRates", ctx).Return(rates.Quote{BTCUSD: decimal.Zero}, nil).Once()

		data := svc.GetFundsData(ctx, "U1", "Alice")
		assert.True(t, data.Degraded)
	})
}
