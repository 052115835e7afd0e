// Package currency converts between WRG, USD, BTC and ETH with exact decimal arithmetic.
//
// One WRG is backed by one gram of gold, so its USD value is the configured gram price.
// Rates are expressed as "units of the target currency per one WRG".
package currency

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// WRGUnit is the number of minor units in one WRG
	WRGUnit = 100

	WRGPrecision  int32 = 2
	BTCPrecision  int32 = 8
	ETHPrecision  int32 = 18
	RatePrecision int32 = 18
)

var (
	ErrInvalidRate   = errors.New("rates must be strictly positive")
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// GetRate returns how many BTC one WRG is worth
func GetRate(gramPriceUSD, btcRateUSD decimal.Decimal) (decimal.Decimal, error) {
	return perWRG(gramPriceUSD, btcRateUSD)
}

// GetETHRate returns how many ETH one WRG is worth
func GetETHRate(gramPriceUSD, ethRateUSD decimal.Decimal) (decimal.Decimal, error) {
	return perWRG(gramPriceUSD, ethRateUSD)
}

func perWRG(gramPriceUSD, marketRateUSD decimal.Decimal) (decimal.Decimal, error) {
	if !gramPriceUSD.IsPositive() || !marketRateUSD.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return gramPriceUSD.DivRound(marketRateUSD, RatePrecision), nil
}

// ConvertWRGtoBTC converts a WRG amount to BTC. The amount is truncated to whole WRG minor
// units first, the result is rounded to satoshis.
func ConvertWRGtoBTC(amountWRG, wrgToBTC decimal.Decimal) (decimal.Decimal, error) {
	return convert(amountWRG, wrgToBTC, BTCPrecision)
}

// ConvertWRGtoETH converts a WRG amount to ETH, rounded to wei
func ConvertWRGtoETH(amountWRG, wrgToETH decimal.Decimal) (decimal.Decimal, error) {
	return convert(amountWRG, wrgToETH, ETHPrecision)
}

func convert(amount, rate decimal.Decimal, places int32) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	if !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return amount.Truncate(WRGPrecision).Mul(rate).Round(places), nil
}

// FromMinorUnits scales a stored integer amount for display
func FromMinorUnits(minor, divisor int64) decimal.Decimal {
	if divisor <= 0 {
		divisor = 1
	}
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(divisor))
}

// WRGFromMinor converts WRG minor units to whole tokens
func WRGFromMinor(minor int64) decimal.Decimal {
	return FromMinorUnits(minor, WRGUnit)
}

// Snapshot is one immutable set of exchange rates derived from a single market fetch
type Snapshot struct {
	GramPriceUSD decimal.Decimal
	BTCUSD       decimal.Decimal
	ETHUSD       decimal.Decimal // Zero when the source does not quote ETH
	WRGToBTC     decimal.Decimal
	WRGToETH     decimal.Decimal // Zero when ETHUSD is absent
	FetchedAt    time.Time
	Source       string
}

// NewSnapshot derives the WRG rates from the gram price and the market quote
func NewSnapshot(gramPriceUSD, btcUSD, ethUSD decimal.Decimal, source string, fetchedAt time.Time) (Snapshot, error) {
	wrgToBTC, err := GetRate(gramPriceUSD, btcUSD)
	if err != nil {
		return Snapshot{}, err
	}

	s := Snapshot{
		GramPriceUSD: gramPriceUSD,
		BTCUSD:       btcUSD,
		WRGToBTC:     wrgToBTC,
		FetchedAt:    fetchedAt,
		Source:       source,
	}

	if !ethUSD.IsZero() {
		wrgToETH, err := GetETHRate(gramPriceUSD, ethUSD)
		if err != nil {
			return Snapshot{}, err
		}
		s.ETHUSD = ethUSD
		s.WRGToETH = wrgToETH
	}

	return s, nil
}

// HasETH reports whether the snapshot carries an ETH rate
func (s Snapshot) HasETH() bool {
	return s.WRGToETH.IsPositive()
}
