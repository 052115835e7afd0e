package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "quote"

// Oracle caches the latest quote of a Source. Concurrent refreshes collapse
// into a single fetch; a failed fetch falls back to the cached quote while it
// is younger than the staleness bound.
type Oracle struct {
	source       Source
	ttl          time.Duration
	maxStaleness time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger

	mu     sync.RWMutex
	cached *Quote
	group  singleflight.Group
	now    func() time.Time
}

func NewOracle(logger *slog.Logger, source Source, cfg *config.RatesConfig) *Oracle {
	return &Oracle{
		source:       source,
		ttl:          cfg.CacheTTL,
		maxStaleness: cfg.MaxStaleness,
		fetchTimeout: cfg.FetchTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// GetRates returns a quote no older than the cache TTL, refreshing when needed
func (o *Oracle) GetRates(ctx context.Context) (Quote, error) {
	if q, ok := o.cachedWithin(o.ttl); ok {
		return q, nil
	}

	// The fetch itself is detached from ctx; only this caller's wait is bounded by it.
	ch := o.group.DoChan(refreshKey, func() (interface{}, error) {
		return o.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Quote{}, res.Err
		}
		return res.Val.(Quote), nil
	case <-ctx.Done():
		if q, ok := o.cachedWithin(o.maxStaleness); ok {
			return q, nil
		}
		return Quote{}, fmt.Errorf("%w: %v", ErrRateUnavailable, ctx.Err())
	}
}

func (o *Oracle) cachedWithin(age time.Duration) (Quote, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.cached == nil || o.now().Sub(o.cached.FetchedAt) > age {
		return Quote{}, false
	}
	return *o.cached, true
}

func (o *Oracle) refresh(ctx context.Context) (Quote, error) {
	// another flight may have finished between the cache check and now
	if q, ok := o.cachedWithin(o.ttl); ok {
		return q, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
	defer cancel()

	q, err := o.source.FetchQuote(fetchCtx)
	if err != nil {
		metrics.RecordRateFetch(o.source.Name(), "error")
		if stale, ok := o.cachedWithin(o.maxStaleness); ok {
			metrics.RecordStaleRate()
			o.logger.Warn("Rate fetch failed, serving cached quote",
				"source", o.source.Name(),
				"fetched_at", stale.FetchedAt,
				"error", err)
			return stale, nil
		}
		o.logger.Error("Rate fetch failed and no usable cached quote", "source", o.source.Name(), "error", err)
		if !errors.Is(err, ErrRateUnavailable) {
			err = fmt.Errorf("%w: %v", ErrRateUnavailable, err)
		}
		return Quote{}, err
	}

	// stamp with the oracle clock so the age checks use one time base
	q.FetchedAt = o.now()

	o.mu.Lock()
	o.cached = &q
	o.mu.Unlock()

	metrics.RecordRateFetch(o.source.Name(), "success")
	o.logger.Debug("Refreshed market quote", "source", q.Source, "btc_usd", q.BTCUSD.String())
	return q, nil
}
