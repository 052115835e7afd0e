package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webgold_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webgold_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RateFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webgold_rate_fetches_total",
			Help: "Total number of external exchange rate fetches",
		},
		[]string{"source", "outcome"},
	)

	RateStaleServedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webgold_rate_stale_served_total",
			Help: "Number of times a cached rate was served after a failed refresh",
		},
	)

	FundsFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webgold_funds_fallbacks_total",
			Help: "Number of funds data responses degraded to the static exchange rate",
		},
	)

	MutationsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webgold_ledger_mutations_total",
			Help: "Total number of ledger mutations processed",
		},
		[]string{"kind", "status"},
	)

	EtherFeedsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webgold_ether_feeds_total",
			Help: "Total number of ether feed mutations scheduled",
		},
	)

	TransfersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webgold_pending_transfers_created_total",
			Help: "Total number of pending transfers created for signing",
		},
	)

	OutboxPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webgold_outbox_messages_total",
			Help: "Outbox messages handled by the poller",
		},
		[]string{"outcome"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRateFetch(source, outcome string) {
	RateFetchesTotal.WithLabelValues(source, outcome).Inc()
}

func RecordStaleRate() {
	RateStaleServedTotal.Inc()
}

func RecordFundsFallback() {
	FundsFallbacksTotal.Inc()
}

func RecordMutation(kind, status string) {
	MutationsProcessedTotal.WithLabelValues(kind, status).Inc()
}

func RecordEtherFeed() {
	EtherFeedsTotal.Inc()
}

func RecordTransferCreated() {
	TransfersCreatedTotal.Inc()
}

func RecordOutboxMessage(outcome string) {
	OutboxPublishedTotal.WithLabelValues(outcome).Inc()
}
