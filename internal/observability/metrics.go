package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesTotal   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "nemt_pricing", Name: "quotes_total", Help: "Total number of quotes produced"})
	QuoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "nemt_pricing", Name: "quote_duration_seconds", Help: "Quote computation latency"})
	HolidayQuotes = promauto.NewCounter(prometheus.CounterOpts{Namespace: "nemt_pricing", Name: "holiday_quotes_total", Help: "Quotes carrying a holiday surcharge"})

	// DegradedLookups counts quotes that fell back to an estimate or default
	// because a collaborator was unavailable; stage is distance or jurisdiction.
	DegradedLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nemt_pricing", Name: "degraded_lookups_total", Help: "Collaborator lookups that degraded to a fallback"},
		[]string{"stage"},
	)

	DepositsHeld = promauto.NewCounter(prometheus.CounterOpts{Namespace: "nemt_pricing", Name: "deposits_held_total", Help: "Stripe deposit holds placed"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nemt_pricing", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nemt_pricing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
