// Package metrics defines Prometheus metrics for bazaar-watcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bazaar_watcher"

// HTTP metrics for the health/metrics server.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Watch loop metrics.
var (
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticks_total",
		Help:      "Total number of watch loop ticks.",
	})

	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tick_duration_seconds",
		Help:      "Duration of a single fetch/compare/alert tick in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	AboveTarget = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "above_target",
		Help:      "1 while an alert has fired for the current excursion, 0 otherwise.",
	})
)

// Bazaar API metrics.
var (
	BazaarRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bazaar_requests_total",
		Help:      "Total number of Bazaar API requests issued.",
	})

	FetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors_total",
		Help:      "Total number of failed price fetches.",
	})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of Bazaar API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	SellPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sell_price_coins",
		Help:      "Last observed quick-status sell price.",
	}, []string{"product"})
)

// Alert metrics.
var (
	AlertsFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of alerts fired.",
	})

	AlertsSuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_suppressed_total",
		Help:      "Total number of ticks at or above target that did not alert again.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of webhook deliveries in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)
