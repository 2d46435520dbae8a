package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart state transitions",
	}, []string{"action"})

	CartMutationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_failed_total",
		Help: "Total number of failed cart state transitions",
	}, []string{"reason"})

	CartRehydrationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_rehydrations_failed_total",
		Help: "Total number of persisted carts that failed to deserialize",
	})

	CheckoutsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_completed_total",
		Help: "Total number of completed checkouts",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_latency_seconds",
		Help:    "Latency of checkout processing including the settle delay",
		Buckets: prometheus.DefBuckets,
	})

	CatalogLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Total number of catalog loads",
	}, []string{"source"})

	CatalogLoadsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_failed_total",
		Help: "Total number of failed catalog loads",
	}, []string{"source"})

	ContactRelaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_relays_total",
		Help: "Total number of contact form submissions relayed",
	})

	ContactRelaysFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_relays_failed_total",
		Help: "Total number of contact form relay failures",
	})

	CurrencyChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "currency_changes_total",
		Help: "Total number of currency preference changes",
	}, []string{"currency"})

	StockReservationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reservations_failed_total",
		Help: "Total number of failed stock reservations",
	}, []string{"reason"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
