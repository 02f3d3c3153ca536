// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roi_calculations_total",
			Help: "Total number of calculations by calculator and outcome",
		},
		[]string{"calculator", "outcome"},
	)

	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roi_calculation_duration_seconds",
			Help:    "Duration of input parsing and calculation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		},
		[]string{"calculator"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CatalogLines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roi_catalog_active_lines",
			Help: "Number of active licensing line items",
		},
	)
)

// ObserveCalculation records one calculation.
func ObserveCalculation(calculator, outcome string, elapsed time.Duration) {
	CalculationsTotal.WithLabelValues(calculator, outcome).Inc()
	CalculationDuration.WithLabelValues(calculator).Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
