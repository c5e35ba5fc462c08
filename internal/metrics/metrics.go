// Package metrics exposes the Prometheus collectors for the tracker.
// Collectors are registered at package init; the /metrics endpoint is
// served by Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts requests served, labeled by method, chi route
	// pattern and status code. Route patterns keep the cardinality bounded.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomie_http_requests_total",
		Help: "HTTP requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration tracks request latency by method and route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roomie_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ExpensesCreated counts expenses created since process start.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomie_expenses_created_total",
		Help: "Expenses created since process start.",
	})

	// SettlementsRecorded counts settlement instructions materialized as
	// Settlement expenses.
	SettlementsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomie_settlements_recorded_total",
		Help: "Settlement instructions recorded since process start.",
	})
)

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
