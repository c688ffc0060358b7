// Package metrics provides Prometheus metrics for the price oracle.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RateQueriesTotal is a counter of exchange-rate queries by outcome.
	RateQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_rate_queries_total",
			Help: "Total number of exchange rate queries",
		},
		[]string{"outcome"},
	)

	// RateQueryDuration is a histogram of exchange-rate query duration.
	RateQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exchange_rate_query_duration_seconds",
			Help:    "Duration of exchange rate queries",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SourceErrorsTotal is a counter of per-hop resolution failures by
	// source family.
	SourceErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_errors_total",
			Help: "Total number of source adapter failures",
		},
		[]string{"source"},
	)

	// RegistryUpdatesTotal is a counter of administrative registry updates.
	RegistryUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_updates_total",
			Help: "Total number of registration snapshot swaps",
		},
		[]string{"what"},
	)

	// HTTPRequestsTotal is a counter of total HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	// HTTPRequestDuration is a histogram of HTTP request latencies.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		RateQueriesTotal,
		RateQueryDuration,
		SourceErrorsTotal,
		RegistryUpdatesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// RecordRateQuery records one exchange-rate query.
func RecordRateQuery(ok bool, duration time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	RateQueriesTotal.WithLabelValues(outcome).Inc()
	RateQueryDuration.Observe(duration.Seconds())
}

// RecordSourceError records a per-hop source failure.
func RecordSourceError(source string) {
	SourceErrorsTotal.WithLabelValues(source).Inc()
}

// RecordRegistryUpdate records one administrative snapshot swap.
func RecordRegistryUpdate(what string) {
	RegistryUpdatesTotal.WithLabelValues(what).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Serve starts the metrics HTTP listener. It blocks until the server
// stops.
func Serve(addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
