// Package metrics defines Prometheus metrics for the RUT dashboard API.
//
// All metrics are registered with the package Registry, which is served on
// /metrics by Handler.
//
// Metric naming follows Prometheus conventions:
//   - rutdashboard_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every metric exported by the service
var Registry = prometheus.NewRegistry()

var (
	// HTTPRequestsTotal counts handled requests by route, method and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rutdashboard_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDurationSeconds is a histogram of request latency by route.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rutdashboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// ExternalCallsTotal counts external RUT service calls by outcome.
	ExternalCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rutdashboard_external_calls_total",
			Help: "Total number of external RUT service calls by outcome.",
		},
		[]string{"outcome"},
	)

	// ExternalCallDurationSeconds is a histogram of external call latency.
	ExternalCallDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rutdashboard_external_call_duration_seconds",
			Help:    "Duration of external RUT service calls in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"outcome"},
	)

	// LoginAttemptsTotal counts login attempts by result.
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rutdashboard_login_attempts_total",
			Help: "Total number of administrator login attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		ExternalCallsTotal,
		ExternalCallDurationSeconds,
		LoginAttemptsTotal,
	)
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// ObserveHTTPRequest records one handled HTTP request.
func ObserveHTTPRequest(route, method, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveExternalCall records one external RUT service call.
func ObserveExternalCall(outcome string, duration time.Duration) {
	ExternalCallsTotal.WithLabelValues(outcome).Inc()
	ExternalCallDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordLogin records a single login attempt.
func RecordLogin(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}
