package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchpulse",
			Subsystem: "analysis_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matchpulse",
			Subsystem: "analysis_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Upstream LLM calls per endpoint path outcome
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchpulse",
			Subsystem: "analysis_api",
			Name:      "upstream_calls_total",
			Help:      "Total LLM completion calls",
		},
		[]string{"path", "outcome"},
	)

	// LLM call duration
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matchpulse",
			Subsystem: "analysis_api",
			Name:      "upstream_duration_seconds",
			Help:      "LLM completion call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	// Analyses by sport and degradation state
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchpulse",
			Subsystem: "analysis_api",
			Name:      "analyses_total",
			Help:      "Total analysis requests",
		},
		[]string{"sport", "degraded"},
	)

	// Persistence write failures that were converted to degraded responses
	PersistenceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchpulse",
			Subsystem: "analysis_api",
			Name:      "persistence_failures_total",
			Help:      "Total swallowed persistence failures",
		},
		[]string{"entity"},
	)

	// Document fetches during search
	DocumentFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchpulse",
			Subsystem: "analysis_api",
			Name:      "document_fetches_total",
			Help:      "Total search document fetches",
		},
		[]string{"source", "outcome"},
	)

	// Chat exchanges completed
	ChatExchangesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "matchpulse",
			Subsystem: "analysis_api",
			Name:      "chat_exchanges_total",
			Help:      "Total completed chat exchanges",
		},
	)
)

// RecordRequest records a completed HTTP request.
func RecordRequest(method, endpoint string, status int, durationSec float64) {
	code := strconv.Itoa(status)
	RequestsTotal.WithLabelValues(method, endpoint, code).Inc()
	RequestDuration.WithLabelValues(method, endpoint, code).Observe(durationSec)
}

// RecordUpstreamCall records one completion attempt against an endpoint path.
func RecordUpstreamCall(path string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamCallsTotal.WithLabelValues(path, outcome).Inc()
}

// RecordAnalysis records an analysis request outcome.
func RecordAnalysis(sport string, degraded bool) {
	AnalysesTotal.WithLabelValues(sport, strconv.FormatBool(degraded)).Inc()
}

// RecordPersistenceFailure records a swallowed store write failure.
func RecordPersistenceFailure(entity string) {
	PersistenceFailuresTotal.WithLabelValues(entity).Inc()
}

// RecordDocumentFetch records a search document fetch outcome.
func RecordDocumentFetch(source string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	DocumentFetchesTotal.WithLabelValues(source, outcome).Inc()
}
