// Package metrics provides the centralized Prometheus metrics registry for the dashboard backend.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "superquote",
		Name:      "analyses_total",
		Help:      "Total number of completed analyses by verdict",
	}, []string{"verdict"})
	AnalysesDiscardedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "superquote",
		Name:      "analyses_discarded_total",
		Help:      "Total number of stale analysis runs discarded by the orchestrator",
	})
	RepositoryErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "superquote",
		Name:      "repository_errors_total",
		Help:      "Total number of repository query failures",
	})
	PlaysCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "superquote",
		Name:      "plays_created_total",
		Help:      "Total number of plays logged",
	})
	LoginFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "superquote",
		Name:      "login_failures_total",
		Help:      "Total number of rejected dashboard logins",
	})
)

// Gauge metrics
var (
	HistoricalMatchesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "superquote",
		Name:      "historical_matches_loaded",
		Help:      "Number of historical matches currently in the corpus",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "superquote",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of a full analysis run",
		Buckets:   prometheus.DefBuckets,
	})
	RepositoryQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "superquote",
		Name:      "repository_query_duration_seconds",
		Help:      "Duration of match repository queries",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})
)

// Registry returns the singleton metrics registry with all collectors registered
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			AnalysesTotal,
			AnalysesDiscardedTotal,
			RepositoryErrorsTotal,
			PlaysCreatedTotal,
			LoginFailuresTotal,
			HistoricalMatchesLoaded,
			AnalysisDuration,
			RepositoryQueryDuration,
		)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
