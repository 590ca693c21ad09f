package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rankings rebuilder

var (
	// Store metrics
	StoreQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_rankings_store_queries_total",
			Help: "Total number of analytics store calls",
		},
		[]string{"backend", "operation", "status"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nfl_rankings_store_query_duration_seconds",
			Help:    "Duration of analytics store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nfl_rankings_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nfl_rankings_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Cache metrics
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nfl_rankings_cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Pipeline metrics
	PeriodsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_rankings_periods_total",
			Help: "Total number of season/week periods handled, by outcome",
		},
		[]string{"status"},
	)

	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_rankings_team_updates_total",
			Help: "Total number of team update payloads, by outcome",
		},
		[]string{"status"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_rankings_runs_total",
			Help: "Total number of rebuild runs",
		},
		[]string{"trigger", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nfl_rankings_run_duration_seconds",
			Help:    "Duration of rebuild runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"trigger"},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nfl_rankings_last_successful_run_timestamp",
			Help: "Timestamp of last successful rebuild run",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_rankings_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nfl_rankings_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordStoreQuery records an analytics store call
func RecordStoreQuery(backend, operation, status string, duration float64) {
	StoreQueriesTotal.WithLabelValues(backend, operation, status).Inc()
	StoreQueryDuration.WithLabelValues(backend, operation).Observe(duration)
}

// RecordCacheOperation records a cache operation duration
func RecordCacheOperation(operation string, duration float64) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordPeriod records the outcome of one period (processed, skipped, failed)
func RecordPeriod(status string) {
	PeriodsTotal.WithLabelValues(status).Inc()
}

// RecordUpdate records the outcome of one team update (written, failed, dry_run)
func RecordUpdate(status string) {
	UpdatesTotal.WithLabelValues(status).Inc()
}

// RecordRun records a rebuild run
func RecordRun(trigger, status string, duration float64) {
	RunsTotal.WithLabelValues(trigger, status).Inc()
	RunDuration.WithLabelValues(trigger).Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
