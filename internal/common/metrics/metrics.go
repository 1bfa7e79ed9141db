// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AuditsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_audits_generated_total",
			Help: "Audit reports generated, by benchmark industry and source",
		},
		[]string{"industry", "source"},
	)

	AuditOverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lifecycle_audit_overall_score",
			Help:    "Distribution of overall audit scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	AuditCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_audit_cache_lookups_total",
			Help: "Audit cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	CalculatorRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculator_runs_total",
			Help: "Calculator executions by name and status",
		},
		[]string{"calculator", "status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency by route pattern",
		},
		[]string{"route"},
	)
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// RecordAudit records a generated report.
func RecordAudit(industry, source string, overallScore int) {
	AuditsGenerated.WithLabelValues(industry, source).Inc()
	AuditOverallScore.Observe(float64(overallScore))
}

func RecordJobCompleted(taskType string, started time.Time) {
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(started).Seconds())
}

func RecordJobFailed(taskType, errorCode string, started time.Time) {
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(started).Seconds())
}
