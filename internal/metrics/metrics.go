// Package metrics defines the Prometheus collectors for the fetch pipeline,
// the scheduler and the read API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entsoe_fetch_attempts_total",
		Help: "Zone fetch attempts by outcome",
	}, []string{"zone", "status"})

	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entsoe_fetch_errors_total",
		Help: "Zone fetch errors by type",
	}, []string{"zone", "error_type"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entsoe_fetch_duration_seconds",
		Help:    "Duration of a single zone fetch including retries",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"zone"})

	rateLimitWaits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entsoe_rate_limit_waits_total",
		Help: "Times a fetch had to wait for the outbound rate limiter",
	})

	gapsFilled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entsoe_gaps_filled_total",
		Help: "Period positions forward-filled due to gaps in the publication",
	}, []string{"zone"})

	zonesWithTomorrowData = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "entsoe_zones_with_tomorrow_data",
		Help: "Zones that already have tomorrow's prices stored",
	})

	schedulerJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_job_executions_total",
		Help: "Scheduler job executions by result",
	}, []string{"job", "result"})

	schedulerJobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_job_duration_seconds",
		Help:    "Duration of scheduler job executions",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"job"})
)

func RecordFetchAttempt(zone, status string) {
	fetchAttempts.WithLabelValues(zone, status).Inc()
}

func RecordFetchError(zone, errorType string) {
	fetchErrors.WithLabelValues(zone, errorType).Inc()
}

func RecordFetchDuration(zone string, d time.Duration) {
	fetchDuration.WithLabelValues(zone).Observe(d.Seconds())
}

func RecordRateLimitWait() {
	rateLimitWaits.Inc()
}

func RecordGapsFilled(zone string, n int) {
	gapsFilled.WithLabelValues(zone).Add(float64(n))
}

func SetZonesWithTomorrowData(n int) {
	zonesWithTomorrowData.Set(float64(n))
}

func RecordSchedulerJob(job, result string) {
	schedulerJobs.WithLabelValues(job, result).Inc()
}

func RecordSchedulerJobDuration(job string, d time.Duration) {
	schedulerJobDuration.WithLabelValues(job).Observe(d.Seconds())
}
