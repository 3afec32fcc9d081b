package schedulers

import (
	"web-analytics/internal/shared/metrics"
)

var (
	metricTaskRunsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "scheduler",
			Name:      "task_runs_total",
		},
		[]string{"task", metrics.FieldErrorCode},
	)

	// metricTaskSkippedTotal counts ticks dropped because the previous run
	// of the task was still in progress.
	metricTaskSkippedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "scheduler",
			Name:      "task_skipped_total",
		},
		[]string{"task"},
	)

	metricTaskDurationSeconds = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "scheduler",
			Name:      "task_duration_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{"task"},
	)
)
