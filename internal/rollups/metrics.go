package rollups

import (
	"web-analytics/internal/shared/metrics"
)

var (
	// metricRollupRunsTotal counts rollup window computations per
	// granularity. The error_code label is empty on success.
	metricRollupRunsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRollup,
			Name:      "runs_total",
		},
		[]string{"granularity", metrics.FieldErrorCode},
	)

	metricRollupEventsProcessed = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRollup,
			Name:      "events_processed_total",
		},
		[]string{"granularity"},
	)
)
