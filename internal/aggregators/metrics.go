package aggregators

import (
	"web-analytics/internal/shared/metrics"
)

var (
	// metricEventsIngestedTotal counts events folded into live state, by kind.
	// The error_code label is empty on success and carries the service error
	// code when the archive hand-off failed.
	metricEventsIngestedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "events_ingested_total",
		},
		[]string{"event_kind", metrics.FieldErrorCode},
	)

	metricSnapshotsBuiltTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "snapshots_built_total",
		},
	)

	metricOnlineUsers = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "online_users",
		},
	)

	metricCurrentSessions = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "current_sessions",
		},
	)

	// metricKVMirrorFailuresTotal counts best-effort key-value mirror writes
	// that were dropped, by operation.
	metricKVMirrorFailuresTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "kv_mirror_failures_total",
		},
		[]string{"operation"},
	)
)
