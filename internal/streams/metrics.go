package streams

import (
	"web-analytics/internal/shared/metrics"
)

var (
	streamEventArchive          = "event_archive"
	metricArchivePublishedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "event_archive_published_total",
		},
		[]string{"stream_id"},
	)

	metricArchiveDroppedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "event_archive_dropped_total",
		},
		[]string{"stream_id"},
	)

	metricArchiveConsumedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "event_archive_consumed_total",
		},
		[]string{"stream_id", metrics.FieldErrorCode},
	)
)
