package realtime

import (
	"web-analytics/internal/shared/metrics"
)

var (
	metricSubscribers = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRealtime,
			Name:      "subscribers",
		},
	)

	metricMessagesSentTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRealtime,
			Name:      "messages_sent_total",
		},
		[]string{"message_type"},
	)

	// metricMessagesDroppedTotal counts messages discarded because a
	// subscriber's outbound queue was full.
	metricMessagesDroppedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRealtime,
			Name:      "messages_dropped_total",
		},
		[]string{"message_type"},
	)
)
