package streams

import (
	"context"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/loggers"
)

// EventArchiveProducer hands sanitized events to the archive queue on their
// way to the durable event store.
//
// Events are partitioned by session ID, so every event of one session lands
// in the same partition and is archived in arrival order by a single worker.
// Different sessions spread across partitions for throughput.
//
//go:generate mockgen -source=event_archive_producer.go -destination=./mocks/event_archive_producer_mock.go -package=mocks
type EventArchiveProducer interface {
	Produce(ctx context.Context, event *models.Event) error
}

type eventArchiveProducer struct {
	queue *PartitionedQueue[*models.Event]
}

func NewEventArchiveProducer(queue *PartitionedQueue[*models.Event]) EventArchiveProducer {
	return &eventArchiveProducer{queue: queue}
}

// Produce enqueues without ever blocking the caller. When a partition's
// buffer is full (consumer stalled on a slow store), the event is dropped
// and counted rather than parking an ingest request on the channel.
func (producer *eventArchiveProducer) Produce(ctx context.Context, event *models.Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !producer.queue.TryPublish(event.SessionID, event) {
		loggers.Ctx(ctx).Warn().
			Str(loggers.FieldSessionID, event.SessionID).
			Msg("archive partition full, dropping event")
		metricArchiveDroppedTotal.WithLabelValues(streamEventArchive).Inc()
		return nil
	}

	metricArchivePublishedTotal.WithLabelValues(streamEventArchive).Inc()
	return nil
}
