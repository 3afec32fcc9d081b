package streams

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/loggers"
	"web-analytics/internal/shared/metrics"
	"web-analytics/internal/shared/svcerrors"
	"web-analytics/internal/shared/ulid"
	"web-analytics/internal/stores"
)

const (
	// Events drained from a partition in one pass are appended as a single batch.
	archiveBatchSize = 64

	// A store append that exceeds this is abandoned so a hung backend cannot
	// park the partition worker and back the queue up into ingest.
	archiveAppendTimeout = 10 * time.Second
)

//go:generate mockgen -source=event_archive_consumer.go -destination=./mocks/event_archive_consumer_mock.go -package=mocks
type EventArchiveConsumer interface {
	Start(ctx context.Context)
	Stop()
}

type eventArchiveConsumer struct {
	queue      *PartitionedQueue[*models.Event]
	eventStore stores.EventStore

	wg sync.WaitGroup

	stopOnce sync.Once
	stopCh   chan struct{}

	logger loggers.Logger
}

func NewEventArchiveConsumer(queue *PartitionedQueue[*models.Event], eventStore stores.EventStore, logger loggers.Logger) EventArchiveConsumer {
	return &eventArchiveConsumer{
		queue:      queue,
		eventStore: eventStore,
		stopCh:     make(chan struct{}),
		logger:     logger,
	}
}

// Start spawns 1 worker goroutine per partition.
// Each partition is a single-writer lane for the sessions routed to it.
func (consumer *eventArchiveConsumer) Start(ctx context.Context) {
	for partitionIndex := 0; partitionIndex < consumer.queue.PartitionCount(); partitionIndex++ {
		partitionIndex := partitionIndex
		ch := consumer.queue.partitions[partitionIndex]
		consumer.wg.Add(1)
		go func() {
			defer consumer.wg.Done()

			consumer.runPartitionWorker(ctx, partitionIndex, ch)
		}()
	}
}

// Stop waits for workers to stop (best called during app shutdown).
func (consumer *eventArchiveConsumer) Stop() {
	consumer.stopOnce.Do(func() { close(consumer.stopCh) })
	consumer.wg.Wait()
}

func (consumer *eventArchiveConsumer) runPartitionWorker(ctx context.Context, partitionIndex int, ch <-chan *models.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-consumer.stopCh:
			return
		case event := <-ch:
			batch := consumer.drainBatch(ch, event)
			consumer.archiveBatch(ctx, partitionIndex, batch)
		}
	}
}

// drainBatch collects whatever else is already queued behind the first event,
// up to the batch limit, without blocking.
func (consumer *eventArchiveConsumer) drainBatch(ch <-chan *models.Event, first *models.Event) []*models.Event {
	batch := make([]*models.Event, 0, archiveBatchSize)
	batch = append(batch, first)
	for len(batch) < archiveBatchSize {
		select {
		case event := <-ch:
			batch = append(batch, event)
		default:
			return batch
		}
	}
	return batch
}

// archiveBatch writes the batch to the event store. Archiving is best-effort:
// a store failure is logged and counted, the events are dropped and ingest is
// never blocked or failed retroactively.
func (consumer *eventArchiveConsumer) archiveBatch(ctx context.Context, partitionIndex int, batch []*models.Event) {
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("archive consumer panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}

			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricArchiveConsumedTotal.WithLabelValues(streamEventArchive, svcErr.Code).Add(float64(len(batch)))
		}
	}()

	ctx = consumer.logger.With().
		Str(loggers.FieldPartitionId, fmt.Sprintf("%d", partitionIndex)).
		Str(loggers.FieldRequestID, ulid.NewULID()).
		Logger().WithContext(ctx)

	appendCtx, cancel := context.WithTimeout(ctx, archiveAppendTimeout)
	defer cancel()

	if err := consumer.eventStore.Append(appendCtx, batch); err != nil {
		loggers.Ctx(ctx).Error().
			Err(err).
			Int("batch_size", len(batch)).
			Msg("failed to archive events, dropping batch")
		svcErr := errArchiveAppendFailed(err)
		metricArchiveConsumedTotal.WithLabelValues(streamEventArchive, svcErr.Code).Add(float64(len(batch)))
		return
	}
	metricArchiveConsumedTotal.WithLabelValues(streamEventArchive, metrics.ValueNoError).Add(float64(len(batch)))
}
