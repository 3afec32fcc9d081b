package rollups

import (
	"context"
	"time"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/configs"
	"web-analytics/internal/shared/loggers"
	"web-analytics/internal/shared/metrics"
	"web-analytics/internal/shared/svcerrors"
	"web-analytics/internal/stores"
)

//go:generate mockgen -source=rollup_service.go -destination=./mocks/rollup_service_mock.go -package=mocks
type RollupService interface {
	// RunRollup recomputes the most recently closed window of the
	// granularity from the event archive and upserts its record. Rerunning
	// the same window overwrites the previous record with identical content.
	RunRollup(ctx context.Context, granularity models.Granularity, asOf time.Time) *svcerrors.ServiceError

	// EnforceRetention deletes archived events and rollup records older
	// than the retention horizon.
	EnforceRetention(ctx context.Context, asOf time.Time) *svcerrors.ServiceError
}

type rollupService struct {
	eventStore  stores.EventStore
	rollupStore stores.RollupStore
	calculator  RollupCalculator

	queryTimeout  time.Duration
	retention     time.Duration
	granularities []models.Granularity
}

func NewRollupService(
	cfg configs.RollupConfig,
	granularities []models.Granularity,
	eventStore stores.EventStore,
	rollupStore stores.RollupStore,
	calculator RollupCalculator,
) RollupService {
	return &rollupService{
		eventStore:    eventStore,
		rollupStore:   rollupStore,
		calculator:    calculator,
		queryTimeout:  time.Duration(cfg.QueryTimeoutSeconds) * time.Second,
		retention:     time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		granularities: granularities,
	}
}

func (s *rollupService) RunRollup(ctx context.Context, granularity models.Granularity, asOf time.Time) *svcerrors.ServiceError {
	windowStart, windowEnd := granularity.Window(asOf)
	logger := loggers.Ctx(ctx).With().
		Str(loggers.FieldGranularity, string(granularity)).
		Logger()

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	events, err := s.eventStore.Query(queryCtx, windowStart, windowEnd)
	if err != nil {
		svcErr := errInternalEventQueryFailed(err)
		metricRollupRunsTotal.WithLabelValues(string(granularity), svcErr.Code).Inc()
		return svcErr
	}

	record := s.calculator.Calculate(granularity, windowStart, windowEnd, events)

	if err := s.rollupStore.Upsert(ctx, record); err != nil {
		svcErr := errInternalRollupUpsertFailed(err)
		metricRollupRunsTotal.WithLabelValues(string(granularity), svcErr.Code).Inc()
		return svcErr
	}

	metricRollupRunsTotal.WithLabelValues(string(granularity), metrics.ValueNoError).Inc()
	metricRollupEventsProcessed.WithLabelValues(string(granularity)).Add(float64(len(events)))
	logger.Debug().
		Time("window_start", windowStart).
		Int("events", len(events)).
		Msg("rollup window computed")
	return nil
}

func (s *rollupService) EnforceRetention(ctx context.Context, asOf time.Time) *svcerrors.ServiceError {
	cutoff := asOf.Add(-s.retention)

	removed, err := s.eventStore.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return errInternalRetentionFailed(err)
	}

	deletedRecords := 0
	for _, granularity := range s.granularities {
		deleted, err := s.rollupStore.DeleteOlderThan(ctx, granularity, cutoff)
		if err != nil {
			return errInternalRetentionFailed(err)
		}
		deletedRecords += deleted
	}

	loggers.Ctx(ctx).Info().
		Int64("events_removed", removed).
		Int("rollups_removed", deletedRecords).
		Time("cutoff", cutoff).
		Msg("retention enforced")
	return nil
}
