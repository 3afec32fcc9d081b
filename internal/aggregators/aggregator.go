package aggregators

import (
	"context"
	"fmt"
	"sync"
	"time"

	"web-analytics/internal/counters"
	"web-analytics/internal/models"
	"web-analytics/internal/sessions"
	"web-analytics/internal/shared/configs"
	"web-analytics/internal/shared/loggers"
	"web-analytics/internal/shared/metrics"
	"web-analytics/internal/shared/svcerrors"
	"web-analytics/internal/stores"
	"web-analytics/internal/streams"
)

// Windowed counter metric names. Prefixed families group per-feature and
// per-country counters so the snapshot can sum them as a unit.
const (
	metricEvents = "events"
	metricErrors = "errors"

	kindMetricPrefix    = "kind:"
	featureMetricPrefix = "feature:"
	geoMetricPrefix     = "geo:"
)

const (
	responseTimeSampleSize = 20
	snapshotRecentEvents   = 10

	kvCounterKeyPrefix = "analytics:counter:"
)

// EventNotifier receives fire-and-forget notifications about freshly ingested
// events. Implementations must never block the caller.
type EventNotifier interface {
	NotifyEvent(event *models.Event)
}

type noopEventNotifier struct{}

func (noopEventNotifier) NotifyEvent(*models.Event) {}

// NewNoopEventNotifier returns an EventNotifier that discards everything.
func NewNoopEventNotifier() EventNotifier { return noopEventNotifier{} }

// RealTimeAggregator folds sanitized events into the live state the dashboard
// reads: session trackers, windowed counters and the recent-events ring.
//
//go:generate mockgen -source=aggregator.go -destination=./mocks/aggregator_mock.go -package=mocks
type RealTimeAggregator interface {
	// Ingest folds one event into live state. Collaborator failures (archive
	// stream, key-value mirror) degrade to logged best-effort; the in-memory
	// state always advances.
	Ingest(ctx context.Context, event *models.Event) *svcerrors.ServiceError

	// Snapshot returns the dashboard view as of now. Results are briefly
	// cached; a snapshot is never an error, even with every backend down.
	Snapshot(ctx context.Context, now time.Time) *models.AggregateSnapshot

	// Sweep evicts idle sessions and counters outside the retention horizon.
	// Called on a fixed period by the scheduler.
	Sweep(ctx context.Context, now time.Time)
}

type realTimeAggregator struct {
	activity *sessions.Tracker // who is online right now
	registry *sessions.Tracker // running per-session state until end/expiry
	counters *counters.WindowedCounterStore

	archiveProducer streams.EventArchiveProducer
	kvStore         stores.KeyValueStore
	notifier        EventNotifier

	realtimeCfg configs.RealtimeConfig
	healthCfg   configs.HealthConfig

	mu             sync.Mutex
	recent         *ringBuffer
	cachedSnapshot *models.AggregateSnapshot
	cachedAt       time.Time
}

func NewRealTimeAggregator(
	realtimeCfg configs.RealtimeConfig,
	healthCfg configs.HealthConfig,
	archiveProducer streams.EventArchiveProducer,
	kvStore stores.KeyValueStore,
	notifier EventNotifier,
) RealTimeAggregator {
	return &realTimeAggregator{
		activity:        sessions.NewTracker(time.Duration(realtimeCfg.ActivityTimeoutSeconds) * time.Second),
		registry:        sessions.NewTracker(time.Duration(realtimeCfg.SessionTimeoutSeconds) * time.Second),
		counters:        counters.NewWindowedCounterStore(),
		archiveProducer: archiveProducer,
		kvStore:         kvStore,
		notifier:        notifier,
		realtimeCfg:     realtimeCfg,
		healthCfg:       healthCfg,
		recent:          newRingBuffer(realtimeCfg.RecentEventsCapacity),
	}
}

func (a *realTimeAggregator) Ingest(ctx context.Context, event *models.Event) *svcerrors.ServiceError {
	at := event.Timestamp

	a.activity.Touch(event.SessionID, at)

	switch event.Kind {
	case models.KindPageView:
		a.registry.RecordPageView(event.SessionID, at)
	case models.KindSessionEnd:
		a.registry.EndSession(event.SessionID, at)
		a.removeFromKV(ctx, []string{event.SessionID})
	default:
		a.registry.Touch(event.SessionID, at)
	}

	a.counters.Increment(metricEvents, at)
	a.counters.Increment(kindMetricPrefix+string(event.Kind), at)
	if feature := event.Feature(); feature != "" {
		a.counters.Increment(featureMetricPrefix+feature, at)
	}
	if country := event.Country(); country != "" {
		a.counters.Increment(geoMetricPrefix+country, at)
	}
	if event.IsError() {
		a.counters.Increment(metricErrors, at)
	}

	a.mu.Lock()
	a.recent.add(event)
	a.mu.Unlock()

	a.mirrorToKV(ctx, event)

	// The event is already counted in live state; a failed archive handoff
	// must not report it as rejected or a retry would double-count it.
	ingestedCode := metrics.ValueNoError
	if err := a.archiveProducer.Produce(ctx, event); err != nil {
		svcErr := errInternalArchiveProduceFailed(err)
		loggers.Ctx(ctx).Error().
			Err(err).
			Str(loggers.FieldErrorCode, svcErr.Code).
			Msg("archive handoff failed, event not archived")
		ingestedCode = svcErr.Code
	}

	a.notifier.NotifyEvent(event)

	metricEventsIngestedTotal.WithLabelValues(string(event.Kind), ingestedCode).Inc()
	return nil
}

func (a *realTimeAggregator) Snapshot(ctx context.Context, now time.Time) *models.AggregateSnapshot {
	cacheTTL := time.Duration(a.realtimeCfg.SnapshotCacheMillis) * time.Millisecond

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cachedSnapshot != nil && !now.Before(a.cachedAt) && now.Sub(a.cachedAt) < cacheTTL {
		return a.cachedSnapshot
	}

	trailing := time.Duration(a.realtimeCfg.TrailingWindowMinutes) * time.Minute
	// to = now + 1m so the half-open minute-bucket range covers the minute in
	// progress.
	from, to := now.Add(-trailing), now.Add(time.Minute)

	snapshot := &models.AggregateSnapshot{
		Timestamp:       now,
		OnlineUsers:     a.activity.ActiveCount(now),
		CurrentSessions: a.registry.ActiveCount(now),
		EventsPerMinute: models.EventsPerMinute{
			Current:  a.counters.Get(metricEvents, now),
			Previous: a.counters.Get(metricEvents, now.Add(-time.Minute)),
		},
		RecentEvents:           a.recent.newest(snapshotRecentEvents),
		FeatureUsage:           a.counters.SumByPrefix(featureMetricPrefix, from, to),
		GeographicDistribution: a.counters.SumByPrefix(geoMetricPrefix, from, to),
		SystemHealth:           a.computeHealth(now, from, to),
	}

	metricSnapshotsBuiltTotal.Inc()
	metricOnlineUsers.Set(float64(snapshot.OnlineUsers))
	metricCurrentSessions.Set(float64(snapshot.CurrentSessions))

	a.cachedSnapshot = snapshot
	a.cachedAt = now
	return snapshot
}

// computeHealth scores the trailing window. No events means nothing is
// failing, so the empty system is healthy by definition.
func (a *realTimeAggregator) computeHealth(now, from, to time.Time) models.SystemHealth {
	totalEvents := a.counters.Sum(metricEvents, from, to)
	errorEvents := a.counters.Sum(metricErrors, from, to)

	errorRate := 0.0
	if totalEvents > 0 {
		errorRate = float64(errorEvents) / float64(totalEvents) * 100
	}

	avgResponseTime := a.avgResponseTime()

	score := 100
	if errorRate > a.healthCfg.ErrorRateCriticalPercent {
		score -= 30
	} else if errorRate > a.healthCfg.ErrorRateWarnPercent {
		score -= 10
	}
	if avgResponseTime > a.healthCfg.VerySlowResponseMs {
		score -= 20
	} else if avgResponseTime > a.healthCfg.SlowResponseMs {
		score -= 10
	}
	if score < 0 {
		score = 0
	}

	status := "critical"
	switch {
	case score >= 90:
		status = "excellent"
	case score >= 70:
		status = "good"
	case score >= 50:
		status = "warning"
	}

	return models.SystemHealth{
		Status:            status,
		Score:             score,
		ErrorRatePercent:  errorRate,
		AvgResponseTimeMs: avgResponseTime,
		LastUpdated:       now,
	}
}

// avgResponseTime averages the newest events that report a response time,
// capped at a fixed sample size. Caller holds a.mu.
func (a *realTimeAggregator) avgResponseTime() float64 {
	var sum float64
	sampled := 0
	a.recent.eachNewest(func(event *models.Event) bool {
		if rt, ok := event.ResponseTimeMs(); ok {
			sum += rt
			sampled++
		}
		return sampled < responseTimeSampleSize
	})
	if sampled == 0 {
		return 0
	}
	return sum / float64(sampled)
}

func (a *realTimeAggregator) Sweep(ctx context.Context, now time.Time) {
	evicted := a.activity.Sweep(now)
	ended := a.registry.SweepEnded(now)

	horizon := time.Duration(a.realtimeCfg.CounterHorizonMinutes) * time.Minute
	evictedBuckets := a.counters.EvictOlderThan(now.Add(-horizon))

	a.removeFromKV(ctx, evicted)

	if len(evicted) > 0 || len(ended) > 0 || evictedBuckets > 0 {
		loggers.Ctx(ctx).Debug().
			Int("evicted_online", len(evicted)).
			Int("expired_sessions", len(ended)).
			Int("evicted_buckets", evictedBuckets).
			Msg("swept idle sessions and expired counters")
	}
}

// mirrorToKV pushes the shared counters into the key-value store. Failures
// are counted and logged at debug; the local state is already updated.
func (a *realTimeAggregator) mirrorToKV(ctx context.Context, event *models.Event) {
	ttl := time.Duration(a.realtimeCfg.CounterHorizonMinutes) * time.Minute
	minute := event.Timestamp.UTC().Truncate(time.Minute).Format("200601021504")

	if err := a.kvStore.IncrementWithTTL(ctx, kvCounterKeyPrefix+metricEvents+":"+minute, 1, ttl); err != nil {
		a.logKVFailure(ctx, "increment", err)
	}
	if event.IsError() {
		if err := a.kvStore.IncrementWithTTL(ctx, kvCounterKeyPrefix+metricErrors+":"+minute, 1, ttl); err != nil {
			a.logKVFailure(ctx, "increment", err)
		}
	}

	if event.Kind != models.KindSessionEnd {
		sessionTTL := time.Duration(a.realtimeCfg.SessionTimeoutSeconds) * time.Second
		if err := a.kvStore.AddActiveSession(ctx, event.SessionID, sessionTTL); err != nil {
			a.logKVFailure(ctx, "add_session", err)
		}
	}
}

func (a *realTimeAggregator) removeFromKV(ctx context.Context, sessionIDs []string) {
	if len(sessionIDs) == 0 {
		return
	}
	if err := a.kvStore.RemoveActiveSessions(ctx, sessionIDs); err != nil {
		a.logKVFailure(ctx, "remove_sessions", err)
	}
}

func (a *realTimeAggregator) logKVFailure(ctx context.Context, op string, err error) {
	metricKVMirrorFailuresTotal.WithLabelValues(op).Inc()
	loggers.Ctx(ctx).Debug().Err(err).Msg(fmt.Sprintf("kv mirror %s failed", op))
}
