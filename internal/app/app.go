package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"web-analytics/internal/aggregators"
	internalhttp "web-analytics/internal/http"
	"web-analytics/internal/ingestors"
	"web-analytics/internal/models"
	"web-analytics/internal/realtime"
	"web-analytics/internal/rollups"
	"web-analytics/internal/sanitizers"
	"web-analytics/internal/schedulers"
	"web-analytics/internal/shared/configs"
	"web-analytics/internal/shared/filestorages"
	"web-analytics/internal/shared/loggers"
	"web-analytics/internal/stores"
	"web-analytics/internal/streams"
)

// channelSnapshot carries the periodic snapshot broadcast to external
// dashboard consumers subscribed through the key-value store.
const channelSnapshot = "analytics:real-time-stats"

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	archiveConsumer  streams.EventArchiveConsumer
	scheduler        *schedulers.Scheduler
	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "web-analytics").
		Logger()

	// Initialize durable rollup storage
	fileStorage, err := filestorages.NewFileStorage(config.FileStorage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize the event archive store
	initCtx := context.Background()
	var eventStore stores.EventStore
	if config.ClickHouse.Enabled {
		conn, err := stores.OpenClickHouse(initCtx, config.ClickHouse)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
		}
		eventStore = stores.NewClickHouseEventStore(conn)
	} else {
		eventStore = stores.NewMemoryEventStore()
	}

	// Initialize the shared key-value store
	var kvStore stores.KeyValueStore
	if config.Redis.Enabled {
		client, err := stores.OpenRedis(initCtx, config.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		kvStore = stores.NewRedisKeyValueStore(client)
	} else {
		kvStore = stores.NewNoopKeyValueStore()
	}

	// Initialize the archive stream
	archiveQueue := streams.NewPartitionedQueue[*models.Event]()
	archiveProducer := streams.NewEventArchiveProducer(archiveQueue)
	consumerLogger := appLogger.With().Str(loggers.FieldComponent, "archive-consumer").Logger()
	archiveConsumer := streams.NewEventArchiveConsumer(archiveQueue, eventStore, consumerLogger)

	// Initialize the dashboard push hub
	hubLogger := appLogger.With().Str(loggers.FieldComponent, "hub").Logger()
	hub := realtime.NewHub(hubLogger)

	// Initialize the real-time aggregator and ingestion service
	aggregator := aggregators.NewRealTimeAggregator(config.Realtime, config.Health, archiveProducer, kvStore, hub)
	ingestionService := ingestors.NewIngestionService(sanitizers.NewEventSanitizer(), aggregator)

	// Initialize the rollup service
	granularities := make([]models.Granularity, 0, len(config.Rollup.Granularities))
	for _, raw := range config.Rollup.Granularities {
		granularity, err := models.NewGranularityFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rollup granularity: %w", err)
		}
		granularities = append(granularities, granularity)
	}
	rollupStore := stores.NewRollupStore(fileStorage)
	rollupService := rollups.NewRollupService(config.Rollup, granularities, eventStore, rollupStore, rollups.NewRollupCalculator())

	// Schedule background work
	schedulerLogger := appLogger.With().Str(loggers.FieldComponent, "scheduler").Logger()
	scheduler := schedulers.NewScheduler(schedulerLogger)

	scheduler.Every(time.Duration(config.Realtime.SweepIntervalSeconds)*time.Second, "session_sweep",
		func(ctx context.Context, now time.Time) error {
			aggregator.Sweep(ctx, now)
			return nil
		})

	scheduler.Every(time.Duration(config.Realtime.BroadcastIntervalSeconds)*time.Second, "snapshot_broadcast",
		func(ctx context.Context, now time.Time) error {
			snapshot := aggregator.Snapshot(ctx, now)
			hub.Broadcast(snapshot)

			payload, err := json.Marshal(snapshot)
			if err != nil {
				return err
			}
			return kvStore.Publish(ctx, channelSnapshot, payload)
		})

	for _, granularity := range granularities {
		granularity := granularity
		scheduler.Every(granularity.Duration(), "rollup_"+string(granularity),
			func(ctx context.Context, now time.Time) error {
				if svcErr := rollupService.RunRollup(ctx, granularity, now); svcErr != nil {
					return svcErr
				}
				return nil
			})
	}

	scheduler.Every(24*time.Hour, "retention",
		func(ctx context.Context, now time.Time) error {
			if svcErr := rollupService.EnforceRetention(ctx, now); svcErr != nil {
				return svcErr
			}
			return nil
		})

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(ingestionService, aggregator, hub, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:          config,
		appLogger:       appLogger,
		server:          server,
		archiveConsumer: archiveConsumer,
		scheduler:       scheduler,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting web-analytics service on port %d (log_level=%s, file_storage_root_dir=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.FileStorage.RootDir)

	// start background consumers and schedules
	app.backgroundCtx, app.backgroundCancel = context.WithCancel(context.Background())
	app.archiveConsumer.Start(app.backgroundCtx)
	app.scheduler.Start(app.backgroundCtx)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Cancel background work
	if app.backgroundCancel != nil {
		app.backgroundCancel()
		app.appLogger.Info().Msg("Background work cancelled")
	}

	// 3) Wait for background work to finish
	app.scheduler.Stop()
	app.archiveConsumer.Stop()
	app.appLogger.Info().Msg("Background work stopped")

	return nil
}
