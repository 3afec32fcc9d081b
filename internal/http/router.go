package http

import (
	"net/http"

	"web-analytics/internal/aggregators"
	"web-analytics/internal/ingestors"
	"web-analytics/internal/realtime"
	"web-analytics/internal/shared/loggers"
	"web-analytics/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	ingestionService ingestors.IngestionService,
	aggregator aggregators.RealTimeAggregator,
	hub *realtime.Hub,
	httpLogger loggers.Logger,
) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	ingestEventHandler := NewIngestEventHandler(ingestionService)
	ingestBatchHandler := NewIngestBatchHandler(ingestionService)
	snapshotHandler := NewSnapshotHandler(aggregator)
	wsHandler := NewWebSocketHandler(hub)
	healthHandler := NewHealthHandler()

	// Routes
	router.Route("/api/analytics", func(r chi.Router) {
		r.Post("/events", errorHandlingAdapter(ingestEventHandler))
		r.Post("/events/batch", errorHandlingAdapter(ingestBatchHandler))
		r.Get("/real-time", errorHandlingAdapter(snapshotHandler))
		r.Get("/ws", errorHandlingAdapter(wsHandler))
	})
	router.Get("/health", errorHandlingAdapter(healthHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
