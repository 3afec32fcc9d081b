package ingestors

import (
	"context"
	"fmt"
	"time"

	"web-analytics/internal/aggregators"
	"web-analytics/internal/models"
	"web-analytics/internal/sanitizers"
	"web-analytics/internal/shared/loggers"
	"web-analytics/internal/shared/metrics"
	"web-analytics/internal/shared/svcerrors"
)

const maxBatchEvents = 100

// EventResult reports the outcome of one event within a batch.
type EventResult struct {
	Success   bool   `json:"success"`
	EventType string `json:"eventType"`
	EventID   string `json:"eventId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchResult summarizes a batch ingest. Accepted events stay accepted even
// when others in the same batch are rejected.
type BatchResult struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Results    []EventResult `json:"results"`
}

//go:generate mockgen -source=ingestion_service.go -destination=./mocks/ingestion_service_mock.go -package=mocks
type IngestionService interface {
	// IngestOne sanitizes and aggregates a single client event.
	IngestOne(ctx context.Context, raw *sanitizers.RawEvent, receivedAt time.Time, clientIP string) (*models.Event, error)

	// IngestBatch processes up to maxBatchEvents events, reporting a
	// per-event outcome. A rejected event never rolls back its neighbors.
	IngestBatch(ctx context.Context, raws []*sanitizers.RawEvent, receivedAt time.Time, clientIP string) (*BatchResult, error)
}

type ingestionService struct {
	sanitizer  sanitizers.EventSanitizer
	aggregator aggregators.RealTimeAggregator
}

func NewIngestionService(sanitizer sanitizers.EventSanitizer, aggregator aggregators.RealTimeAggregator) IngestionService {
	return &ingestionService{
		sanitizer:  sanitizer,
		aggregator: aggregator,
	}
}

func (s *ingestionService) IngestOne(ctx context.Context, raw *sanitizers.RawEvent, receivedAt time.Time, clientIP string) (*models.Event, error) {
	event, err := s.sanitizer.Sanitize(raw, receivedAt, clientIP)
	if err != nil {
		s.countEvent(err)
		return nil, err
	}

	if svcErr := s.aggregator.Ingest(ctx, event); svcErr != nil {
		s.countEvent(svcErr)
		return nil, svcErr
	}

	s.countEvent(nil)
	return event, nil
}

func (s *ingestionService) IngestBatch(ctx context.Context, raws []*sanitizers.RawEvent, receivedAt time.Time, clientIP string) (*BatchResult, error) {
	logger := loggers.Ctx(ctx)

	if len(raws) == 0 {
		return nil, errValidationFailed("events cannot be empty", nil)
	}
	if len(raws) > maxBatchEvents {
		return nil, errValidationFailed(fmt.Sprintf("too many events: max %d per batch", maxBatchEvents), nil)
	}

	result := &BatchResult{
		Total:   len(raws),
		Results: make([]EventResult, 0, len(raws)),
	}

	for _, raw := range raws {
		eventType := ""
		if raw != nil {
			eventType = raw.Type
		}

		event, err := s.IngestOne(ctx, raw, receivedAt, clientIP)
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, EventResult{
				Success:   false,
				EventType: eventType,
				Error:     err.Error(),
			})
			continue
		}

		result.Successful++
		result.Results = append(result.Results, EventResult{
			Success:   true,
			EventType: eventType,
			EventID:   event.EventID,
		})
	}

	logger.Debug().
		Int("total", result.Total).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("batch ingested")
	metricBatchIngestedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return result, nil
}

func (s *ingestionService) countEvent(err error) {
	if err == nil {
		metricEventsReceivedTotal.WithLabelValues(metrics.ValueNoError).Inc()
		return
	}
	code := "unknown"
	if svcErr, ok := svcerrors.AsServiceError(err); ok {
		code = svcErr.Code
	}
	metricEventsReceivedTotal.WithLabelValues(code).Inc()
}
