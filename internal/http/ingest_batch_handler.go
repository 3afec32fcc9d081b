package http

import (
	"encoding/json"
	"net/http"
	"time"

	"web-analytics/internal/ingestors"
	"web-analytics/internal/sanitizers"
)

type batchRequest struct {
	Events []*sanitizers.RawEvent `json:"events"`
}

type batchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type batchResponse struct {
	Summary batchSummary            `json:"summary"`
	Results []ingestors.EventResult `json:"results"`
}

type ingestBatchHandler struct {
	ingestionService ingestors.IngestionService
}

func NewIngestBatchHandler(ingestionService ingestors.IngestionService) AppHttpHandler {
	return &ingestBatchHandler{
		ingestionService: ingestionService,
	}
}

// Handle processes POST /api/analytics/events/batch requests.
func (h *ingestBatchHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	if err := requireJSONBody(r); err != nil {
		return err
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errMalformedBody(err)
	}

	result, err := h.ingestionService.IngestBatch(r.Context(), req.Events, time.Now().UTC(), sanitizers.AnonymizeIP(clientIP(r)))
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, batchResponse{
		Summary: batchSummary{
			Total:      result.Total,
			Successful: result.Successful,
			Failed:     result.Failed,
		},
		Results: result.Results,
	})
}
