package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"web-analytics/internal/ingestors"
	"web-analytics/internal/sanitizers"
)

type ingestEventHandler struct {
	ingestionService ingestors.IngestionService
}

func NewIngestEventHandler(ingestionService ingestors.IngestionService) AppHttpHandler {
	return &ingestEventHandler{
		ingestionService: ingestionService,
	}
}

// Handle processes POST /api/analytics/events requests.
func (h *ingestEventHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	if err := requireJSONBody(r); err != nil {
		return err
	}

	var raw sanitizers.RawEvent
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return errMalformedBody(err)
	}

	event, err := h.ingestionService.IngestOne(r.Context(), &raw, time.Now().UTC(), sanitizers.AnonymizeIP(clientIP(r)))
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"eventId": event.EventID,
	})
}

// requireJSONBody rejects requests that declare a non-JSON content type.
// A missing header is accepted for lenient clients.
func requireJSONBody(r *http.Request) error {
	ct := contentType(r)
	if ct == "" || strings.HasPrefix(ct, "application/json") {
		return nil
	}
	return errUnsupportedContentType(ct)
}
