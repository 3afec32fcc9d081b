package http

import (
	"net/http"
	"time"

	"web-analytics/internal/aggregators"
)

type snapshotHandler struct {
	aggregator aggregators.RealTimeAggregator
}

func NewSnapshotHandler(aggregator aggregators.RealTimeAggregator) AppHttpHandler {
	return &snapshotHandler{
		aggregator: aggregator,
	}
}

// Handle processes GET /api/analytics/real-time requests.
func (h *snapshotHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	snapshot := h.aggregator.Snapshot(r.Context(), time.Now().UTC())
	return writeJSON(w, http.StatusOK, snapshot)
}
