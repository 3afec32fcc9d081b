package stores

import (
	"context"
	"time"

	"web-analytics/internal/models"
)

// EventStore is the durable, append-only archive of sanitized events that
// historical rollups are computed from. Implementations must tolerate
// duplicate appends of the same event ID; rollup reads are idempotent over
// them only in the sense that reruns see the same data.
//
//go:generate mockgen -source=event_store.go -destination=./mocks/event_store_mock.go -package=mocks
type EventStore interface {
	Append(ctx context.Context, events []*models.Event) error
	// Query returns events with Timestamp in [from, to), ordered by
	// Timestamp ascending.
	Query(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	// DeleteOlderThan removes events with Timestamp before cutoff and
	// reports how many were removed, when the backend can tell.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
