package stores

import (
	"context"
	"fmt"
	"time"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/configs"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const eventsTable = "analytics_events"

const createEventsTableDDL = `
CREATE TABLE IF NOT EXISTS ` + eventsTable + ` (
	event_id    String,
	session_id  String,
	kind        LowCardinality(String),
	timestamp   DateTime64(3, 'UTC'),
	received_at DateTime64(3, 'UTC'),
	attributes  Map(String, String)
) ENGINE = MergeTree()
ORDER BY (timestamp, session_id)`

// clickHouseEventStore archives events in a ClickHouse MergeTree table and
// serves the windowed range scans rollups are built from.
type clickHouseEventStore struct {
	conn driver.Conn
}

// OpenClickHouse dials ClickHouse, verifies connectivity and makes sure the
// events table exists.
func OpenClickHouse(ctx context.Context, cfg configs.ClickHouseConfig) (driver.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}
	if err := conn.Exec(ctx, createEventsTableDDL); err != nil {
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}
	return conn, nil
}

func NewClickHouseEventStore(conn driver.Conn) EventStore {
	return &clickHouseEventStore{conn: conn}
}

func (s *clickHouseEventStore) Append(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO "+eventsTable)
	if err != nil {
		return fmt.Errorf("failed to prepare event batch: %w", err)
	}
	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.SessionID,
			string(event.Kind),
			event.Timestamp,
			event.ReceivedAt,
			event.Attributes,
		)
		if err != nil {
			return fmt.Errorf("failed to append event %s to batch: %w", event.EventID, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send event batch: %w", err)
	}
	return nil
}

func (s *clickHouseEventStore) Query(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT event_id, session_id, kind, timestamp, received_at, attributes
		 FROM `+eventsTable+`
		 WHERE timestamp >= ? AND timestamp < ?
		 ORDER BY timestamp`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		var (
			event models.Event
			kind  string
		)
		err := rows.Scan(
			&event.EventID,
			&event.SessionID,
			&kind,
			&event.Timestamp,
			&event.ReceivedAt,
			&event.Attributes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		event.Kind = models.EventKind(kind)
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event rows: %w", err)
	}
	return events, nil
}

// DeleteOlderThan uses a lightweight delete; ClickHouse applies it
// asynchronously, so the removed-row count is not observable here.
func (s *clickHouseEventStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	err := s.conn.Exec(ctx, "DELETE FROM "+eventsTable+" WHERE timestamp < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired events: %w", err)
	}
	return 0, nil
}
