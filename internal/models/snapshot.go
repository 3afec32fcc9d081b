package models

import "time"

// EventsPerMinute compares the current calendar minute against the previous one.
type EventsPerMinute struct {
	Current  uint64 `json:"current"`
	Previous uint64 `json:"previous"`
}

// SystemHealth is the derived health summary served with every snapshot.
type SystemHealth struct {
	Status            string    `json:"status"`
	Score             int       `json:"score"`
	ErrorRatePercent  float64   `json:"errorRate"`
	AvgResponseTimeMs float64   `json:"avgResponseTime"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// AggregateSnapshot is the point-in-time view served to dashboards. It is
// recomputed on demand from the tracker and counter state, never mutated.
type AggregateSnapshot struct {
	Timestamp              time.Time         `json:"timestamp"`
	OnlineUsers            int               `json:"onlineUsers"`
	CurrentSessions        int               `json:"currentSessions"`
	EventsPerMinute        EventsPerMinute   `json:"eventsPerMinute"`
	RecentEvents           []*Event          `json:"recentEvents"`
	FeatureUsage           map[string]uint64 `json:"featureUsage"`
	GeographicDistribution map[string]uint64 `json:"geographicDistribution"`
	SystemHealth           SystemHealth      `json:"systemHealth"`
}
