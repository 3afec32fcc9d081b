package models

import "time"

// RollupRecord is a durable pre-aggregated summary of raw events over one
// window. Its identity is (Granularity, WindowStart); re-running the same
// window overwrites the record rather than duplicating it.
type RollupRecord struct {
	Granularity            Granularity      `json:"granularity"`
	WindowStart            time.Time        `json:"windowStart"`
	WindowEnd              time.Time        `json:"windowEnd"`
	TotalEvents            int64            `json:"totalEvents"`
	PageViews              int64            `json:"pageViews"`
	UniqueVisitors         int64            `json:"uniqueVisitors"`
	Sessions               int64            `json:"sessions"`
	AvgSessionDurationSecs float64          `json:"avgSessionDurationSeconds"`
	BounceRatePercent      float64          `json:"bounceRatePercent"`
	FeatureUsage           map[string]int64 `json:"featureUsage"`
	DeviceTypes            map[string]int64 `json:"deviceTypes"`
	Browsers               map[string]int64 `json:"browsers"`
	GeographicDistribution map[string]int64 `json:"geographicDistribution"`
	ComputedAt             time.Time        `json:"computedAt"`
}

func NewEmptyRollupRecord(granularity Granularity, windowStart, windowEnd time.Time) *RollupRecord {
	return &RollupRecord{
		Granularity:            granularity,
		WindowStart:            windowStart,
		WindowEnd:              windowEnd,
		FeatureUsage:           make(map[string]int64),
		DeviceTypes:            make(map[string]int64),
		Browsers:               make(map[string]int64),
		GeographicDistribution: make(map[string]int64),
	}
}
