package rollups

import (
	"strconv"
	"time"

	"web-analytics/internal/models"

	"github.com/mileusna/useragent"
)

// Session durations outside (0, 1h) are treated as clock skew or abandoned
// tabs and excluded from the average.
const maxSessionDuration = time.Hour

// RollupCalculator reduces the raw events of one window to a RollupRecord.
// Pure computation; the same events always produce the same record apart from
// ComputedAt.
type RollupCalculator interface {
	Calculate(granularity models.Granularity, windowStart, windowEnd time.Time, events []*models.Event) *models.RollupRecord
}

type rollupCalculator struct{}

func NewRollupCalculator() RollupCalculator {
	return &rollupCalculator{}
}

// sessionAccumulator is the per-session state folded up while scanning the
// window's events.
type sessionAccumulator struct {
	pageViews int64
	started   int64
	first     time.Time
	last      time.Time
	duration  time.Duration // explicit, from the session_end event
	hasEnd    bool
	userAgent string
}

func (c *rollupCalculator) Calculate(granularity models.Granularity, windowStart, windowEnd time.Time, events []*models.Event) *models.RollupRecord {
	record := models.NewEmptyRollupRecord(granularity, windowStart, windowEnd)
	record.ComputedAt = time.Now().UTC()
	record.TotalEvents = int64(len(events))

	sessions := make(map[string]*sessionAccumulator)
	for _, event := range events {
		acc, ok := sessions[event.SessionID]
		if !ok {
			acc = &sessionAccumulator{first: event.Timestamp, last: event.Timestamp}
			sessions[event.SessionID] = acc
		}
		if event.Timestamp.Before(acc.first) {
			acc.first = event.Timestamp
		}
		if event.Timestamp.After(acc.last) {
			acc.last = event.Timestamp
		}
		if acc.userAgent == "" {
			acc.userAgent = event.UserAgent()
		}

		switch event.Kind {
		case models.KindPageView:
			record.PageViews++
			acc.pageViews++
		case models.KindSessionStart:
			acc.started++
		case models.KindSessionEnd:
			acc.hasEnd = true
			if ms, err := strconv.ParseFloat(event.Attributes[models.AttrDurationMs], 64); err == nil && ms > 0 {
				acc.duration = time.Duration(ms * float64(time.Millisecond))
			}
		case models.KindFeatureUsage:
			if feature := event.Feature(); feature != "" {
				record.FeatureUsage[feature]++
			}
		}

		if country := event.Country(); country != "" {
			record.GeographicDistribution[country]++
		}
	}

	record.UniqueVisitors = int64(len(sessions))
	c.foldSessions(record, sessions)
	return record
}

// foldSessions derives the per-session aggregates: session count, bounce
// rate, duration average and the device/browser split (one count per
// visitor, from the first user agent the session reported).
func (c *rollupCalculator) foldSessions(record *models.RollupRecord, sessions map[string]*sessionAccumulator) {
	var bounced int64
	var durationSum time.Duration
	var durationCount int64

	for _, acc := range sessions {
		record.Sessions += acc.started

		if acc.pageViews <= 1 {
			bounced++
		}

		duration := acc.duration
		if duration == 0 && acc.hasEnd {
			duration = acc.last.Sub(acc.first)
		}
		if duration > 0 && duration < maxSessionDuration {
			durationSum += duration
			durationCount++
		}

		if acc.userAgent != "" {
			ua := useragent.Parse(acc.userAgent)
			record.DeviceTypes[deviceType(ua)]++
			browser := ua.Name
			if browser == "" {
				browser = "Other"
			}
			record.Browsers[browser]++
		}
	}

	if len(sessions) > 0 {
		record.BounceRatePercent = float64(bounced) / float64(len(sessions)) * 100
	}
	if durationCount > 0 {
		record.AvgSessionDurationSecs = durationSum.Seconds() / float64(durationCount)
	}
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	default:
		return "desktop"
	}
}
