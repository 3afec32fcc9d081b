package rollups

import (
	"fmt"
	"testing"
	"time"

	"web-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uaChromeDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaSafariiPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaSafariiPad    = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
)

var windowStart = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func evt(kind models.EventKind, sessionID string, at time.Time, attrs map[string]string) *models.Event {
	return &models.Event{
		EventID:    fmt.Sprintf("e-%s-%d", sessionID, at.UnixNano()),
		SessionID:  sessionID,
		Kind:       kind,
		Timestamp:  at,
		ReceivedAt: at,
		Attributes: attrs,
	}
}

func TestCalculate_EmptyWindow(t *testing.T) {
	t.Parallel()

	calculator := NewRollupCalculator()
	record := calculator.Calculate(models.GranularityHour, windowStart, windowStart.Add(time.Hour), nil)

	assert.Equal(t, models.GranularityHour, record.Granularity)
	assert.Equal(t, windowStart, record.WindowStart)
	assert.Zero(t, record.TotalEvents)
	assert.Zero(t, record.UniqueVisitors)
	assert.Zero(t, record.BounceRatePercent)
	assert.Zero(t, record.AvgSessionDurationSecs)
	assert.Empty(t, record.FeatureUsage)
	assert.NotNil(t, record.FeatureUsage)
	assert.False(t, record.ComputedAt.IsZero())
}

func TestCalculate_CountsAndVisitors(t *testing.T) {
	t.Parallel()

	calculator := NewRollupCalculator()
	events := []*models.Event{
		evt(models.KindSessionStart, "s1", windowStart, nil),
		evt(models.KindPageView, "s1", windowStart.Add(time.Second), map[string]string{models.AttrCountry: "DE"}),
		evt(models.KindPageView, "s1", windowStart.Add(2*time.Second), map[string]string{models.AttrCountry: "DE"}),
		evt(models.KindSessionStart, "s2", windowStart.Add(3*time.Second), nil),
		evt(models.KindPageView, "s2", windowStart.Add(4*time.Second), map[string]string{models.AttrCountry: "US"}),
		evt(models.KindFeatureUsage, "s2", windowStart.Add(5*time.Second), map[string]string{models.AttrFeature: "export"}),
		evt(models.KindFeatureUsage, "s2", windowStart.Add(6*time.Second), map[string]string{models.AttrFeature: "export"}),
		evt(models.KindFeatureUsage, "s2", windowStart.Add(7*time.Second), map[string]string{models.AttrFeature: "search"}),
	}

	record := calculator.Calculate(models.GranularityHour, windowStart, windowStart.Add(time.Hour), events)

	assert.Equal(t, int64(8), record.TotalEvents)
	assert.Equal(t, int64(3), record.PageViews)
	assert.Equal(t, int64(2), record.UniqueVisitors)
	assert.Equal(t, int64(2), record.Sessions)
	assert.Equal(t, map[string]int64{"export": 2, "search": 1}, record.FeatureUsage)
	assert.Equal(t, map[string]int64{"DE": 2, "US": 1}, record.GeographicDistribution)
}

func TestCalculate_BounceRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		events   []*models.Event
		expected float64
	}{
		{
			name: "single page view bounces",
			events: []*models.Event{
				evt(models.KindPageView, "s1", windowStart, nil),
			},
			expected: 100,
		},
		{
			name: "second page view clears the bounce",
			events: []*models.Event{
				evt(models.KindPageView, "s1", windowStart, nil),
				evt(models.KindPageView, "s1", windowStart.Add(time.Second), nil),
			},
			expected: 0,
		},
		{
			name: "feature usage without a second page view still bounces",
			events: []*models.Event{
				evt(models.KindPageView, "s1", windowStart, nil),
				evt(models.KindFeatureUsage, "s1", windowStart.Add(time.Second), map[string]string{models.AttrFeature: "export"}),
			},
			expected: 100,
		},
		{
			name: "half of the sessions bounce",
			events: []*models.Event{
				evt(models.KindPageView, "s1", windowStart, nil),
				evt(models.KindPageView, "s2", windowStart, nil),
				evt(models.KindPageView, "s2", windowStart.Add(time.Second), nil),
			},
			expected: 50,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record := NewRollupCalculator().Calculate(models.GranularityHour, windowStart, windowStart.Add(time.Hour), tt.events)
			assert.Equal(t, tt.expected, record.BounceRatePercent)
		})
	}
}

func TestCalculate_SessionDurations(t *testing.T) {
	t.Parallel()

	calculator := NewRollupCalculator()
	events := []*models.Event{
		// explicit 5s duration
		evt(models.KindSessionEnd, "s1", windowStart.Add(5*time.Second), map[string]string{models.AttrDurationMs: "5000"}),
		// 2h duration excluded as an outlier
		evt(models.KindSessionEnd, "s2", windowStart.Add(time.Minute), map[string]string{models.AttrDurationMs: "7200000"}),
		// ended without a reported duration: observed span 15s
		evt(models.KindSessionStart, "s3", windowStart, nil),
		evt(models.KindSessionEnd, "s3", windowStart.Add(15*time.Second), nil),
		// never ended: contributes no duration
		evt(models.KindPageView, "s4", windowStart.Add(30*time.Second), nil),
	}

	record := calculator.Calculate(models.GranularityHour, windowStart, windowStart.Add(time.Hour), events)

	// (5 + 15) / 2
	assert.InDelta(t, 10.0, record.AvgSessionDurationSecs, 0.001)
}

func TestCalculate_DeviceAndBrowserSplit(t *testing.T) {
	t.Parallel()

	calculator := NewRollupCalculator()
	events := []*models.Event{
		evt(models.KindPageView, "s1", windowStart, map[string]string{models.AttrUserAgent: uaChromeDesktop}),
		evt(models.KindPageView, "s1", windowStart.Add(time.Second), map[string]string{models.AttrUserAgent: uaChromeDesktop}),
		evt(models.KindPageView, "s2", windowStart, map[string]string{models.AttrUserAgent: uaSafariiPhone}),
		evt(models.KindPageView, "s3", windowStart, map[string]string{models.AttrUserAgent: uaSafariiPad}),
		evt(models.KindPageView, "s4", windowStart, nil), // no user agent at all
	}

	record := calculator.Calculate(models.GranularityDay, windowStart, windowStart.Add(24*time.Hour), events)

	// one count per session, not per event
	require.Equal(t, map[string]int64{"desktop": 1, "mobile": 1, "tablet": 1}, record.DeviceTypes)
	assert.Equal(t, int64(1), record.Browsers["Chrome"])
	assert.Equal(t, int64(2), record.Browsers["Safari"])
}
