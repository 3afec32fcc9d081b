package sanitizers

import (
	"testing"
	"time"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var receivedAt = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func TestSanitize_ValidPageView(t *testing.T) {
	t.Parallel()

	sanitizer := NewEventSanitizer()

	raw := &RawEvent{
		Type: "page_view",
		Data: map[string]any{
			"sessionId": "s1",
			"timestamp": "2026-03-14T10:29:30.000Z",
			"url":       "https://example.com/diff",
			"country":   "DE",
			"userAgent": "Mozilla/5.0",
		},
	}

	event, err := sanitizer.Sanitize(raw, receivedAt, "203.0.113.0")
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "s1", event.SessionID)
	assert.Equal(t, models.KindPageView, event.Kind)
	assert.Equal(t, time.Date(2026, 3, 14, 10, 29, 30, 0, time.UTC), event.Timestamp)
	assert.Equal(t, receivedAt, event.ReceivedAt)
	assert.Equal(t, "https://example.com/diff", event.Attributes[models.AttrURL])
	assert.Equal(t, "DE", event.Attributes[models.AttrCountry])
	assert.Equal(t, "203.0.113.0", event.Attributes[models.AttrClientIP])
}

func TestSanitize_RedactsEmailInURL(t *testing.T) {
	t.Parallel()

	sanitizer := NewEventSanitizer()

	raw := &RawEvent{
		Type: "page_view",
		Data: map[string]any{
			"sessionId": "s1",
			"timestamp": "2026-03-14T10:29:30.000Z",
			"url":       "https://example.com/share?to=alice@example.com&mode=diff",
			"country":   "DE",
		},
	}

	event, err := sanitizer.Sanitize(raw, receivedAt, "")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/share?to=[email]&mode=diff", event.Attributes[models.AttrURL])
	// other fields untouched
	assert.Equal(t, "DE", event.Attributes[models.AttrCountry])
}

func TestSanitize_RedactionPatterns(t *testing.T) {
	t.Parallel()

	sanitizer := NewEventSanitizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"email", "contact bob@corp.io now", "contact [email] now"},
		{"phone", "call 555-123-4567 today", "call [phone] today"},
		{"credit card", "paid with 4111-1111-1111-1111 ok", "paid with [credit_card] ok"},
		{"ssn", "ssn 123-45-6789 leaked", "ssn [ssn] leaked"},
		{"ipv4", "from 10.0.0.17 origin", "from [ip] origin"},
		{"ipv6", "host 2001:db8:85a3:8d3:1319:8a2e:370:7348 seen", "host [ip] seen"},
		{"clean string", "nothing sensitive here", "nothing sensitive here"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			raw := &RawEvent{
				Type: "feature_usage",
				Data: map[string]any{
					"sessionId": "s1",
					"feature":   "export",
					"action":    tt.input,
				},
			}

			event, err := sanitizer.Sanitize(raw, receivedAt, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, event.Attributes[models.AttrAction])
		})
	}
}

func TestSanitize_DropsNonWhitelistedFields(t *testing.T) {
	t.Parallel()

	sanitizer := NewEventSanitizer()

	raw := &RawEvent{
		Type: "session_end",
		Data: map[string]any{
			"sessionId":  "s1",
			"durationMs": float64(500),
			"url":        "https://example.com",  // not whitelisted for session_end
			"password":   "hunter2",              // never whitelisted
			"payload":    map[string]any{"k": 1}, // unsupported type
		},
	}

	event, err := sanitizer.Sanitize(raw, receivedAt, "")
	require.NoError(t, err)

	assert.Equal(t, "500", event.Attributes[models.AttrDurationMs])
	assert.NotContains(t, event.Attributes, models.AttrURL)
	assert.NotContains(t, event.Attributes, "password")
	assert.NotContains(t, event.Attributes, "payload")
}

func TestSanitize_Rejections(t *testing.T) {
	t.Parallel()

	sanitizer := NewEventSanitizer()

	tests := []struct {
		name string
		raw  *RawEvent
	}{
		{"nil event", nil},
		{"unknown kind", &RawEvent{Type: "telemetry", Data: map[string]any{"sessionId": "s1"}}},
		{"missing sessionId", &RawEvent{Type: "page_view", Data: map[string]any{"url": "https://x"}}},
		{"empty sessionId", &RawEvent{Type: "page_view", Data: map[string]any{"sessionId": ""}}},
		{"unparseable timestamp", &RawEvent{Type: "page_view", Data: map[string]any{"sessionId": "s1", "timestamp": "yesterday"}}},
		{"non-string timestamp", &RawEvent{Type: "page_view", Data: map[string]any{"sessionId": "s1", "timestamp": float64(12)}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			event, err := sanitizer.Sanitize(tt.raw, receivedAt, "")
			require.Error(t, err)
			assert.Nil(t, event)

			svcErr, ok := svcerrors.AsServiceError(err)
			require.True(t, ok)
			assert.Equal(t, "SAN_1000", svcErr.Code)
			assert.Equal(t, 400, svcErr.HttpStatusCode)
		})
	}
}

func TestSanitize_MissingTimestampDefaultsToReceivedAt(t *testing.T) {
	t.Parallel()

	sanitizer := NewEventSanitizer()

	raw := &RawEvent{
		Type: "session_heartbeat",
		Data: map[string]any{"sessionId": "s1"},
	}

	event, err := sanitizer.Sanitize(raw, receivedAt, "")
	require.NoError(t, err)
	assert.Equal(t, receivedAt, event.Timestamp)
}

func TestAnonymizeIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4", "192.168.1.42", "192.168.1.0"},
		{"ipv4 already zeroed", "10.1.2.0", "10.1.2.0"},
		{"ipv6", "2001:db8:85a3:8d3:1319:8a2e:370:7348", "2001:db8:85a3:8d3::"},
		{"empty", "", "unknown"},
		{"garbage", "not-an-ip", "unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, AnonymizeIP(tt.input))
		})
	}
}
