package models

import (
	"strconv"
	"time"
)

// EventKind identifies the shape of an event's attribute payload.
type EventKind string

const (
	KindPageView         EventKind = "page_view"
	KindFeatureUsage     EventKind = "feature_usage"
	KindSessionStart     EventKind = "session_start"
	KindSessionHeartbeat EventKind = "session_heartbeat"
	KindSessionEnd       EventKind = "session_end"
)

// IsValid reports whether k is one of the known event kinds.
func (k EventKind) IsValid() bool {
	switch k {
	case KindPageView, KindFeatureUsage, KindSessionStart, KindSessionHeartbeat, KindSessionEnd:
		return true
	}
	return false
}

// Attribute keys allowed by the sanitizer, per kind. Values are strings on the
// wire; numeric attributes are parsed on access.
const (
	AttrURL              = "url"
	AttrReferrer         = "referrer"
	AttrScreenResolution = "screenResolution"
	AttrLanguage         = "language"
	AttrCountry          = "country"
	AttrCity             = "city"
	AttrFeature          = "feature"
	AttrAction           = "action"
	AttrDurationMs       = "durationMs"
	AttrSuccess          = "success"
	AttrErrorType        = "errorType"
	AttrResponseTimeMs   = "responseTimeMs"
	AttrUserAgent        = "userAgent"
	AttrClientIP         = "clientIp"
)

// Event is an immutable analytics fact. It is created at the ingest boundary,
// passed through the sanitizer exactly once, and never mutated afterwards.
// Attributes hold only keys whitelisted for the event's kind.
type Event struct {
	EventID    string            `json:"eventId"`
	SessionID  string            `json:"sessionId"`
	Kind       EventKind         `json:"kind"`
	Timestamp  time.Time         `json:"timestamp"`
	ReceivedAt time.Time         `json:"receivedAt"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func (e *Event) attr(key string) string {
	if e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}

// Feature returns the feature name for feature-usage events, "" otherwise.
func (e *Event) Feature() string { return e.attr(AttrFeature) }

// Country returns the country attribution, "" when absent or unknown.
func (e *Event) Country() string {
	c := e.attr(AttrCountry)
	if c == "Unknown" {
		return ""
	}
	return c
}

// UserAgent returns the raw user-agent string carried by the event.
func (e *Event) UserAgent() string { return e.attr(AttrUserAgent) }

// ResponseTimeMs returns the reported response time and whether one was present.
func (e *Event) ResponseTimeMs() (float64, bool) {
	raw := e.attr(AttrResponseTimeMs)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// IsError reports whether the event represents a failed operation. Only
// feature-usage events carry success/error attribution.
func (e *Event) IsError() bool {
	if e.Kind != KindFeatureUsage {
		return false
	}
	return e.attr(AttrSuccess) == "false" || e.attr(AttrErrorType) != ""
}
