package sanitizers

import (
	"fmt"
	"strconv"
	"time"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/ulid"
)

const (
	maxSessionIDLen = 255
	maxAttrValueLen = 1024
)

// RawEvent is the untrusted wire shape of one client-emitted event.
type RawEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Per-kind attribute whitelist. Any field not listed for the event's kind is
// dropped silently; fields that survive are redacted before use.
var allowedAttributes = map[models.EventKind][]string{
	models.KindPageView: {
		models.AttrURL, models.AttrReferrer, models.AttrScreenResolution,
		models.AttrLanguage, models.AttrCountry, models.AttrCity,
		models.AttrUserAgent, models.AttrResponseTimeMs,
	},
	models.KindFeatureUsage: {
		models.AttrFeature, models.AttrAction, models.AttrDurationMs,
		models.AttrSuccess, models.AttrErrorType, models.AttrCountry,
		models.AttrUserAgent, models.AttrResponseTimeMs,
	},
	models.KindSessionStart: {
		models.AttrReferrer, models.AttrLanguage, models.AttrCountry,
		models.AttrCity, models.AttrUserAgent,
	},
	models.KindSessionHeartbeat: {},
	models.KindSessionEnd: {
		models.AttrDurationMs,
	},
}

//go:generate mockgen -source=sanitizer.go -destination=./mocks/sanitizer_mock.go -package=mocks
type EventSanitizer interface {
	// Sanitize validates a raw event and strips sensitive content from it.
	// The returned event is safe for the rest of the pipeline; a non-nil
	// error means the event was rejected and must not be forwarded.
	Sanitize(raw *RawEvent, receivedAt time.Time, clientIP string) (*models.Event, error)
}

type eventSanitizer struct{}

func NewEventSanitizer() EventSanitizer {
	return &eventSanitizer{}
}

func (s *eventSanitizer) Sanitize(raw *RawEvent, receivedAt time.Time, clientIP string) (*models.Event, error) {
	if raw == nil {
		return nil, errEventRejected("empty event", nil)
	}

	kind := models.EventKind(raw.Type)
	if !kind.IsValid() {
		return nil, errEventRejected(fmt.Sprintf("unknown event kind: %q", raw.Type), nil)
	}

	sessionID, err := s.sessionID(raw.Data)
	if err != nil {
		return nil, err
	}

	timestamp, err := s.timestamp(raw.Data, receivedAt)
	if err != nil {
		return nil, err
	}

	attrs := make(map[string]string)
	for _, key := range allowedAttributes[kind] {
		value, ok := raw.Data[key]
		if !ok {
			continue
		}
		str, ok := stringify(value)
		if !ok {
			continue
		}
		if len(str) > maxAttrValueLen {
			str = str[:maxAttrValueLen]
		}
		attrs[key] = redactString(str)
	}
	if clientIP != "" {
		attrs[models.AttrClientIP] = clientIP
	}

	return &models.Event{
		EventID:    ulid.NewULID(),
		SessionID:  sessionID,
		Kind:       kind,
		Timestamp:  timestamp,
		ReceivedAt: receivedAt,
		Attributes: attrs,
	}, nil
}

func (s *eventSanitizer) sessionID(data map[string]any) (string, error) {
	raw, ok := data["sessionId"]
	if !ok {
		return "", errEventRejected("missing sessionId", nil)
	}
	sessionID, ok := raw.(string)
	if !ok || sessionID == "" {
		return "", errEventRejected("sessionId must be a non-empty string", nil)
	}
	if len(sessionID) > maxSessionIDLen {
		return "", errEventRejected(fmt.Sprintf("sessionId too long: max %d characters", maxSessionIDLen), nil)
	}
	return sessionID, nil
}

// timestamp parses the client-supplied timestamp. A missing timestamp defaults
// to the ingest time; an unparseable one rejects the event.
func (s *eventSanitizer) timestamp(data map[string]any, receivedAt time.Time) (time.Time, error) {
	raw, ok := data["timestamp"]
	if !ok {
		return receivedAt, nil
	}
	str, ok := raw.(string)
	if !ok {
		return time.Time{}, errEventRejected("timestamp must be a string", nil)
	}

	// ISO-8601 with milliseconds, then RFC3339
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", str); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return t, nil
	}
	return time.Time{}, errEventRejected(fmt.Sprintf("invalid timestamp format: %s", str), nil)
}

// stringify converts the string|number wire values to their canonical string
// form. Other JSON types are not representable as attributes.
func stringify(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(value), true
	default:
		return "", false
	}
}
