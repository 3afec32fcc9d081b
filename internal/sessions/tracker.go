package sessions

import (
	"sync"
	"time"
)

// sessionRecord is the running state of a single session while it is live.
type sessionRecord struct {
	startedAt    time.Time
	lastActivity time.Time
	pageViews    int
	eventCount   int
}

// Tracker maintains live session state keyed by session ID. Two instances
// back the pipeline: a short-timeout one answering "who is online right now"
// and a long-timeout registry holding per-session counters until the session
// ends or expires.
//
// All methods are safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
	timeout  time.Duration
}

func NewTracker(timeout time.Duration) *Tracker {
	return &Tracker{
		sessions: make(map[string]*sessionRecord),
		timeout:  timeout,
	}
}

// Touch records activity for a session, creating it when unseen. Events can
// arrive out of order, so lastActivity only moves forward: touching with an
// older timestamp never shortens a session's remaining lifetime.
func (t *Tracker) Touch(sessionID string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.touchLocked(sessionID, at)
}

// touchLocked upserts the session record. Callers must hold t.mu.
func (t *Tracker) touchLocked(sessionID string, at time.Time) *sessionRecord {
	record, ok := t.sessions[sessionID]
	if !ok {
		record = &sessionRecord{
			startedAt:    at,
			lastActivity: at,
			eventCount:   1,
		}
		t.sessions[sessionID] = record
		return record
	}

	record.eventCount++
	if at.After(record.lastActivity) {
		record.lastActivity = at
	}
	if at.Before(record.startedAt) {
		record.startedAt = at
	}
	return record
}

// RecordPageView increments the page view count used for bounce detection.
// The session is touched implicitly. Touch and increment happen under one
// lock acquisition so a concurrent sweep or end cannot slip between them.
func (t *Tracker) RecordPageView(sessionID string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.touchLocked(sessionID, at).pageViews++
}

// EndSession removes a session and reports its outcome: the observed duration
// and whether it bounced (at most one page view). Ending an unknown session is
// a no-op and reports ok=false.
func (t *Tracker) EndSession(sessionID string, at time.Time) (duration time.Duration, bounced bool, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, exists := t.sessions[sessionID]
	if !exists {
		return 0, false, false
	}
	delete(t.sessions, sessionID)

	end := record.lastActivity
	if at.After(end) {
		end = at
	}
	return end.Sub(record.startedAt), record.pageViews <= 1, true
}

// IsActive reports whether the session exists and has activity within the
// tracker's timeout as of now.
func (t *Tracker) IsActive(sessionID string, now time.Time) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	record, ok := t.sessions[sessionID]
	return ok && now.Sub(record.lastActivity) < t.timeout
}

// ActiveCount returns the number of sessions with activity within the timeout
// as of now. Expired-but-unswept sessions are excluded.
func (t *Tracker) ActiveCount(now time.Time) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, record := range t.sessions {
		if now.Sub(record.lastActivity) < t.timeout {
			count++
		}
	}
	return count
}

// Len returns the total number of tracked sessions, expired or not.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Sweep removes every session whose last activity is at least one timeout in
// the past and returns the evicted IDs. With no new activity, repeated sweeps
// converge the tracker to empty.
func (t *Tracker) Sweep(now time.Time) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var evicted []string
	for sessionID, record := range t.sessions {
		if now.Sub(record.lastActivity) >= t.timeout {
			delete(t.sessions, sessionID)
			evicted = append(evicted, sessionID)
		}
	}
	return evicted
}

// SweepEnded removes expired sessions and reports each one's outcome, for
// registries that need to roll a session's counters into aggregates when it
// times out rather than ends explicitly.
type EndedSession struct {
	SessionID string
	Duration  time.Duration
	Bounced   bool
}

func (t *Tracker) SweepEnded(now time.Time) []EndedSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ended []EndedSession
	for sessionID, record := range t.sessions {
		if now.Sub(record.lastActivity) >= t.timeout {
			delete(t.sessions, sessionID)
			ended = append(ended, EndedSession{
				SessionID: sessionID,
				Duration:  record.lastActivity.Sub(record.startedAt),
				Bounced:   record.pageViews <= 1,
			})
		}
	}
	return ended
}
