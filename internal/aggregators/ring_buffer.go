package aggregators

import (
	"web-analytics/internal/models"
)

// ringBuffer is a fixed-capacity FIFO of the most recent events. Once full,
// each add overwrites the oldest entry. Not safe for concurrent use; the
// aggregator serializes access.
type ringBuffer struct {
	events []*models.Event
	next   int
	size   int
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{events: make([]*models.Event, capacity)}
}

func (r *ringBuffer) add(event *models.Event) {
	r.events[r.next] = event
	r.next = (r.next + 1) % len(r.events)
	if r.size < len(r.events) {
		r.size++
	}
}

func (r *ringBuffer) len() int { return r.size }

// newest returns up to limit events, most recently added first.
func (r *ringBuffer) newest(limit int) []*models.Event {
	if limit > r.size {
		limit = r.size
	}
	out := make([]*models.Event, 0, limit)
	for i := 1; i <= limit; i++ {
		out = append(out, r.events[(r.next-i+len(r.events))%len(r.events)])
	}
	return out
}

// eachNewest visits events most recent first until fn returns false.
func (r *ringBuffer) eachNewest(fn func(*models.Event) bool) {
	for i := 1; i <= r.size; i++ {
		if !fn(r.events[(r.next-i+len(r.events))%len(r.events)]) {
			return
		}
	}
}
