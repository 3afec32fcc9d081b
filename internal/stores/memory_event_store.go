package stores

import (
	"context"
	"sort"
	"sync"
	"time"

	"web-analytics/internal/models"
)

// memoryEventStore keeps the event archive in process memory. It backs tests
// and single-node deployments that run without ClickHouse.
type memoryEventStore struct {
	mu     sync.RWMutex
	events []*models.Event
}

func NewMemoryEventStore() EventStore {
	return &memoryEventStore{}
}

func (s *memoryEventStore) Append(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	s.events = append(s.events, events...)
	s.mu.Unlock()
	return nil
}

func (s *memoryEventStore) Query(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	s.mu.RLock()
	matched := make([]*models.Event, 0)
	for _, event := range s.events {
		if !event.Timestamp.Before(from) && event.Timestamp.Before(to) {
			matched = append(matched, event)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})
	return matched, nil
}

func (s *memoryEventStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var removed int64
	for _, event := range s.events {
		if event.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, event)
	}
	for i := len(kept); i < len(s.events); i++ {
		s.events[i] = nil
	}
	s.events = kept
	return removed, nil
}
