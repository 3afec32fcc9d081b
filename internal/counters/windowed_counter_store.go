package counters

import (
	"hash/fnv"
	"strings"
	"sync"
	"time"
)

const defaultShardCount = 16

type bucketKey struct {
	metric string
	bucket int64 // unix seconds, truncated to the minute
}

type shard struct {
	mu      sync.RWMutex
	buckets map[bucketKey]uint64
}

// WindowedCounterStore keeps per-minute counters for named metrics and answers
// range sums over them. Counters are sharded by metric name so concurrent
// ingest workers contend only within a shard.
//
// Metric names are free-form; the pipeline uses flat names ("events",
// "errors") and prefixed families ("feature:export", "geo:DE") that can be
// summed as a group with SumByPrefix.
type WindowedCounterStore struct {
	shards [defaultShardCount]*shard
}

func NewWindowedCounterStore() *WindowedCounterStore {
	store := &WindowedCounterStore{}
	for i := range store.shards {
		store.shards[i] = &shard{buckets: make(map[bucketKey]uint64)}
	}
	return store
}

func (s *WindowedCounterStore) shardFor(metric string) *shard {
	hasher := fnv.New32a()
	hasher.Write([]byte(metric))
	return s.shards[hasher.Sum32()%defaultShardCount]
}

func minuteBucket(at time.Time) int64 {
	return at.UTC().Truncate(time.Minute).Unix()
}

// Increment adds one to the metric's counter for the minute containing at.
func (s *WindowedCounterStore) Increment(metric string, at time.Time) {
	s.IncrementBy(metric, at, 1)
}

func (s *WindowedCounterStore) IncrementBy(metric string, at time.Time, delta uint64) {
	key := bucketKey{metric: metric, bucket: minuteBucket(at)}

	shard := s.shardFor(metric)
	shard.mu.Lock()
	shard.buckets[key] += delta
	shard.mu.Unlock()
}

// Get returns the counter for the exact minute containing at. A bucket that
// was never incremented, or was evicted, reads as zero.
func (s *WindowedCounterStore) Get(metric string, at time.Time) uint64 {
	key := bucketKey{metric: metric, bucket: minuteBucket(at)}

	shard := s.shardFor(metric)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return shard.buckets[key]
}

// Sum totals the metric's counters over the half-open range [from, to).
func (s *WindowedCounterStore) Sum(metric string, from, to time.Time) uint64 {
	start, end := minuteBucket(from), minuteBucket(to)

	shard := s.shardFor(metric)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	var total uint64
	for bucket := start; bucket < end; bucket += 60 {
		total += shard.buckets[bucketKey{metric: metric, bucket: bucket}]
	}
	return total
}

// SumByPrefix totals every metric sharing the prefix over [from, to), keyed by
// the metric name with the prefix stripped. Metrics whose range sum is zero
// are omitted.
func (s *WindowedCounterStore) SumByPrefix(prefix string, from, to time.Time) map[string]uint64 {
	start, end := minuteBucket(from), minuteBucket(to)
	totals := make(map[string]uint64)

	for _, shard := range s.shards {
		shard.mu.RLock()
		for key, count := range shard.buckets {
			if key.bucket < start || key.bucket >= end {
				continue
			}
			name, ok := strings.CutPrefix(key.metric, prefix)
			if !ok {
				continue
			}
			totals[name] += count
		}
		shard.mu.RUnlock()
	}
	return totals
}

// EvictOlderThan drops every bucket strictly before the minute containing
// cutoff and returns the number of buckets removed.
func (s *WindowedCounterStore) EvictOlderThan(cutoff time.Time) int {
	limit := minuteBucket(cutoff)

	evicted := 0
	for _, shard := range s.shards {
		shard.mu.Lock()
		for key := range shard.buckets {
			if key.bucket < limit {
				delete(shard.buckets, key)
				evicted++
			}
		}
		shard.mu.Unlock()
	}
	return evicted
}
