package stores

import (
	"context"
	"time"
)

// KeyValueStore is the shared, cross-instance view of live state. The
// in-process trackers and counters stay authoritative for serving; the
// aggregator mirrors into this store best-effort so other instances and
// external consumers can see the same numbers.
//
//go:generate mockgen -source=kv_store.go -destination=./mocks/kv_store_mock.go -package=mocks
type KeyValueStore interface {
	// IncrementWithTTL adds delta to the counter at key and refreshes its
	// expiry so idle windows age out on their own.
	IncrementWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) error
	AddActiveSession(ctx context.Context, sessionID string, ttl time.Duration) error
	RemoveActiveSessions(ctx context.Context, sessionIDs []string) error
	Publish(ctx context.Context, channel string, payload []byte) error
}

type noopKeyValueStore struct{}

// NewNoopKeyValueStore returns a KeyValueStore that accepts everything and
// stores nothing, for deployments running without Redis.
func NewNoopKeyValueStore() KeyValueStore {
	return &noopKeyValueStore{}
}

func (noopKeyValueStore) IncrementWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) error {
	return nil
}

func (noopKeyValueStore) AddActiveSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	return nil
}

func (noopKeyValueStore) RemoveActiveSessions(ctx context.Context, sessionIDs []string) error {
	return nil
}

func (noopKeyValueStore) Publish(ctx context.Context, channel string, payload []byte) error {
	return nil
}
