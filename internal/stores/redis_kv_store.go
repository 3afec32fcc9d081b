package stores

import (
	"context"
	"fmt"
	"time"

	"web-analytics/internal/shared/configs"

	"github.com/redis/go-redis/v9"
)

const (
	activeSessionsKey = "analytics:active_sessions"
	sessionKeyPrefix  = "analytics:session:"
)

// redisKeyValueStore mirrors live counters and session membership into Redis.
// Every operation is a single round trip or one pipeline; callers treat
// failures as non-fatal.
type redisKeyValueStore struct {
	client *redis.Client
}

// OpenRedis dials Redis and verifies connectivity.
func OpenRedis(ctx context.Context, cfg configs.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func NewRedisKeyValueStore(client *redis.Client) KeyValueStore {
	return &redisKeyValueStore{client: client}
}

func (s *redisKeyValueStore) IncrementWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) error {
	pipe := s.client.Pipeline()
	pipe.IncrBy(ctx, key, delta)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return nil
}

// AddActiveSession adds the session to the shared active set and refreshes a
// per-session liveness key. The set itself expires with the longest-lived
// member's TTL; membership of stale sessions is reconciled by
// RemoveActiveSessions on sweep.
func (s *redisKeyValueStore) AddActiveSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, activeSessionsKey, sessionID)
	pipe.Expire(ctx, activeSessionsKey, ttl)
	pipe.Set(ctx, sessionKeyPrefix+sessionID, "1", ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add active session %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisKeyValueStore) RemoveActiveSessions(ctx context.Context, sessionIDs []string) error {
	if len(sessionIDs) == 0 {
		return nil
	}

	members := make([]interface{}, 0, len(sessionIDs))
	keys := make([]string, 0, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		members = append(members, sessionID)
		keys = append(keys, sessionKeyPrefix+sessionID)
	}

	pipe := s.client.Pipeline()
	pipe.SRem(ctx, activeSessionsKey, members...)
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove active sessions: %w", err)
	}
	return nil
}

func (s *redisKeyValueStore) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := s.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}
