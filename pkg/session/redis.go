package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL bounds how long an idle session survives in Redis.
// Every Put refreshes the TTL, so active sessions stay alive.
const DefaultSessionTTL = 30 * time.Minute

// redisKeyPrefix namespaces session keys.
const redisKeyPrefix = "places:session:"

// RedisStore is a Redis-backed Store for deployments with more than one
// serving instance, or where sessions should survive a restart.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed store. A non-positive ttl falls back
// to DefaultSessionTTL.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Get retrieves a session by id.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.redis.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &s, nil
}

// Put stores or replaces a session and refreshes its TTL.
func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.redis.Set(ctx, redisKeyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a session.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.redis.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
