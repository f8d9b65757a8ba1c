package breakgame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL keeps a session around long enough to show the completion
// notice after the break ends.
const DefaultRedisTTL = Duration + 30*time.Minute

// RedisStore keeps sessions as JSON under "{prefix}:{userID}".
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// RedisStoreConfig configures a RedisStore.
type RedisStoreConfig struct {
	Prefix string        // key prefix, default "break"
	TTL    time.Duration // key expiry, default DefaultRedisTTL
}

// NewRedisStore creates a SessionStore on top of a go-redis client.
func NewRedisStore(client redis.Cmdable, cfg RedisStoreConfig) *RedisStore {
	if cfg.Prefix == "" {
		cfg.Prefix = "break"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultRedisTTL
	}
	return &RedisStore{client: client, prefix: cfg.Prefix, ttl: cfg.TTL, now: time.Now}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisStore) key(userID string) string {
	return r.prefix + ":" + userID
}

// Load fetches and decodes the user's session.
func (r *RedisStore) Load(ctx context.Context, userID string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get break session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode break session: %w", err)
	}
	return &s, nil
}

// Save encodes the session and refreshes its expiry.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = r.now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode break session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set break session: %w", err)
	}
	return nil
}

// Delete removes the user's session.
func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete break session: %w", err)
	}
	return nil
}
