package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ziadkadry99/agentic/internal/apperr"
	"github.com/ziadkadry99/agentic/internal/llm"
)

const keyPrefix = "session:"

// RedisStore persists sessions in Redis with a per-session TTL.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis at the given URL
// (redis://host:port/db form) and verifies the connection with a ping.
// ttl of 0 uses DefaultTTL.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	if url == "" {
		return nil, fmt.Errorf("session: redis url is empty: %w", apperr.ErrConfiguration)
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %v: %w", err, apperr.ErrConfiguration)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session: redis ping: %v: %w", err, apperr.ErrUpstream)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]llm.Message, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get %s: %v: %w", id, err, apperr.ErrUpstream)
	}

	var history []llm.Message
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return history, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, history []llm.Message) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", id, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: set %s: %v: %w", id, err, apperr.ErrUpstream)
	}
	return nil
}

// Clear scans for session keys and deletes them in batches.
func (s *RedisStore) Clear(ctx context.Context) (int64, error) {
	var removed int64
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()

	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			n, err := s.rdb.Del(ctx, batch...).Result()
			if err != nil {
				return removed, fmt.Errorf("session: delete batch: %v: %w", err, apperr.ErrUpstream)
			}
			removed += n
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("session: scan: %v: %w", err, apperr.ErrUpstream)
	}
	if len(batch) > 0 {
		n, err := s.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return removed, fmt.Errorf("session: delete batch: %v: %w", err, apperr.ErrUpstream)
		}
		removed += n
	}
	return removed, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
