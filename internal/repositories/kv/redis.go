package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each key as a plain Redis string without expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis parses a redis:// URL, connects and pings. prefix namespaces
// keys so several installations can share a database.
func OpenRedis(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis: %v", common.ErrExternalService, err)
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) k(key string) string {
	return joinKey(r.prefix, ":", key)
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.k(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return v, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.k(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

// SetMany sends all writes in one MULTI/EXEC block.
func (r *RedisStore) SetMany(ctx context.Context, pairs map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range pairs {
			p.Set(ctx, r.k(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set kv batch: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
