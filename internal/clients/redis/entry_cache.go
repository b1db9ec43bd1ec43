// Package redis provides an optional hot read-through layer in front of
// the prediction cache's document store. The document store stays the
// source of truth; everything here is best effort.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playfinity/playfinity-backend/internal/pkg/ctxutil"
	"github.com/playfinity/playfinity-backend/internal/pkg/envutil"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
)

const keyPrefix = "prediction_cache:"

type EntryCache interface {
	GetEntry(ctx context.Context, key string) (map[string]any, bool)
	SetEntry(ctx context.Context, key string, data map[string]any)
	Invalidate(ctx context.Context, key string)
	InvalidateAll(ctx context.Context)
	Close() error
}

type entryCache struct {
	log    *logger.Logger
	client *redis.Client
	ttl    time.Duration
}

// NewEntryCache connects to REDIS_ADDR and verifies the connection with
// a bounded ping.
func NewEntryCache(log *logger.Logger) (EntryCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.Get("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envutil.Get("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &entryCache{
		log:    log.With("service", "redis.EntryCache"),
		client: client,
		ttl:    envutil.Duration("PREDICTION_CACHE_TTL", time.Hour),
	}, nil
}

func (ec *entryCache) Close() error {
	if ec == nil || ec.client == nil {
		return nil
	}
	return ec.client.Close()
}

func (ec *entryCache) GetEntry(ctx context.Context, key string) (map[string]any, bool) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 2*time.Second)
	defer cancel()

	raw, err := ec.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			ec.log.Warn("Redis get failed", "key", key, "error", err.Error())
		}
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		ec.log.Warn("Redis entry decode failed", "key", key, "error", err.Error())
		return nil, false
	}
	return data, true
}

func (ec *entryCache) SetEntry(ctx context.Context, key string, data map[string]any) {
	if data == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		ec.log.Warn("Redis entry encode failed", "key", key, "error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 2*time.Second)
	defer cancel()
	if err := ec.client.Set(ctx, keyPrefix+key, raw, ec.ttl).Err(); err != nil {
		ec.log.Warn("Redis set failed", "key", key, "error", err.Error())
	}
}

func (ec *entryCache) Invalidate(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 2*time.Second)
	defer cancel()
	if err := ec.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		ec.log.Warn("Redis delete failed", "key", key, "error", err.Error())
	}
}

func (ec *entryCache) InvalidateAll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 10*time.Second)
	defer cancel()

	iter := ec.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := ec.client.Del(ctx, iter.Val()).Err(); err != nil {
			ec.log.Warn("Redis delete failed", "key", iter.Val(), "error", err.Error())
		}
	}
	if err := iter.Err(); err != nil {
		ec.log.Warn("Redis scan failed", "error", err.Error())
	}
}
