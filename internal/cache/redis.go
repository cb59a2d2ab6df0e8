package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisCache(ctx context.Context, log *logger.Logger, addr string, ttl time.Duration) (InsightCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{
		log: log.With("service", "RedisInsightCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (*wellness.Insights, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var in wellness.Insights
	if err := json.Unmarshal(raw, &in); err != nil {
		// Undecodable entries are dropped rather than surfaced.
		_ = c.rdb.Del(ctx, key).Err()
		c.log.Warn("Dropped undecodable cache entry", "key", key, "error", err)
		return nil, false, nil
	}
	return &in, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, in *wellness.Insights) error {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
