package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-studio/internal/types"
)

// DefaultTTL is how long a category list stays cached
const DefaultTTL = 10 * time.Minute

// LoadTimeout bounds a shared load. It does not follow any single caller's
// context, so one cancelled request cannot fail the others waiting on it.
const LoadTimeout = 30 * time.Second

const keyPrefix = "resume-studio:categories:"

var lookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "resume_category_cache_lookups_total",
		Help: "Category cache lookups by result",
	},
	[]string{"result"},
)

// CategoryLoader reads categories from the source of truth
type CategoryLoader func(ctx context.Context, categoryType string) ([]types.Category, error)

// Categories caches category lists per type. Concurrent misses for the same
// type share one load. Redis failures fall through to the loader.
type Categories struct {
	rdb    redis.Cmdable
	load   CategoryLoader
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewCategories creates a cache. A zero ttl uses DefaultTTL.
func NewCategories(rdb redis.Cmdable, load CategoryLoader, ttl time.Duration, logger *zap.Logger) *Categories {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Categories{rdb: rdb, load: load, ttl: ttl, logger: logger}
}

// Key returns the Redis key for a category type
func Key(categoryType string) string {
	return keyPrefix + categoryType
}

// List returns the categories of a type, from Redis when present
func (c *Categories) List(ctx context.Context, categoryType string) ([]types.Category, error) {
	key := Key(categoryType)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cats []types.Category
		if jsonErr := json.Unmarshal(raw, &cats); jsonErr == nil {
			lookupsTotal.WithLabelValues("hit").Inc()
			return cats, nil
		}
		c.logger.Warn("discarding corrupt cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("category cache read failed", zap.String("key", key), zap.Error(err))
	}
	lookupsTotal.WithLabelValues("miss").Inc()

	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		cats, err := c.load(loadCtx, categoryType)
		if err != nil {
			return nil, err
		}
		c.store(loadCtx, key, cats)
		return cats, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to load categories %q: %w", categoryType, res.Err)
		}
		return res.Val.([]types.Category), nil
	}
}

// Invalidate drops the cached list for a type
func (c *Categories) Invalidate(ctx context.Context, categoryType string) error {
	if err := c.rdb.Del(ctx, Key(categoryType)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate categories %q: %w", categoryType, err)
	}
	return nil
}

func (c *Categories) store(ctx context.Context, key string, cats []types.Category) {
	data, err := json.Marshal(cats)
	if err != nil {
		c.logger.Warn("failed to encode categories", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("category cache write failed", zap.String("key", key), zap.Error(err))
	}
}
