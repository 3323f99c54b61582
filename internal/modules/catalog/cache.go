package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
)

const (
	cacheTTL    = 5 * time.Minute
	notFoundTTL = 1 * time.Minute

	// notFoundSentinel caches misses so repeated lookups of a deleted
	// product skip the store for a while.
	notFoundSentinel = "notfound"

	productKeyPrefix = "catalog:product:"
	listKeyPrefix    = "catalog:list:"
	generationKey    = "catalog:gen"
)

// NewRedisClient parses a redis URL, dials and verifies with a ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = 10
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// cachedRepo is a read-through cache in front of a Repository. Products
// cache per id; lists cache under a generation-stamped key, and every
// write bumps the generation so stale lists age out without tracking
// individual filters. Cache failures log and fall through to the store.
type cachedRepo struct {
	repo   Repository
	client *redis.Client
	logger *slog.Logger
}

// NewCachedRepository wraps repo with the redis cache.
func NewCachedRepository(repo Repository, client *redis.Client, logger *slog.Logger) Repository {
	return &cachedRepo{repo: repo, client: client, logger: logger}
}

func (c *cachedRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	key := productKeyPrefix + id
	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if val == notFoundSentinel {
			return nil, fmt.Errorf("get product: %w: %s", docstore.ErrNotFound, id)
		}
		var p Product
		if err := json.Unmarshal([]byte(val), &p); err == nil {
			return &p, nil
		}
		c.logger.Warn("cache decode failed", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}

	p, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.set(ctx, key, notFoundSentinel, notFoundTTL)
		}
		return nil, err
	}
	if data, err := json.Marshal(p); err == nil {
		c.set(ctx, key, string(data), cacheTTL)
	}
	return p, nil
}

func (c *cachedRepo) List(ctx context.Context, f docstore.Filter, limit int64) ([]*Product, error) {
	key := c.listKey(ctx, f, limit)
	if key != "" {
		if val, err := c.client.Get(ctx, key).Result(); err == nil {
			var products []*Product
			if err := json.Unmarshal([]byte(val), &products); err == nil {
				return products, nil
			}
			c.logger.Warn("cache decode failed", "key", key)
		} else if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
	}

	products, err := c.repo.List(ctx, f, limit)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if data, err := json.Marshal(products); err == nil {
			c.set(ctx, key, string(data), cacheTTL)
		}
	}
	return products, nil
}

func (c *cachedRepo) Create(ctx context.Context, p *Product) (*Product, error) {
	created, err := c.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	c.bumpGeneration(ctx)
	return created, nil
}

func (c *cachedRepo) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	updated, err := c.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return updated, nil
}

func (c *cachedRepo) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// listKey versions list entries by the current generation. Returns ""
// when the generation cannot be read, disabling caching for the call.
func (c *cachedRepo) listKey(ctx context.Context, f docstore.Filter, limit int64) string {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache generation read failed", "error", err)
		return ""
	}
	return fmt.Sprintf("%s%d:%d:%+v", listKeyPrefix, gen, limit, f.Clauses())
}

func (c *cachedRepo) set(ctx context.Context, key, val string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *cachedRepo) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, productKeyPrefix+id).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", "id", id, "error", err)
	}
	c.bumpGeneration(ctx)
}

func (c *cachedRepo) bumpGeneration(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("cache generation bump failed", "error", err)
	}
}
