package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/makerstash/diy-backend/internal/projects/domain"
)

const (
	listKey          = "diy:projects:all" // cached List result
	projectKeyPrefix = "diy:project:"     // cached single record: diy:project:{id}
)

// CachedStore is a read-through cache over a Store. List and GetByID results
// live in Redis for a short TTL; Create and Delete invalidate. Redis being
// unreachable degrades to the underlying store, it never fails a request.
type CachedStore struct {
	store  Store
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(store Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedStore{store: store, client: client, ttl: ttl}
}

func (c *CachedStore) List(ctx context.Context) ([]domain.Project, error) {
	data, err := c.client.Get(ctx, listKey).Bytes()
	if err == nil {
		var cached []domain.Project
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		// corrupt entry, drop it and refetch
		c.client.Del(ctx, listKey)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[cache] list read failed, serving from store: %v", err)
	}

	items, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := c.client.Set(ctx, listKey, data, c.ttl).Err(); err != nil {
			log.Printf("[cache] list write failed: %v", err)
		}
	}
	return items, nil
}

func (c *CachedStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	key := projectKeyPrefix + id

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached domain.Project
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[cache] get read failed, serving from store: %v", err)
	}

	p, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Printf("[cache] get write failed: %v", err)
		}
	}
	return p, nil
}

func (c *CachedStore) Create(ctx context.Context, np domain.NewProject) (*domain.Project, error) {
	p, err := c.store.Create(ctx, np)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, listKey)
	return p, nil
}

func (c *CachedStore) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, listKey, projectKeyPrefix+id)
	return nil
}

// ListImageURLs is a sweeper-only read; it bypasses the cache so the keep-list
// is never stale.
func (c *CachedStore) ListImageURLs(ctx context.Context) ([]string, error) {
	return c.store.ListImageURLs(ctx)
}

func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[cache] invalidate failed: %v", err)
	}
}
