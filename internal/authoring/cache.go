package authoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/worksheet-gen/internal/platform/cache"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

// DefaultCacheTTL is how long a generated worksheet is reused.
const DefaultCacheTTL = 24 * time.Hour

// ErrCacheMiss is returned by Cache.Get when no fresh entry exists.
var ErrCacheMiss = errors.New("generation cache miss")

// Generated is the cached outcome of one worksheet generation.
type Generated struct {
	Title        string               `json:"title"`
	Instructions string               `json:"instructions"`
	Questions    []worksheet.Question `json:"questions"`
}

func (g Generated) clone() Generated {
	qs := make([]worksheet.Question, len(g.Questions))
	for i, q := range g.Questions {
		qs[i] = q.Clone()
	}
	g.Questions = qs
	return g
}

// Cache stores generations keyed by worksheet.CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (Generated, error)
	Set(ctx context.Context, key string, g Generated) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (Generated, error) { return Generated{}, ErrCacheMiss }
func (NopCache) Set(context.Context, string, Generated) error   { return nil }

type memoryEntry struct {
	value   Generated
	expires time.Time
}

// MemoryCache is an in-process cache with expiry and a size bound. When full,
// it drops every entry rather than tracking recency.
type MemoryCache struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryCache creates a MemoryCache. maxEntries <= 0 means unbounded.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Generated, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Generated{}, ErrCacheMiss
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return Generated{}, ErrCacheMiss
	}
	return e.value.clone(), nil
}

func (c *MemoryCache) Set(_ context.Context, key string, g Generated) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		clear(c.entries)
	}
	c.entries[key] = memoryEntry{value: g.clone(), expires: c.now().Add(c.ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RedisCache shares generations across service instances.
type RedisCache struct {
	client *cache.Cache
	ttl    time.Duration
}

// NewRedisCache wraps a connected platform cache.
func NewRedisCache(client *cache.Cache, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Generated, error) {
	var g Generated
	err := c.client.GetJSON(ctx, key, &g)
	if errors.Is(err, cache.ErrMiss) {
		return Generated{}, ErrCacheMiss
	}
	if err != nil {
		return Generated{}, err
	}
	return g, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, g Generated) error {
	return c.client.SetJSON(ctx, key, g, c.ttl)
}

// TieredCache reads the local level first, then the shared one, refilling the
// local level on a shared hit. Writes go to both.
type TieredCache struct {
	L1 Cache
	L2 Cache
}

func (c TieredCache) Get(ctx context.Context, key string) (Generated, error) {
	g, err := c.L1.Get(ctx, key)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("local generation cache read failed", "key", key, "error", err)
	}

	g, err = c.L2.Get(ctx, key)
	if err != nil {
		return Generated{}, err
	}
	if err := c.L1.Set(ctx, key, g); err != nil {
		slog.Warn("local generation cache refill failed", "key", key, "error", err)
	}
	return g, nil
}

func (c TieredCache) Set(ctx context.Context, key string, g Generated) error {
	var errs []error
	if err := c.L1.Set(ctx, key, g); err != nil {
		errs = append(errs, fmt.Errorf("local: %w", err))
	}
	if err := c.L2.Set(ctx, key, g); err != nil {
		errs = append(errs, fmt.Errorf("shared: %w", err))
	}
	return errors.Join(errs...)
}
