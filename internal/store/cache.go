package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

// CachedStore memoizes candidate queries per filter. Any write purges the
// cache so freshly created ideas become visible to the next generation.
type CachedStore struct {
	IdeaStore
	cache *expirable.LRU[string, []models.SourceIdea]

	// generation is bumped on every purge; a query that started before a
	// purge must not repopulate the cache.
	mu         sync.Mutex
	generation uint64
}

func NewCachedStore(inner IdeaStore, size int, ttl time.Duration) *CachedStore {
	if size <= 0 {
		size = 256
	}
	return &CachedStore{
		IdeaStore: inner,
		cache:     expirable.NewLRU[string, []models.SourceIdea](size, nil, ttl),
	}
}

func (c *CachedStore) FetchCandidates(ctx context.Context, profile models.UserProfile, limit int) ([]models.SourceIdea, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	key := FilterFor(profile).Key() + "|l=" + strconv.Itoa(limit)
	if ideas, ok := c.cache.Get(key); ok {
		return append([]models.SourceIdea(nil), ideas...), nil
	}

	c.mu.Lock()
	started := c.generation
	c.mu.Unlock()

	ideas, err := c.IdeaStore.FetchCandidates(ctx, profile, limit)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == started {
		c.cache.Add(key, ideas)
	}
	c.mu.Unlock()
	return append([]models.SourceIdea(nil), ideas...), nil
}

func (c *CachedStore) Create(ctx context.Context, idea *models.SourceIdea) error {
	defer c.purge()
	return c.IdeaStore.Create(ctx, idea)
}

func (c *CachedStore) BulkCreate(ctx context.Context, ideas []models.SourceIdea) (int, error) {
	defer c.purge()
	return c.IdeaStore.BulkCreate(ctx, ideas)
}

func (c *CachedStore) Delete(ctx context.Context, id string) error {
	defer c.purge()
	return c.IdeaStore.Delete(ctx, id)
}

func (c *CachedStore) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.cache.Purge()
}

func (c *CachedStore) Len() int {
	return c.cache.Len()
}
