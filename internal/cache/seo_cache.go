package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thenextevent/site-api/internal/models"
)

// seoTTL bounds staleness for the public by-URL lookup; every write path also
// invalidates explicitly.
const seoTTL = 15 * time.Minute

// SeoCache caches active SEO metadata by page URL. The by-URL lookup is the
// only endpoint hit by the public site on every page render, so it is the one
// read path worth keeping off the database.
type SeoCache struct {
	redis *RedisClient
}

// NewSeoCache creates a new SeoCache.
func NewSeoCache(redis *RedisClient) *SeoCache {
	return &SeoCache{redis: redis}
}

func (c *SeoCache) key(pageURL string) string {
	return fmt.Sprintf("seo:url:%s", pageURL)
}

// Get returns the cached metadata for a page URL, or (nil, nil) on a miss.
func (c *SeoCache) Get(ctx context.Context, pageURL string) (*models.SeoMetadata, error) {
	raw, err := c.redis.Get(ctx, c.key(pageURL))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var meta models.SeoMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		// Treat a corrupt entry as a miss and drop it.
		_ = c.redis.Delete(ctx, c.key(pageURL))
		return nil, nil
	}
	return &meta, nil
}

// Set stores metadata under its page URL.
func (c *SeoCache) Set(ctx context.Context, meta *models.SeoMetadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal seo metadata: %w", err)
	}
	return c.redis.Set(ctx, c.key(meta.PageURL), string(raw), seoTTL)
}

// Invalidate removes the entries for the given page URLs.
func (c *SeoCache) Invalidate(ctx context.Context, pageURLs ...string) error {
	keys := make([]string, 0, len(pageURLs))
	for _, u := range pageURLs {
		keys = append(keys, c.key(u))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Delete(ctx, keys...)
}

// InvalidateAll clears every cached page. Used after bulk updates where the
// affected URLs are not individually known.
func (c *SeoCache) InvalidateAll(ctx context.Context) error {
	return c.redis.DeleteByPattern(ctx, "seo:url:*")
}
