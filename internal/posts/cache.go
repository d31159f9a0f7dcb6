// internal/posts/cache.go
// Feed page caching behind Redis. Pages are keyed per viewer (is_liked is
// viewer-specific) and carry a generation number bumped on every post
// mutation, so invalidation is one INCR instead of a key scan.

package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const feedGenerationKey = "feed:gen"

// FeedCache caches serialized feed pages. A nil client disables caching,
// matching the optional Redis wiring at startup.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

func (c *FeedCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *FeedCache) key(ctx context.Context, viewerID int64) string {
	gen, err := c.client.Get(ctx, feedGenerationKey).Int64()
	if err != nil {
		gen = 0
	}
	return fmt.Sprintf("feed:v%d:viewer:%d", gen, viewerID)
}

// Get returns the cached page for a viewer, or (nil, false) on miss
func (c *FeedCache) Get(ctx context.Context, viewerID int64) ([]Post, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.client.Get(ctx, c.key(ctx, viewerID)).Bytes()
	if err != nil {
		return nil, false
	}

	var posts []Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false
	}
	return posts, true
}

// Set stores a feed page with the configured TTL. Failures are ignored; the
// cache is best-effort.
func (c *FeedCache) Set(ctx context.Context, viewerID int64, posts []Post) {
	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(posts)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(ctx, viewerID), raw, c.ttl)
}

// Invalidate bumps the feed generation, orphaning every cached page. Old
// pages expire via their TTL.
func (c *FeedCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	c.client.Incr(ctx, feedGenerationKey)
}
