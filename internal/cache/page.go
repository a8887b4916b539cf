// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go manages the Valkey page cache shared with the site renderer.
// Rendered pages are keyed by locale and url; the seeder only drops entries
// so the next request renders freshly published content.
package cache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// pageKeyPrefix is the Valkey key prefix for cached pages.
const pageKeyPrefix = "page:"

// PageCache drops rendered pages from the Valkey page cache. The renderer
// fills it; published documents make its entries stale.
type PageCache struct {
	client *redis.Client
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client) *PageCache {
	return &PageCache{client: client}
}

// PageKey returns the cache key for a url in a locale.
func PageKey(locale, url string) string {
	return pageKeyPrefix + locale + ":" + url
}

// InvalidatePage removes a single page from the cache.
func (pc *PageCache) InvalidatePage(ctx context.Context, locale, url string) {
	if err := pc.client.Del(ctx, PageKey(locale, url)).Err(); err != nil {
		slog.Warn("page cache invalidate error", "locale", locale, "url", url, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "locale", locale, "url", url)
}

// InvalidateAll removes all cached pages by scanning for the prefix.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
