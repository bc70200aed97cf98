// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"cyberfolio/internal/store"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute

	// DefaultMemoryEntries caps the in-process cache.
	DefaultMemoryEntries = 256
)

// Pages caches rendered public pages. Errors never surface to callers:
// a failing cache behaves like a miss.
type Pages interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidateAll(ctx context.Context)
}

// PageKey builds the cache key for a page rendered at store revision rev.
// path is the request path plus any selector, e.g. "home" or "blog/1".
// Partial (HTMX) renders are cached apart from full pages.
func PageKey(rev uint64, path string, partial bool) string {
	if partial {
		return fmt.Sprintf("r%d:%s:partial", rev, path)
	}
	return fmt.Sprintf("r%d:%s", rev, path)
}

// InvalidateOnChange clears c after every store mutation. Keys already
// carry the revision, so this only reclaims space early.
func InvalidateOnChange(cs *store.ContentStore, c Pages) (unsubscribe func()) {
	return cs.Subscribe(func(e store.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		c.InvalidateAll(ctx)
		slog.Debug("page cache invalidated", "kind", e.Kind, "revision", e.Revision)
	})
}

// ValkeyPages keeps rendered pages in Valkey.
type ValkeyPages struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyPages creates a page cache backed by the given Valkey client.
func NewValkeyPages(client *redis.Client, ttl time.Duration) *ValkeyPages {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &ValkeyPages{client: client, ttl: ttl}
}

func (pc *ValkeyPages) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

func (pc *ValkeyPages) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes all cached pages by scanning for the prefix.
func (pc *ValkeyPages) InvalidateAll(ctx context.Context) {
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
		slog.Debug("page cache cleared", "deleted", deleted)
	}
}

type memoryPage struct {
	html    []byte
	expires time.Time
}

// MemoryPages keeps rendered pages in process memory. When full, Set
// drops every entry before storing the new one.
type MemoryPages struct {
	mu      sync.Mutex
	entries map[string]memoryPage
	ttl     time.Duration
	max     int
	now     func() time.Time
}

// NewMemoryPages creates an in-process page cache holding at most max
// entries. Zero values select the defaults.
func NewMemoryPages(ttl time.Duration, max int) *MemoryPages {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	if max <= 0 {
		max = DefaultMemoryEntries
	}
	return &MemoryPages{
		entries: make(map[string]memoryPage),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

func (pc *MemoryPages) Get(_ context.Context, key string) ([]byte, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	e, ok := pc.entries[key]
	if !ok {
		return nil, false
	}
	if !pc.now().Before(e.expires) {
		delete(pc.entries, key)
		return nil, false
	}
	return e.html, true
}

func (pc *MemoryPages) Set(_ context.Context, key string, html []byte) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if _, ok := pc.entries[key]; !ok && len(pc.entries) >= pc.max {
		clear(pc.entries)
	}
	pc.entries[key] = memoryPage{html: append([]byte(nil), html...), expires: pc.now().Add(pc.ttl)}
}

func (pc *MemoryPages) InvalidateAll(context.Context) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	clear(pc.entries)
}

// Len returns the number of cached pages, expired ones included.
func (pc *MemoryPages) Len() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return len(pc.entries)
}
