// internal/cache/cache.go
package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
)

// Cache stores fetched pages so a URL reached twice in one run is only downloaded once.
type Cache interface {
	// Get returns the cached page for key, if present and not expired.
	Get(key string) (*models.Page, bool)

	// Set stores a page with the given TTL, replacing any existing entry.
	Set(key string, page *models.Page, ttl time.Duration) error

	// Delete removes an entry. Missing keys are not an error.
	Delete(key string) error

	// Clear removes all entries.
	Clear() error

	// Close stops background work.
	Close()
}

type cacheEntry struct {
	Page      *models.Page
	ExpiresAt time.Time
	Key       string
	Size      int64
}

// MemoryCache is an in-memory page cache with LRU eviction bounded by total size.
type MemoryCache struct {
	store   map[string]*list.Element
	lruList *list.List
	mu      sync.Mutex
	maxSize int64
	size    int64
	ctx     context.Context
	cancel  context.CancelFunc
	hits    uint64
	misses  uint64
	logger  zerolog.Logger
}

// NewMemoryCache creates a cache holding at most maxSizeBytes of page content.
func NewMemoryCache(maxSizeBytes int64, logger zerolog.Logger) *MemoryCache {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 32 * 1024 * 1024
	}

	ctx, cancel := context.WithCancel(context.Background())

	mc := &MemoryCache{
		store:   make(map[string]*list.Element),
		lruList: list.New(),
		maxSize: maxSizeBytes,
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
	}

	go mc.cleanupExpired()

	return mc
}

// Get retrieves a cached page and marks it most recently used.
func (mc *MemoryCache) Get(key string) (*models.Page, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	element, exists := mc.store[key]
	if !exists {
		mc.misses++
		return nil, false
	}

	entry := element.Value.(*cacheEntry)
	if time.Now().After(entry.ExpiresAt) {
		mc.misses++
		mc.removeElement(element)
		return nil, false
	}

	mc.lruList.MoveToFront(element)
	mc.hits++

	mc.logger.Debug().Str("key", key).Msg("Cache hit")
	return entry.Page, true
}

// Set stores a page with TTL.
func (mc *MemoryCache) Set(key string, page *models.Page, ttl time.Duration) error {
	if page == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	size := pageSize(page)

	if element, exists := mc.store[key]; exists {
		old := element.Value.(*cacheEntry)
		mc.size -= old.Size
		element.Value = &cacheEntry{Page: page, ExpiresAt: time.Now().Add(ttl), Key: key, Size: size}
		mc.lruList.MoveToFront(element)
		mc.size += size
		return nil
	}

	for mc.size+size > mc.maxSize && mc.lruList.Len() > 0 {
		mc.evictLRU()
	}

	element := mc.lruList.PushFront(&cacheEntry{Page: page, ExpiresAt: time.Now().Add(ttl), Key: key, Size: size})
	mc.store[key] = element
	mc.size += size

	mc.logger.Debug().
		Str("key", key).
		Dur("ttl", ttl).
		Int64("size_bytes", size).
		Msg("Cached page")

	return nil
}

// Delete removes a cached page.
func (mc *MemoryCache) Delete(key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if element, exists := mc.store[key]; exists {
		mc.removeElement(element)
	}
	return nil
}

// Clear removes all cached pages and resets statistics.
func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.store = make(map[string]*list.Element)
	mc.lruList = list.New()
	mc.size = 0
	mc.hits = 0
	mc.misses = 0
	return nil
}

// Close stops the background cleanup goroutine.
func (mc *MemoryCache) Close() {
	mc.cancel()
}

// Len returns the number of cached pages.
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.lruList.Len()
}

// Stats returns hit/miss counters and current size.
func (mc *MemoryCache) Stats() (hits, misses uint64, sizeBytes int64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.hits, mc.misses, mc.size
}

// must be called with lock held
func (mc *MemoryCache) removeElement(element *list.Element) {
	entry := element.Value.(*cacheEntry)
	mc.lruList.Remove(element)
	delete(mc.store, entry.Key)
	mc.size -= entry.Size
}

// must be called with lock held
func (mc *MemoryCache) evictLRU() {
	element := mc.lruList.Back()
	if element == nil {
		return
	}
	entry := element.Value.(*cacheEntry)
	mc.removeElement(element)
	mc.logger.Debug().Str("key", entry.Key).Msg("Evicted from cache (LRU)")
}

func (mc *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			now := time.Now()
			var next *list.Element
			for element := mc.lruList.Front(); element != nil; element = next {
				next = element.Next()
				if now.After(element.Value.(*cacheEntry).ExpiresAt) {
					mc.removeElement(element)
				}
			}
			mc.mu.Unlock()
		case <-mc.ctx.Done():
			return
		}
	}
}

// pageSize is a rough estimate: content plus ~1KB of struct overhead.
func pageSize(p *models.Page) int64 {
	return int64(len(p.HTML)+len(p.Text)+len(p.Title)) + 1024
}

// KeyFromURL normalizes a URL into a cache key.
func KeyFromURL(url string) string {
	return strings.TrimRight(strings.TrimSpace(url), "/")
}
