package cache

import (
	"context"
	"crypto/sha1" //nolint:gosec // G505: sha1 for cache keys, not security
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"translatorgo/internal/core"
)

// LRUCache is a thread-safe LRU cache with expiration
type LRUCache struct {
	capacity int
	items    map[string]*CacheItem
	mu       sync.RWMutex
	head     *CacheItem
	tail     *CacheItem
	ctx      context.Context
	cancel   context.CancelFunc
}

// CacheItem represents an item in the cache with LRU links
type CacheItem struct {
	Value      any
	Expiration int64
	key        string
	prev       *CacheItem
	next       *CacheItem
}

// NewCache creates a new LRU Cache
func NewCache() *LRUCache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &LRUCache{
		capacity: core.CacheDefaultCapacity,
		items:    make(map[string]*CacheItem),
		ctx:      ctx,
		cancel:   cancel,
	}

	c.head = &CacheItem{}
	c.tail = &CacheItem{}
	c.head.next = c.tail
	c.tail.prev = c.head

	go c.startCleanupWorker()
	return c
}

func (c *LRUCache) startCleanupWorker() {
	ticker := time.NewTicker(core.CacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.ctx.Done():
			return
		}
	}
}

// Stop terminates the cache cleanup worker goroutine.
func (c *LRUCache) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Set stores a value in the cache with the given TTL.
func (c *LRUCache) Set(key string, value any, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, exists := c.items[key]; exists {
		item.Value = value
		item.Expiration = time.Now().Add(duration).UnixNano()
		c.moveToFront(item)
		return
	}

	item := &CacheItem{
		Value:      value,
		Expiration: time.Now().Add(duration).UnixNano(),
		key:        key,
	}

	c.addToFront(item)
	c.items[key] = item

	if len(c.items) > c.capacity {
		c.evict()
	}
}

// Get retrieves a value from the cache, returning false if not found or expired.
func (c *LRUCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}

	if time.Now().UnixNano() > item.Expiration {
		c.remove(item)
		delete(c.items, key)
		return nil, false
	}

	c.moveToFront(item)
	return item.Value, true
}

func (c *LRUCache) addToFront(item *CacheItem) {
	item.next = c.head.next
	item.prev = c.head
	c.head.next.prev = item
	c.head.next = item
}

func (c *LRUCache) moveToFront(item *CacheItem) {
	c.remove(item)
	c.addToFront(item)
}

func (c *LRUCache) remove(item *CacheItem) {
	item.prev.next = item.next
	item.next.prev = item.prev
}

func (c *LRUCache) evict() {
	if c.tail.prev == c.head {
		return
	}
	item := c.tail.prev
	c.remove(item)
	delete(c.items, item.key)
}

func (c *LRUCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if now > item.Expiration {
			c.remove(item)
			delete(c.items, key)
		}
	}
}

// Clear clears all cache items
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head.next = c.tail
	c.tail.prev = c.head
	c.items = make(map[string]*CacheItem)
}

// CacheService unified cache service
type CacheService struct {
	general     *LRUCache
	translation *LRUCache
}

// NewCacheService creates a new CacheService with general and translation caches.
func NewCacheService() *CacheService {
	return &CacheService{
		general:     NewCache(),
		translation: NewCache(),
	}
}

// GetTranslation retrieves a cached translation result.
func (cs *CacheService) GetTranslation(key string) (core.TranslationResult, bool) {
	cached, found := cs.translation.Get(key)
	if !found {
		return core.TranslationResult{}, false
	}

	result, ok := cached.(core.TranslationResult)
	if !ok {
		return core.TranslationResult{}, false
	}

	return result, true
}

// SetTranslation stores a translation result in the translation cache.
func (cs *CacheService) SetTranslation(key string, result core.TranslationResult, duration time.Duration) {
	cs.translation.Set(key, result, duration)
}

// ClearTranslations removes all items from the translation cache.
func (cs *CacheService) ClearTranslations() {
	cs.translation.Clear()
}

// Get retrieves a value from the general cache.
func (cs *CacheService) Get(key string) (any, bool) {
	return cs.general.Get(key)
}

// Set stores a value in the general cache.
func (cs *CacheService) Set(key string, value any, duration time.Duration) {
	cs.general.Set(key, value, duration)
}

// Stop terminates both cache cleanup workers.
func (cs *CacheService) Stop() {
	cs.general.Stop()
	cs.translation.Stop()
}

// Close stops the cache service and releases resources.
func (cs *CacheService) Close() error {
	cs.Stop()
	return nil
}

// TranslationCacheKey creates a cache key from the normalized request
// fields. The insight flag participates because the two output formats
// yield different results for the same input.
func TranslationCacheKey(text, source, target string, tone core.Tone, withInsight bool) string {
	h := sha1.New() //nolint:gosec // G401: sha1 for cache keys, not security
	fmt.Fprintf(h, "%s|%s|%s|%s|%t|%s", core.CacheKeyVersion, source, target, tone, withInsight, text)
	return hex.EncodeToString(h.Sum(nil))
}

// TruncateCacheKey shortens a cache key for log output.
func TruncateCacheKey(key string, length int) string {
	if len(key) <= length {
		return key
	}
	return key[:length]
}
