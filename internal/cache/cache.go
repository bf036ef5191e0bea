// internal/cache/cache.go
package cache

import (
	"container/list"
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

// Page is a fetched page body kept by the transport layer
type Page struct {
	URL       string
	Body      string
	Relay     string
	FetchedAt time.Time
}

func (p *Page) size() int64 {
	return int64(len(p.Body)+len(p.URL)+len(p.Relay)) + 256
}

// Cache stores fetched page bodies. Pipeline outcomes are never cached.
type Cache interface {
	Get(key string) (*Page, bool)
	Set(key string, page *Page, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Close()
}

type entry struct {
	page      *Page
	expiresAt time.Time
	key       string
}

// MemoryCache is an in-process LRU bounded by total body size
type MemoryCache struct {
	store   map[string]*list.Element
	lru     *list.List
	mu      sync.Mutex
	maxSize int64
	size    int64
	ttl     time.Duration
	cancel  context.CancelFunc
	hits    uint64
	misses  uint64
}

// NewMemoryCache creates a cache holding at most maxSizeBytes of pages.
// ttl is used when Set is called without one.
func NewMemoryCache(maxSizeBytes int64, ttl time.Duration) *MemoryCache {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 32 * 1024 * 1024
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	mc := &MemoryCache{
		store:   make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSizeBytes,
		ttl:     ttl,
		cancel:  cancel,
	}
	go mc.sweep(ctx)
	return mc
}

// Get returns a live entry and marks it most recently used
func (mc *MemoryCache) Get(key string) (*Page, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	el, ok := mc.store[key]
	if !ok {
		mc.misses++
		return nil, false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		mc.misses++
		mc.remove(el)
		return nil, false
	}

	mc.lru.MoveToFront(el)
	mc.hits++
	log.Debug().Str("key", key).Str("url", e.page.URL).Msg("Cache hit")
	return e.page, true
}

// Set stores page under key, evicting least recently used pages to fit
func (mc *MemoryCache) Set(key string, page *Page, ttl time.Duration) error {
	if page == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = mc.ttl
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.store[key]; ok {
		mc.remove(el)
	}
	size := page.size()
	if size > mc.maxSize {
		log.Debug().Str("key", key).Int64("size_bytes", size).Msg("Page larger than cache, not stored")
		return nil
	}
	for mc.size+size > mc.maxSize && mc.lru.Len() > 0 {
		mc.remove(mc.lru.Back())
	}

	mc.store[key] = mc.lru.PushFront(&entry{page: page, expiresAt: time.Now().Add(ttl), key: key})
	mc.size += size

	log.Debug().Str("key", key).Dur("ttl", ttl).Int64("size_bytes", size).Msg("Cached page")
	return nil
}

// Delete removes key if present
func (mc *MemoryCache) Delete(key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.store[key]; ok {
		mc.remove(el)
	}
	return nil
}

// Clear drops every entry and resets the counters
func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.store = make(map[string]*list.Element)
	mc.lru = list.New()
	mc.size, mc.hits, mc.misses = 0, 0, 0
	return nil
}

// Close stops the expiry sweeper
func (mc *MemoryCache) Close() {
	mc.cancel()
}

// Len returns the number of stored pages
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.lru.Len()
}

// Stats returns hit/miss counters and occupancy
func (mc *MemoryCache) Stats() map[string]interface{} {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	hitRate := 0.0
	if total := mc.hits + mc.misses; total > 0 {
		hitRate = float64(mc.hits) / float64(total) * 100
	}
	return map[string]interface{}{
		"entries":    mc.lru.Len(),
		"size_bytes": mc.size,
		"max_size":   mc.maxSize,
		"hits":       mc.hits,
		"misses":     mc.misses,
		"hit_rate":   hitRate,
	}
}

// remove must be called with the lock held
func (mc *MemoryCache) remove(el *list.Element) {
	e := el.Value.(*entry)
	mc.lru.Remove(el)
	delete(mc.store, e.key)
	mc.size -= e.page.size()
}

func (mc *MemoryCache) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			now := time.Now()
			var next *list.Element
			for el := mc.lru.Front(); el != nil; el = next {
				next = el.Next()
				if now.After(el.Value.(*entry).expiresAt) {
					mc.remove(el)
				}
			}
			mc.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// Key derives a compact cache key from a canonical page URL
func Key(canonicalURL string) string {
	return strconv.FormatUint(xxhash.Sum64String(canonicalURL), 16)
}
