package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gaineziswear/QuantumTradebot/internal/logger"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

type cacheEntry struct {
	data     []types.OHLCV
	storedAt time.Time
}

// MemoryCache implements DataCache using in-memory storage. Entries older
// than the TTL are treated as missing; a zero TTL never expires.
type MemoryCache struct {
	cache map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache without expiry
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithTTL(0)
}

// NewMemoryCacheWithTTL creates a cache whose entries expire after ttl
func NewMemoryCacheWithTTL(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a copy of the cached data if present and fresh
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}

	result := make([]types.OHLCV, len(entry.data))
	copy(result, entry.data)
	return result, true
}

// Set stores a copy of data
func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.OHLCV, len(data))
	copy(cached, data)
	c.cache[key] = cacheEntry{data: cached, storedAt: c.now()}
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]cacheEntry)
}

// Delete drops one entry
func (c *MemoryCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.cache, key)
}

// Size returns the number of cached entries, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps another DataProvider with caching functionality.
// Entries are keyed by the file's modification time and size, so a file
// rewritten on disk is read again on the next load.
type CachedProvider struct {
	provider DataProvider
	cache    DataCache
	log      *logger.Logger

	mu   sync.Mutex
	keys map[string]string // source -> current cache key
}

// NewCachedProvider creates a new cached data provider
func NewCachedProvider(provider DataProvider) *CachedProvider {
	return NewCachedProviderWithCache(provider, NewMemoryCache())
}

// NewCachedProviderWithCache creates a new cached data provider with custom cache
func NewCachedProviderWithCache(provider DataProvider, cache DataCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		log:      logger.Nop(),
		keys:     make(map[string]string),
	}
}

// WithLogger sets the logger used for load messages
func (p *CachedProvider) WithLogger(l *logger.Logger) *CachedProvider {
	if l != nil {
		p.log = l
	}
	return p
}

// GetName returns the name of the underlying provider with cache indication
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// LoadData loads data with caching to improve performance
func (p *CachedProvider) LoadData(source string) ([]types.OHLCV, error) {
	key := stampKey(source)
	if cachedData, exists := p.cache.Get(key); exists {
		return cachedData, nil
	}

	p.log.Debug("loading historical data from %s", filepath.Base(source))
	data, err := p.provider.LoadData(source)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if old, ok := p.keys[source]; ok && old != key {
		p.cache.Delete(old)
	}
	p.keys[source] = key
	p.mu.Unlock()

	p.cache.Set(key, data)
	p.log.Info("loaded and cached %d candles from %s", len(data), filepath.Base(source))
	return data, nil
}

// stampKey identifies one version of a file. Sources that cannot be
// stat'ed are keyed by name alone.
func stampKey(source string) string {
	info, err := os.Stat(source)
	if err != nil {
		return source
	}
	return fmt.Sprintf("%s@%d:%d", source, info.ModTime().UnixNano(), info.Size())
}
