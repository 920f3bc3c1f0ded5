package wellformed

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ResultCache caches validation reports keyed by a hash of the input.
// Validation is deterministic, so a cached report is always the report a
// fresh run would produce.
type ResultCache struct {
	mu        sync.RWMutex
	entries   map[string]*resultCacheEntry
	config    ResultCacheConfig
	stats     ResultCacheStats
	evictList []string // FIFO eviction order
}

// resultCacheEntry holds a cached report with metadata.
type resultCacheEntry struct {
	Report    *Report
	CreatedAt time.Time
	ExpiresAt time.Time
	HitCount  int
}

// ResultCacheConfig configures the result cache behavior.
type ResultCacheConfig struct {
	// TTL is how long reports are cached. Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached reports. Default: 1000.
	MaxEntries int

	// MaxInputSize is the largest input (bytes) whose report is cached. Default: 1MB.
	MaxInputSize int

	// KeyPrefix is prepended to all cache keys. Useful for namespacing.
	KeyPrefix string
}

// ResultCacheStats tracks cache performance metrics.
type ResultCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	EntryCount int
}

// Cache default values
const (
	DefaultCacheTTL          = 5 * time.Minute
	DefaultCacheMaxEntries   = 1000
	DefaultCacheMaxInputSize = 1 << 20
)

// DefaultResultCacheConfig returns sensible defaults for result caching.
func DefaultResultCacheConfig() ResultCacheConfig {
	return ResultCacheConfig{
		TTL:          DefaultCacheTTL,
		MaxEntries:   DefaultCacheMaxEntries,
		MaxInputSize: DefaultCacheMaxInputSize,
		KeyPrefix:    "",
	}
}

// NewResultCache creates a new result cache.
func NewResultCache(config ResultCacheConfig) *ResultCache {
	if config.TTL == 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if config.MaxInputSize == 0 {
		config.MaxInputSize = DefaultCacheMaxInputSize
	}

	return &ResultCache{
		entries:   make(map[string]*resultCacheEntry),
		config:    config,
		evictList: make([]string, 0, config.MaxEntries),
	}
}

// Get retrieves a cached report if available and not expired.
func (c *ResultCache) Get(input string) (*Report, bool) {
	key := c.makeKey(input)

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.mu.Lock()
		c.stats.Misses++
		c.mu.Unlock()
		return nil, false
	}

	// Check expiration
	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		if c.entries[key] == entry {
			c.removeEntry(key)
		}
		c.stats.Misses++
		c.stats.EntryCount = len(c.entries)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	entry.HitCount++
	c.stats.Hits++
	c.mu.Unlock()

	return cloneReport(entry.Report), true
}

// Set stores a report in the cache.
func (c *ResultCache) Set(input string, report *Report) {
	if len(input) > c.config.MaxInputSize {
		return
	}

	key := c.makeKey(input)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		// Evict if at capacity
		if len(c.entries) >= c.config.MaxEntries {
			c.evictOldest()
		}
		c.evictList = append(c.evictList, key)
	}

	c.entries[key] = &resultCacheEntry{
		Report:    cloneReport(report),
		CreatedAt: now,
		ExpiresAt: now.Add(c.config.TTL),
	}
	c.stats.EntryCount = len(c.entries)
}

// Invalidate removes the cache entry for input.
func (c *ResultCache) Invalidate(input string) {
	key := c.makeKey(input)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeEntry(key)
	c.stats.EntryCount = len(c.entries)
}

// Clear removes all entries from the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*resultCacheEntry)
	c.evictList = make([]string, 0, c.config.MaxEntries)
	c.stats.EntryCount = 0
}

// Stats returns current cache statistics.
func (c *ResultCache) Stats() ResultCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *ResultCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// Cleanup removes expired entries. Call periodically for long-running applications.
func (c *ResultCache) Cleanup() int {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		live := c.evictList[:0]
		for _, key := range c.evictList {
			if _, exists := c.entries[key]; exists {
				live = append(live, key)
			}
		}
		c.evictList = live
	}
	c.stats.EntryCount = len(c.entries)
	return removed
}

// makeKey creates a cache key for input.
func (c *ResultCache) makeKey(input string) string {
	return c.config.KeyPrefix + HashInput(input)
}

// removeEntry deletes key from the entries and the eviction order.
// Caller must hold write lock.
func (c *ResultCache) removeEntry(key string) {
	if _, exists := c.entries[key]; !exists {
		return
	}
	delete(c.entries, key)
	if i := slices.Index(c.evictList, key); i >= 0 {
		c.evictList = slices.Delete(c.evictList, i, i+1)
	}
}

// evictOldest removes the oldest entry. The eviction order holds exactly
// the live keys.
func (c *ResultCache) evictOldest() {
	if len(c.evictList) == 0 {
		return
	}
	oldestKey := c.evictList[0]
	c.evictList = slices.Delete(c.evictList, 0, 1)
	delete(c.entries, oldestKey)
	c.stats.Evictions++
}

// HashInput returns the hex SHA-256 of input.
func HashInput(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// cloneReport copies a report so cached values cannot be mutated by callers.
func cloneReport(r *Report) *Report {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Position != nil {
		p := *r.Position
		clone.Position = &p
	}
	if r.Unclosed != nil {
		clone.Unclosed = append([]Element(nil), r.Unclosed...)
	}
	return &clone
}

// CachedChecker wraps a Checker with result caching.
type CachedChecker struct {
	checker *Checker
	cache   *ResultCache
}

// NewCachedChecker creates a checker wrapper with result caching.
func NewCachedChecker(checker *Checker, cacheConfig ResultCacheConfig) *CachedChecker {
	return &CachedChecker{
		checker: checker,
		cache:   NewResultCache(cacheConfig),
	}
}

// Check validates input, serving repeated inputs from the cache.
func (cc *CachedChecker) Check(input string) *Report {
	if report, ok := cc.cache.Get(input); ok {
		cc.checker.logger.Debug(LogMsgCacheHit, zap.Int(LogFieldSize, len(input)))
		return report
	}

	report := cc.checker.Check(input)
	cc.cache.Set(input, report)
	return report
}

// CheckValue validates an arbitrary value. Only string inputs are cached.
func (cc *CachedChecker) CheckValue(v any) *Report {
	if input, ok := asText(v); ok {
		return cc.Check(input)
	}
	return cc.checker.CheckValue(v)
}

// Validate validates input and returns the two-field result.
func (cc *CachedChecker) Validate(input string) Result {
	return cc.Check(input).Result()
}

// ValidateValue validates an arbitrary value and returns the two-field result.
func (cc *CachedChecker) ValidateValue(v any) Result {
	return cc.CheckValue(v).Result()
}

// InvalidateCache clears the result cache.
func (cc *CachedChecker) InvalidateCache() {
	cc.cache.Clear()
}

// CacheStats returns the result cache statistics.
func (cc *CachedChecker) CacheStats() ResultCacheStats {
	return cc.cache.Stats()
}

// CacheHitRate returns the cache hit rate.
func (cc *CachedChecker) CacheHitRate() float64 {
	return cc.cache.HitRate()
}

// Checker returns the underlying checker for direct access.
func (cc *CachedChecker) Checker() *Checker {
	return cc.checker
}
