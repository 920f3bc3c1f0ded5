package wellformed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Report cache defaults
const (
	DefaultReportCacheTTL         = 5 * time.Minute
	DefaultReportCacheMaxEntries  = 1000
	DefaultReportCacheNegativeTTL = 30 * time.Second
)

// CachedReportStorage wraps any ReportStorage with an in-memory cache of
// Get results. Stored reports never change, so entries only leave the cache
// on Delete, expiry or eviction.
type CachedReportStorage struct {
	storage ReportStorage
	config  ReportCacheConfig

	mu     sync.RWMutex
	cache  map[ReportID]*reportCacheEntry
	closed bool
}

// ReportCacheConfig configures CachedReportStorage.
type ReportCacheConfig struct {
	// TTL is how long cached reports remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached reports.
	// When exceeded, the least recently accessed entry is evicted.
	// Default: 1000.
	MaxEntries int

	// NegativeTTL is how long to cache "not found" results.
	// Set to a negative value to disable negative caching.
	// Default: 30 seconds.
	NegativeTTL time.Duration
}

// DefaultReportCacheConfig returns the default caching configuration.
func DefaultReportCacheConfig() ReportCacheConfig {
	return ReportCacheConfig{
		TTL:         DefaultReportCacheTTL,
		MaxEntries:  DefaultReportCacheMaxEntries,
		NegativeTTL: DefaultReportCacheNegativeTTL,
	}
}

type reportCacheEntry struct {
	report     *StoredReport
	notFound   bool
	cachedAt   time.Time
	accessedAt atomic.Int64 // unix nanoseconds
}

// ReportCacheStats contains cache statistics.
type ReportCacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
}

// NewCachedReportStorage wraps storage with caching.
func NewCachedReportStorage(storage ReportStorage, config ReportCacheConfig) *CachedReportStorage {
	if config.TTL == 0 {
		config.TTL = DefaultReportCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultReportCacheMaxEntries
	}
	if config.NegativeTTL == 0 {
		config.NegativeTTL = DefaultReportCacheNegativeTTL
	}

	return &CachedReportStorage{
		storage: storage,
		config:  config,
		cache:   make(map[ReportID]*reportCacheEntry),
	}
}

// Save passes through to the wrapped storage.
func (s *CachedReportStorage) Save(ctx context.Context, report *StoredReport) error {
	return s.storage.Save(ctx, report)
}

// Get retrieves a report, using the cache when available.
func (s *CachedReportStorage) Get(ctx context.Context, id ReportID) (*StoredReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, NewStorageClosedError()
	}

	entry, ok := s.cache[id]
	if ok && s.isValid(entry) {
		entry.accessedAt.Store(time.Now().UnixNano())
		s.mu.RUnlock()

		if entry.notFound {
			return nil, NewReportNotFoundError(id)
		}
		return copyStoredReport(entry.report), nil
	}
	s.mu.RUnlock()

	report, err := s.storage.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	if err != nil {
		if IsReportNotFound(err) && s.config.NegativeTTL > 0 {
			s.addEntry(id, nil, true)
		}
		return nil, err
	}

	s.addEntry(id, report, false)
	return copyStoredReport(report), nil
}

// List passes through to the wrapped storage.
func (s *CachedReportStorage) List(ctx context.Context, query *ReportQuery) ([]*StoredReport, error) {
	return s.storage.List(ctx, query)
}

// Delete removes a report and drops it from the cache.
func (s *CachedReportStorage) Delete(ctx context.Context, id ReportID) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return err
	}

	s.Invalidate(id)
	return nil
}

// Close closes the cache and the wrapped storage.
func (s *CachedReportStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = nil
	s.mu.Unlock()

	return s.storage.Close()
}

// Invalidate removes a report from the cache.
func (s *CachedReportStorage) Invalidate(id ReportID) {
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (s *CachedReportStorage) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[ReportID]*reportCacheEntry)
	s.mu.Unlock()
}

// Stats returns cache statistics.
func (s *CachedReportStorage) Stats() ReportCacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := ReportCacheStats{Entries: len(s.cache)}
	for _, entry := range s.cache {
		if !s.isValid(entry) {
			continue
		}
		if entry.notFound {
			stats.NegativeEntries++
		} else {
			stats.ValidEntries++
		}
	}
	return stats
}

// Unwrap returns the wrapped storage.
func (s *CachedReportStorage) Unwrap() ReportStorage {
	return s.storage
}

func (s *CachedReportStorage) isValid(entry *reportCacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// addEntry adds an entry, evicting first if at capacity.
// Caller must hold write lock.
func (s *CachedReportStorage) addEntry(id ReportID, report *StoredReport, notFound bool) {
	if _, exists := s.cache[id]; !exists && len(s.cache) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := time.Now()
	entry := &reportCacheEntry{
		report:   copyStoredReport(report),
		notFound: notFound,
		cachedAt: now,
	}
	entry.accessedAt.Store(now.UnixNano())
	s.cache[id] = entry
}

// evictOldest removes the least recently accessed entry.
// Caller must hold write lock.
func (s *CachedReportStorage) evictOldest() {
	var (
		oldestID ReportID
		oldestAt int64
		found    bool
	)
	for id, entry := range s.cache {
		at := entry.accessedAt.Load()
		if !found || at < oldestAt {
			oldestID, oldestAt, found = id, at, true
		}
	}

	if found {
		delete(s.cache, oldestID)
	}
}
