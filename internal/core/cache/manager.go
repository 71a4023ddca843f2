package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

// Manager is the in-process cache: a TTL map with LRU eviction once the
// capacity is reached. The clock is injected so tests can drive expiry.
type Manager struct {
	cfg   config.CacheConfig
	clock func() time.Time
	mu    sync.Mutex
	store map[string]entry
	stats managerStats
	stop  chan struct{}
	once  sync.Once
}

type entry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type managerStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewManager creates a memory cache and starts its cleanup goroutine.
func NewManager(cfg config.CacheConfig) *Manager {
	return NewManagerWithClock(cfg, time.Now)
}

// NewManagerWithClock creates a memory cache with a caller-supplied clock.
func NewManagerWithClock(cfg config.CacheConfig, clock func() time.Time) *Manager {
	m := &Manager{
		cfg:   cfg,
		clock: clock,
		store: make(map[string]entry),
		stop:  make(chan struct{}),
	}

	go m.startCleanup()

	common.LogInfo("Cache manager initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

// Get returns the cached value for key, reporting a miss for absent or
// expired entries.
func (m *Manager) Get(ctx context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.store[key]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", false
	}
	if m.clock().After(e.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", false
	}

	e.lastAccess = m.clock()
	e.accessCount++
	m.store[key] = e
	m.stats.hits++
	common.LogCacheHit("memory", key)
	return e.value, true
}

// Set stores a value under key. When the cache is full it first drops
// expired entries, then evicts the least-used one.
func (m *Manager) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.cfg.MaxSize {
		evicted := m.cleanupLocked()
		if evicted > 0 {
			common.LogDebug("Expired cache entries cleaned", zap.Int("count", evicted))
		}
		if len(m.store) >= m.cfg.MaxSize {
			m.evictLRULocked()
		}
		if len(m.store) >= m.cfg.MaxSize {
			m.stats.errors++
			common.LogWarn("Cache full", zap.Int("size", len(m.store)))
			return common.ErrCacheFull
		}
	}

	now := m.clock()
	m.store[key] = entry{
		value:      value,
		expiresAt:  now.Add(m.cfg.TTL),
		createdAt:  now,
		lastAccess: now,
	}
	return nil
}

// Delete removes a key.
func (m *Manager) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanupLocked()
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// cleanupLocked drops expired entries; callers hold the lock.
func (m *Manager) cleanupLocked() int {
	now := m.clock()
	count := 0
	for key, e := range m.store {
		if now.After(e.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	return count
}

// evictLRULocked drops the entry with the fewest accesses, breaking ties by
// oldest access time; callers hold the lock.
func (m *Manager) evictLRULocked() {
	var victim string
	var victimAccess time.Time
	var victimCount int

	for key, e := range m.store {
		if victim == "" ||
			e.accessCount < victimCount ||
			(e.accessCount == victimCount && e.lastAccess.Before(victimAccess)) {
			victim = key
			victimAccess = e.lastAccess
			victimCount = e.accessCount
		}
	}

	if victim != "" {
		delete(m.store, victim)
		m.stats.evictions++
		common.LogDebug("Cache entry evicted (LRU)", zap.String("key", victim))
	}
}

// Stats returns a snapshot of the cache counters.
func (m *Manager) Stats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.stats.hits + m.stats.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.cfg.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close stops the cleanup goroutine and clears the cache.
func (m *Manager) Close() error {
	m.once.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]entry)
	common.LogInfo("Cache manager closed",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}
