package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
}

func (m *memoryItem) expired() bool {
	return !m.expireAt.IsZero() && time.Now().After(m.expireAt)
}

// MemoryCache implements Cache using in-process storage.
type MemoryCache struct {
	mu      sync.RWMutex
	data    map[string]*memoryItem
	maxSize int
	stop    chan struct{}
	once    sync.Once
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxSize caps the number of entries; oldest-expiring entries are evicted.
func WithMaxSize(n int) MemoryOption {
	return func(mc *MemoryCache) { mc.maxSize = n }
}

// NewMemoryCache creates an in-memory cache with periodic cleanup.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	mc := &MemoryCache{
		data:    make(map[string]*memoryItem),
		maxSize: 1000,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(mc)
	}

	go mc.cleanupLoop(time.Minute)
	return mc
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, ok := mc.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if item.expired() {
		delete(mc.data, key)
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expireAt time.Time
	if ttl > 0 {
		expireAt = time.Now().Add(ttl)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.data) >= mc.maxSize {
		mc.evictOne()
	}
	mc.data[key] = &memoryItem{value: value, expireAt: expireAt}
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

func (mc *MemoryCache) Close() error {
	mc.once.Do(func() { close(mc.stop) })
	return nil
}

// evictOne removes the entry expiring soonest. Called with lock held.
func (mc *MemoryCache) evictOne() {
	var victim string
	var earliest time.Time
	for k, item := range mc.data {
		if victim == "" || (!item.expireAt.IsZero() && item.expireAt.Before(earliest)) {
			victim = k
			earliest = item.expireAt
		}
	}
	if victim != "" {
		delete(mc.data, victim)
	}
}

func (mc *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-mc.stop:
			return
		case <-ticker.C:
			mc.mu.Lock()
			for k, item := range mc.data {
				if item.expired() {
					delete(mc.data, k)
				}
			}
			mc.mu.Unlock()
		}
	}
}
