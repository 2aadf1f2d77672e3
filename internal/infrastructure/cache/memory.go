package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process TTL store. Expired entries answer as misses
// immediately and are physically removed by a background janitor.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	stats Stats

	janitorStop chan struct{}
	stopOnce    sync.Once
}

type memoryItem struct {
	value      string
	expiration int64 // unix nanos; 0 means no expiry
}

// Stats counts store traffic since construction.
type Stats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	ItemCount int
}

// HitRate is the fraction of reads answered from the store, in [0, 1].
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewMemory returns a running store whose janitor wakes at cleanupInterval.
// Close releases the janitor.
func NewMemory(cleanupInterval time.Duration) *Memory {
	m := &Memory{
		items:       make(map[string]memoryItem),
		janitorStop: make(chan struct{}),
	}
	go m.janitor(cleanupInterval)
	return m
}

// Get implements Store. The context is accepted for interface symmetry; an
// in-process read never blocks on it.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, found := m.items[key]
	if !found || (item.expiration > 0 && time.Now().UnixNano() > item.expiration) {
		m.stats.Misses++
		return "", false, nil
	}
	m.stats.Hits++
	return item.value, true, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	m.items[key] = memoryItem{value: value, expiration: exp}
	m.stats.Sets++
	return nil
}

// Delete removes a key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Flush removes every expired entry and reports how many went.
func (m *Memory) Flush() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UnixNano()
	removed := 0
	for key, item := range m.items {
		if item.expiration > 0 && now > item.expiration {
			delete(m.items, key)
			removed++
		}
	}
	return removed
}

// Stats returns a snapshot of traffic counters.
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.stats
	s.ItemCount = len(m.items)
	return s
}

// Close stops the janitor. The store stays readable afterwards.
func (m *Memory) Close() {
	m.stopOnce.Do(func() { close(m.janitorStop) })
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Flush()
		case <-m.janitorStop:
			return
		}
	}
}
