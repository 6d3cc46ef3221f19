package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCounterStore is a process-local fixed-window counter with TTL
// eviction and a size cap. It is a best-effort mitigation only: state
// does not survive restarts and is not shared between instances.
type MemoryCounterStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	maxKeys int
}

type bucket struct {
	count int64
	reset time.Time
}

func NewMemoryCounterStore(maxKeys int) *MemoryCounterStore {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	s := &MemoryCounterStore{
		buckets: make(map[string]*bucket),
		maxKeys: maxKeys,
	}
	go s.janitor()
	return s
}

func (s *MemoryCounterStore) Count(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || time.Now().After(b.reset) {
		return 0, nil
	}
	return b.count, nil
}

func (s *MemoryCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	b, ok := s.buckets[key]
	if !ok || now.After(b.reset) {
		if len(s.buckets) >= s.maxKeys {
			s.evictExpiredLocked(now)
		}
		s.buckets[key] = &bucket{count: 1, reset: now.Add(window)}
		return 1, nil
	}

	b.count++
	return b.count, nil
}

func (s *MemoryCounterStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

func (s *MemoryCounterStore) evictExpiredLocked(now time.Time) {
	for key, b := range s.buckets {
		if now.After(b.reset) {
			delete(s.buckets, key)
		}
	}
}

func (s *MemoryCounterStore) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		s.evictExpiredLocked(time.Now())
		s.mu.Unlock()
	}
}
