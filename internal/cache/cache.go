// Package cache is a small TTL + size-bounded in-memory store for finished
// harmonization responses, keyed by a hash of the input content and the
// instrument selection. It is owned and injected by the HTTP layer; the
// engine itself never caches.
package cache

import (
	"sync"
	"time"
)

// Store is a bounded TTL cache. Safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
	storedAt  time.Time
}

// New builds a store with the given TTL and entry bound.
func New(ttl time.Duration, maxEntries int) *Store {
	return &Store{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached value for key if present and unexpired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Put stores a value under key, evicting stale entries and, when the store
// is full, the oldest entry.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	if len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}

	s.entries[key] = entry{
		value:     value,
		expiresAt: now.Add(s.ttl),
		storedAt:  now,
	}
}

// Len reports the current entry count (expired entries included until the
// next Put sweeps them).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range s.entries {
		if first || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.storedAt
			first = false
		}
	}
	if !first {
		delete(s.entries, oldestKey)
	}
}
