// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package cache provides the process-lifetime memoization used for metadata
// lookups. Repeated identical queries to the metadata client or trailer
// resolver within a process hit this cache instead of the network.
package cache

import (
	"sync"
	"time"
)

// entry is a node in the LRU doubly-linked list.
type entry struct {
	key       string
	value     any
	prev      *entry
	next      *entry
	expiresAt time.Time
}

// LRU implements a thread-safe Least Recently Used cache with optional TTL.
// It provides O(1) Get, Set, and eviction using a doubly-linked list for
// ordering and a hashmap for lookups.
//
// A zero TTL disables expiry: entries live until evicted by capacity, which
// is the unbounded-for-process-lifetime policy bounded only by catalog scale.
type LRU struct {
	mu sync.Mutex

	// capacity is the maximum number of entries
	capacity int

	// ttl is the time-to-live for entries; zero means no expiry
	ttl time.Duration

	// items maps keys to linked list nodes for O(1) lookup
	items map[string]*entry

	// head.next is the most recently used, tail.prev is the least recently used
	head *entry
	tail *entry

	hits   int64
	misses int64
}

// NewLRU creates a new LRU cache with the specified capacity and TTL.
// ttl == 0 means entries never expire.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 1024
	}

	c := &LRU{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		head:     &entry{},
		tail:     &entry{},
	}

	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get retrieves a value from the cache.
// Returns the value and true if found and not expired.
// Found entries are moved to the front (most recently used).
func (c *LRU) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.items[key]
	if !exists {
		c.misses++
		return nil, false
	}

	if c.expired(e) {
		c.removeEntry(e)
		c.misses++
		return nil, false
	}

	c.moveToFront(e)
	c.hits++
	return e.value, true
}

// Set adds or updates an entry in the cache.
// If the cache is at capacity, the least recently used entry is evicted.
func (c *LRU) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	if e, exists := c.items[key]; exists {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(e)
	c.items[key] = e

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *LRU) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, exists := c.items[key]; exists {
		c.removeEntry(e)
		return true
	}
	return false
}

// Len returns the current number of entries in the cache.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes all entries from the cache.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Stats holds cache hit/miss counters.
type Stats struct {
	Hits   int64
	Misses int64
	Len    int
}

// GetStats returns a snapshot of cache statistics.
func (c *LRU) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Len: len(c.items)}
}

// HitRate returns the cache hit rate as a percentage.
func (c *LRU) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total) * 100
}

// expired reports whether an entry is past its TTL.
func (c *LRU) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// moveToFront moves an entry to the front of the list (must hold mu).
func (c *LRU) moveToFront(e *entry) {
	c.unlink(e)
	c.addToFront(e)
}

// addToFront inserts an entry after the head sentinel (must hold mu).
func (c *LRU) addToFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

// unlink detaches an entry from the list (must hold mu).
func (c *LRU) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

// removeEntry unlinks an entry and deletes it from the map (must hold mu).
func (c *LRU) removeEntry(e *entry) {
	c.unlink(e)
	delete(c.items, e.key)
}

// evictOldest removes the least recently used entry (must hold mu).
func (c *LRU) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
}
