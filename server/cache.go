// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"container/list"
	"crypto/sha256"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hashassin/hashassin/wire"
)

// CacheKey is the fingerprint of a crack request payload: the SHA-256 digest
// of the full hashes-file bytes.
type CacheKey [sha256.Size]byte

// Fingerprint derives the cache key for a crack request payload.
func Fingerprint(payload []byte) CacheKey {
	return sha256.Sum256(payload)
}

// cacheEntry is one cached crack response together with its bookkeeping.
type cacheEntry struct {
	key      CacheKey
	pairs    []wire.Pair
	size     int64
	lastUsed time.Time
}

// Cache is a byte-budgeted result cache for crack requests with
// least-recently-used eviction.  Concurrent identical requests are coalesced
// through a singleflight group so one computation serves all of them.  A nil
// *Cache is valid and never caches, which is how a zero cache budget is
// represented.
type Cache struct {
	budget int64
	group  singleflight.Group

	// mtx guards everything below.  entries indexes the elements of
	// order, whose front is the most recently used entry.
	mtx     sync.Mutex
	used    int64
	entries map[CacheKey]*list.Element
	order   *list.List
}

// NewCache returns a cache bounded by the given byte budget, or nil when the
// budget is not positive.
func NewCache(budget int64) *Cache {
	if budget <= 0 {
		return nil
	}
	return &Cache{
		budget:  budget,
		entries: make(map[CacheKey]*list.Element),
		order:   list.New(),
	}
}

// Do returns the cached pairs for key or runs compute to produce them.  The
// second return reports whether the response came from the cache.  Identical
// keys computing concurrently share one compute call; a compute error is
// returned to every waiter and nothing is cached.
func (c *Cache) Do(key CacheKey, compute func() ([]wire.Pair, error)) ([]wire.Pair, bool, error) {
	if c == nil {
		pairs, err := compute()
		return pairs, false, err
	}

	if pairs, ok := c.lookup(key); ok {
		return pairs, true, nil
	}

	hit := false
	result, err, _ := c.group.Do(string(key[:]), func() (any, error) {
		// A previous flight may have populated the entry between the
		// miss above and this call.
		if pairs, ok := c.lookup(key); ok {
			hit = true
			return pairs, nil
		}
		pairs, err := compute()
		if err != nil {
			return nil, err
		}
		c.add(key, pairs)
		return pairs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result.([]wire.Pair), hit, nil
}

// lookup returns the cached pairs for key and refreshes its recency.
func (c *Cache) lookup(key CacheKey) ([]wire.Pair, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	entry := elem.Value.(*cacheEntry)
	entry.lastUsed = time.Now()
	return entry.pairs, true
}

// add inserts the pairs under key, evicting least-recently-used entries
// until the new entry fits in the byte budget.  An entry larger than the
// whole budget is not cached at all.
func (c *Cache) add(key CacheKey, pairs []wire.Pair) {
	size := pairsSize(pairs)
	if size > c.budget {
		log.Debugf("Crack response of %d bytes exceeds the %d byte cache "+
			"budget, not caching", size, c.budget)
		return
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}
	for c.used+size > c.budget {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		evicted := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.entries, evicted.key)
		c.used -= evicted.size
		log.Tracef("Evicted cached response %x (%d bytes)",
			evicted.key[:8], evicted.size)
	}

	entry := &cacheEntry{
		key:      key,
		pairs:    pairs,
		size:     size,
		lastUsed: time.Now(),
	}
	c.entries[key] = c.order.PushFront(entry)
	c.used += size
}

// Used returns the total bytes currently retained by the cache.
func (c *Cache) Used() int64 {
	if c == nil {
		return 0
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.used
}

// pairsSize accounts a response's retained bytes: each pair's hash and
// password payloads.
func pairsSize(pairs []wire.Pair) int64 {
	var size int64
	for _, pair := range pairs {
		size += int64(len(pair.Hash) + len(pair.Password))
	}
	return size
}
