// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hashassin/hashassin/wire"
)

// makePairs builds a pair list whose accounted size is exactly n bytes.
func makePairs(n int) []wire.Pair {
	return []wire.Pair{{
		Hash:     make([]byte, n/2),
		Password: make([]byte, n-n/2),
	}}
}

// TestCacheHitMiss ensures the second identical request is served from the
// cache without invoking compute again.
func TestCacheHitMiss(t *testing.T) {
	cache := NewCache(1024)
	key := Fingerprint([]byte("request"))

	var computes atomic.Int32
	compute := func() ([]wire.Pair, error) {
		computes.Add(1)
		return makePairs(10), nil
	}

	pairs, cached, err := cache.Do(key, compute)
	require.NoError(t, err)
	require.False(t, cached)
	require.Len(t, pairs, 1)

	again, cached, err := cache.Do(key, compute)
	require.NoError(t, err)
	require.True(t, cached)
	require.Equal(t, pairs, again)
	require.Equal(t, int32(1), computes.Load())
}

// TestCacheBudgetNeverExceeded inserts entries past the budget and checks
// the retained bytes never go over it while older entries get evicted.
func TestCacheBudgetNeverExceeded(t *testing.T) {
	const budget = 100
	cache := NewCache(budget)

	for i := 0; i < 20; i++ {
		key := Fingerprint([]byte{byte(i)})
		_, _, err := cache.Do(key, func() ([]wire.Pair, error) {
			return makePairs(30), nil
		})
		require.NoError(t, err)
		require.LessOrEqual(t, cache.Used(), int64(budget),
			"after insertion %d", i)
	}

	// The freshest entry must still be resident.
	_, cached, err := cache.Do(Fingerprint([]byte{19}),
		func() ([]wire.Pair, error) {
			t.Fatal("freshest entry was evicted")
			return nil, nil
		})
	require.NoError(t, err)
	require.True(t, cached)
}

// TestCacheOversizedEntry ensures an entry larger than the whole budget is
// served but never cached.
func TestCacheOversizedEntry(t *testing.T) {
	cache := NewCache(10)
	key := Fingerprint([]byte("huge"))

	var computes atomic.Int32
	compute := func() ([]wire.Pair, error) {
		computes.Add(1)
		return makePairs(50), nil
	}

	for i := 0; i < 2; i++ {
		pairs, cached, err := cache.Do(key, compute)
		require.NoError(t, err)
		require.False(t, cached)
		require.Len(t, pairs, 1)
	}
	require.Equal(t, int32(2), computes.Load())
	require.Zero(t, cache.Used())
}

// TestCacheLRUOrder ensures a lookup refreshes recency so eviction removes
// the least recently used entry.
func TestCacheLRUOrder(t *testing.T) {
	cache := NewCache(60)
	keyA := Fingerprint([]byte("a"))
	keyB := Fingerprint([]byte("b"))

	mustAdd := func(key CacheKey) {
		_, _, err := cache.Do(key, func() ([]wire.Pair, error) {
			return makePairs(30), nil
		})
		require.NoError(t, err)
	}
	mustAdd(keyA)
	mustAdd(keyB)

	// Touch A so B becomes the eviction candidate.
	_, cached, err := cache.Do(keyA, nil)
	require.NoError(t, err)
	require.True(t, cached)

	mustAdd(Fingerprint([]byte("c")))

	_, cached, err = cache.Do(keyA, func() ([]wire.Pair, error) {
		return makePairs(1), nil
	})
	require.NoError(t, err)
	require.True(t, cached, "recently used entry was evicted")
}

// TestCacheSingleFlight launches concurrent identical requests against a
// slow compute and checks exactly one computation ran.
func TestCacheSingleFlight(t *testing.T) {
	cache := NewCache(1024)
	key := Fingerprint([]byte("slow"))

	var computes atomic.Int32
	release := make(chan struct{})
	compute := func() ([]wire.Pair, error) {
		computes.Add(1)
		<-release
		return makePairs(8), nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	results := make([][]wire.Pair, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pairs, _, err := cache.Do(key, compute)
			if err != nil {
				panic(err)
			}
			results[i] = pairs
		}(i)
	}

	close(release)
	wg.Wait()

	require.Equal(t, int32(1), computes.Load())
	for _, pairs := range results {
		require.Equal(t, results[0], pairs)
	}
}

// TestCacheComputeError ensures compute failures propagate and nothing is
// cached.
func TestCacheComputeError(t *testing.T) {
	cache := NewCache(1024)
	key := Fingerprint([]byte("fail"))
	errBoom := errors.New("boom")

	_, _, err := cache.Do(key, func() ([]wire.Pair, error) {
		return nil, errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Zero(t, cache.Used())

	var computes atomic.Int32
	_, cached, err := cache.Do(key, func() ([]wire.Pair, error) {
		computes.Add(1)
		return makePairs(4), nil
	})
	require.NoError(t, err)
	require.False(t, cached)
	require.Equal(t, int32(1), computes.Load())
}

// TestNilCache ensures a nil cache always computes and never retains.
func TestNilCache(t *testing.T) {
	var cache *Cache

	var computes atomic.Int32
	for i := 0; i < 3; i++ {
		pairs, cached, err := cache.Do(Fingerprint([]byte("x")),
			func() ([]wire.Pair, error) {
				computes.Add(1)
				return makePairs(4), nil
			})
		require.NoError(t, err)
		require.False(t, cached)
		require.Len(t, pairs, 1)
	}
	require.Equal(t, int32(3), computes.Load())
	require.Zero(t, cache.Used())
}
