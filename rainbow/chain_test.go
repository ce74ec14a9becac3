// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rainbow

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hashassin/hashassin/hashes"
	"github.com/hashassin/hashassin/worker"
)

// chainLinks walks a chain from seed and returns every password in it,
// including the seed and the endpoint.
func chainLinks(algo hashes.Algorithm, seed []byte, numLinks uint64) [][]byte {
	links := [][]byte{seed}
	password := seed
	for i := uint64(0); i < numLinks; i++ {
		password = Reduce(hashes.Sum(algo, password), i, len(seed))
		links = append(links, password)
	}
	return links
}

// TestBuildChainMatchesManualWalk ensures BuildChain and an explicit
// hash-reduce walk with ascending step indices agree.
func TestBuildChainMatchesManualWalk(t *testing.T) {
	seed := []byte("abcd")
	links := chainLinks(hashes.MD5, seed, 5)
	end := BuildChain(hashes.MD5, seed, 5)
	require.Equal(t, links[len(links)-1], end)
}

// TestBuildTableOrdering ensures chains appear in seed order for any worker
// and slab count.
func TestBuildTableOrdering(t *testing.T) {
	seeds := [][]byte{
		[]byte("aaaa"), []byte("bbbb"), []byte("cccc"), []byte("dddd"),
		[]byte("eeee"), []byte("ffff"), []byte("gggg"), []byte("hhhh"),
	}

	pool := worker.New(4)
	defer pool.Close()

	for _, slabs := range []int{1, 2, 3, 8, 100} {
		table, err := BuildTable(pool, hashes.MD5, seeds, 3, slabs)
		require.NoError(t, err)
		require.Len(t, table.Chains, len(seeds))
		for i, chain := range table.Chains {
			require.Equal(t, seeds[i], chain.Start, "slabs=%d", slabs)
			require.Equal(t, BuildChain(hashes.MD5, seeds[i], 3),
				chain.End, "slabs=%d", slabs)
		}
	}
}

// TestBuildTableErrors ensures empty seed lists and zero-length chains are
// rejected.
func TestBuildTableErrors(t *testing.T) {
	pool := worker.New(1)
	defer pool.Close()

	_, err := BuildTable(pool, hashes.MD5, nil, 5, 1)
	require.True(t, errors.Is(err, ErrNoChains))

	_, err = BuildTable(pool, hashes.MD5, [][]byte{[]byte("aaaa")}, 0, 1)
	require.True(t, errors.Is(err, ErrBadNumLinks))
}

// TestCrackRecoversSeeds builds a table from two seeds and cracks the hash
// of a seed password.
func TestCrackRecoversSeeds(t *testing.T) {
	pool := worker.New(2)
	defer pool.Close()

	seeds := [][]byte{[]byte("aaaa"), []byte("bbbb")}
	table, err := BuildTable(pool, hashes.MD5, seeds, 10, 2)
	require.NoError(t, err)

	password, ok := table.Crack(hashes.Sum(hashes.MD5, []byte("bbbb")))
	require.True(t, ok)
	require.Equal(t, []byte("bbbb"), password)
}

// TestCrackRecoversEveryLink ensures every password reachable inside a
// chain is recoverable from its hash, not just the seeds.
func TestCrackRecoversEveryLink(t *testing.T) {
	pool := worker.New(2)
	defer pool.Close()

	seeds := [][]byte{[]byte("qrst"), []byte("wxyz")}
	const numLinks = 8
	table, err := BuildTable(pool, hashes.SHA256, seeds, numLinks, 1)
	require.NoError(t, err)

	for _, seed := range seeds {
		links := chainLinks(hashes.SHA256, seed, numLinks)
		// The endpoint's hash is never taken during a build walk, so
		// only the first numLinks positions are recoverable.
		for i, link := range links[:numLinks] {
			target := hashes.Sum(hashes.SHA256, link)
			password, ok := table.Crack(target)
			require.True(t, ok, "link %d of seed %q", i, seed)
			require.True(t,
				bytes.Equal(hashes.Sum(hashes.SHA256, password), target),
				"link %d of seed %q: recovered %q does not hash to the "+
					"target", i, seed, password)
		}
	}
}

// TestCrackNotFound ensures a hash outside every chain reports no recovery.
func TestCrackNotFound(t *testing.T) {
	pool := worker.New(1)
	defer pool.Close()

	table, err := BuildTable(pool, hashes.MD5,
		[][]byte{[]byte("aaaa")}, 5, 1)
	require.NoError(t, err)

	// A hash of a password of a different length cannot be in any chain
	// of this table except by chain collision, which the replay rejects
	// unless the hash truly regenerates.
	_, ok := table.Crack(hashes.Sum(hashes.MD5, []byte("zzzzzzzz")))
	require.False(t, ok)
}

// TestEndpointCollisionKeepsFirst ensures duplicate endpoints keep the
// first-seen pairing and cracking still succeeds through it.
func TestEndpointCollisionKeepsFirst(t *testing.T) {
	// Two identical seeds necessarily share an endpoint.
	chains := []Chain{
		{Start: []byte("aaaa"), End: BuildChain(hashes.MD5, []byte("aaaa"), 4)},
		{Start: []byte("aaaa"), End: BuildChain(hashes.MD5, []byte("aaaa"), 4)},
	}
	table, err := NewTable(hashes.MD5, 4, 4, chains)
	require.NoError(t, err)
	require.Len(t, table.Chains, 2)

	password, ok := table.Crack(hashes.Sum(hashes.MD5, []byte("aaaa")))
	require.True(t, ok)
	require.Equal(t, []byte("aaaa"), password)
}
