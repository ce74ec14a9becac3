// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rainbow

import (
	"fmt"

	"github.com/hashassin/hashassin/hashes"
	"github.com/hashassin/hashassin/worker"
)

// Chain is one stored rainbow chain: the seed password and the password
// reached after the table's full number of hash-reduce links.
type Chain struct {
	Start []byte
	End   []byte
}

// BuildChain walks numLinks hash-reduce links from the seed and returns the
// chain endpoint.  Link i hashes the current password and reduces the digest
// with step index i, so the endpoint is only reproducible by walks that use
// the same ascending index sequence.
func BuildChain(algo hashes.Algorithm, seed []byte, numLinks uint64) []byte {
	var r reducer
	password := seed
	for i := uint64(0); i < numLinks; i++ {
		password = r.reduce(hashes.Sum(algo, password), i, len(seed))
	}
	return password
}

// BuildTable builds a rainbow table from the seed passwords, constructing
// chains across the compute pool in slabs of contiguous seeds.  Chains are
// returned in seed order no matter which worker finished them first.  Every
// seed must already share one length; callers obtain such a list from
// passgen.ReadPasswords.
func BuildTable(pool *worker.Pool, algo hashes.Algorithm, seeds [][]byte,
	numLinks uint64, slabs int) (*Table, error) {

	if len(seeds) == 0 {
		return nil, makeError(ErrNoChains, "no seed passwords to build from")
	}
	if numLinks == 0 {
		return nil, makeError(ErrBadNumLinks, "chain length must be positive")
	}
	if slabs < 1 {
		slabs = 1
	}
	if slabs > len(seeds) {
		slabs = len(seeds)
	}

	plen := len(seeds[0])
	slabSize := (len(seeds) + slabs - 1) / slabs
	numSlabs := (len(seeds) + slabSize - 1) / slabSize

	results, err := pool.MapOrdered(numSlabs, func(slab int) (any, error) {
		start := slab * slabSize
		end := start + slabSize
		if end > len(seeds) {
			end = len(seeds)
		}

		chains := make([]Chain, 0, end-start)
		for _, seed := range seeds[start:end] {
			if len(seed) != plen {
				return nil, makeError(ErrMalformedFile,
					fmt.Sprintf("seed length %d does not match first "+
						"seed length %d", len(seed), plen))
			}
			chains = append(chains, Chain{
				Start: seed,
				End:   BuildChain(algo, seed, numLinks),
			})
		}
		return chains, nil
	})
	if err != nil {
		return nil, err
	}

	chains := make([]Chain, 0, len(seeds))
	for _, result := range results {
		chains = append(chains, result.([]Chain)...)
	}
	return NewTable(algo, uint8(plen), numLinks, chains)
}
