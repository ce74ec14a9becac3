// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashes

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// HashPasswords hashes every password under the given algorithm across the
// requested number of workers.  The work is split into one contiguous slab
// per worker and each worker writes into its own region of the result slice,
// so the returned digests are in the same order as the input passwords.
func HashPasswords(algo Algorithm, passwords [][]byte, workers int) ([][]byte, error) {
	if !algo.valid() {
		return nil, algorithmError("HashPasswords",
			fmt.Sprintf("unsupported algorithm %q", algo))
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(passwords) {
		workers = len(passwords)
	}

	digests := make([][]byte, len(passwords))
	if len(passwords) == 0 {
		return digests, nil
	}

	var g errgroup.Group
	slabSize := (len(passwords) + workers - 1) / workers
	for start := 0; start < len(passwords); start += slabSize {
		end := start + slabSize
		if end > len(passwords) {
			end = len(passwords)
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				digests[i] = Sum(algo, passwords[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return digests, nil
}
