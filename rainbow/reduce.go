// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rainbow

import (
	"math/big"

	"github.com/hashassin/hashassin/passgen"
)

// Reduce deterministically maps a digest and a 0-based chain step index to a
// password of plen bytes over the printable ASCII alphabet.
//
// The digest is interpreted as a big-endian unsigned integer, the step index
// is mixed in by addition, and each output character is the next remainder of
// repeated division by the alphabet size, offset into printable ASCII.  The
// accumulator is arbitrary precision so 64-byte digests fold their high-order
// bytes into the early divisions rather than overflowing.
//
// Build and crack walks share this exact mapping; any divergence between the
// two breaks every chain in a table.
func Reduce(digest []byte, step uint64, plen int) []byte {
	var r reducer
	return r.reduce(digest, step, plen)
}

// reducer holds the scratch integers for reduction so a chain walk can run
// many reductions without reallocating them.  A reducer is not safe for
// concurrent use; each BuildChain call and each Crack call owns its own.
type reducer struct {
	acc   big.Int
	step  big.Int
	rem   big.Int
	radix *big.Int
}

var alphabetRadix = big.NewInt(passgen.AlphabetSize)

func (r *reducer) reduce(digest []byte, step uint64, plen int) []byte {
	if r.radix == nil {
		r.radix = alphabetRadix
	}

	r.acc.SetBytes(digest)
	r.step.SetUint64(step)
	r.acc.Add(&r.acc, &r.step)

	password := make([]byte, plen)
	for i := 0; i < plen; i++ {
		r.acc.DivMod(&r.acc, r.radix, &r.rem)
		password[i] = passgen.ASCIIOffset + byte(r.rem.Uint64())
	}
	return password
}
