// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rainbow

import (
	"bytes"
	"fmt"

	"github.com/hashassin/hashassin/hashes"
	"github.com/hashassin/hashassin/passgen"
)

// Table is an in-memory rainbow table.  It keeps the ordered chain list for
// round-tripping the on-disk form plus an endpoint lookup map for cracking.
// A table is immutable once constructed and therefore safe for concurrent
// readers without locking.
type Table struct {
	Algorithm   hashes.Algorithm
	PasswordLen uint8
	NumLinks    uint64
	Chains      []Chain

	// endpoints maps a chain's final password to its seed.  When several
	// chains share an endpoint the first-seen pairing is kept; any seed
	// whose chain reaches that endpoint yields a valid replay.
	endpoints map[string][]byte
}

// NewTable assembles a table from prebuilt chains and indexes the chain
// endpoints.
func NewTable(algo hashes.Algorithm, passwordLen uint8, numLinks uint64,
	chains []Chain) (*Table, error) {

	if numLinks == 0 {
		return nil, makeError(ErrBadNumLinks, "chain length must be positive")
	}
	if len(chains) == 0 {
		return nil, makeError(ErrNoChains, "table has no chains")
	}

	endpoints := make(map[string][]byte, len(chains))
	for i, chain := range chains {
		if len(chain.Start) != int(passwordLen) ||
			len(chain.End) != int(passwordLen) {

			return nil, makeError(ErrMalformedFile,
				fmt.Sprintf("chain %d does not match password length %d",
					i, passwordLen))
		}
		if _, ok := endpoints[string(chain.End)]; !ok {
			endpoints[string(chain.End)] = chain.Start
		}
	}

	return &Table{
		Algorithm:   algo,
		PasswordLen: passwordLen,
		NumLinks:    numLinks,
		Chains:      chains,
		endpoints:   endpoints,
	}, nil
}

// Matches returns whether the table can answer for hashes produced with the
// given algorithm over passwords of the given length.
func (t *Table) Matches(algo hashes.Algorithm, passwordLen uint8) bool {
	return t.Algorithm == algo && t.PasswordLen == passwordLen
}

// Crack attempts to recover the preimage of target from the table's chains.
// It tries each possible chain position for the target in descending step
// order, starting with the position nearest the chain endpoint, by walking
// the remaining hash-reduce links to a candidate endpoint and replaying any chain whose endpoint matches.  A
// replay that never regenerates the target is a chain collision false alarm
// and the search continues at the next position.
func (t *Table) Crack(target []byte) ([]byte, bool) {
	var r reducer
	plen := int(t.PasswordLen)

	for j := int64(t.NumLinks) - 1; j >= 0; j-- {
		// Hypothesis: target is the hash taken at step j of some chain.
		// Finishing that chain's walk from here must use the same step
		// indices the build used, j+1 and up.
		candidate := r.reduce(target, uint64(j), plen)
		for k := uint64(j) + 1; k < t.NumLinks; k++ {
			candidate = r.reduce(hashes.Sum(t.Algorithm, candidate), k, plen)
		}

		start, ok := t.endpoints[string(candidate)]
		if !ok {
			continue
		}

		if password, ok := t.replay(&r, start, target); ok {
			return password, true
		}
	}
	return nil, false
}

// replay walks the chain from start and returns the password in it whose
// hash equals target, or false when the chain never produces the target.
func (t *Table) replay(r *reducer, start, target []byte) ([]byte, bool) {
	plen := int(t.PasswordLen)
	password := start
	for i := uint64(0); i < t.NumLinks; i++ {
		digest := hashes.Sum(t.Algorithm, password)
		if bytes.Equal(digest, target) {
			return password, true
		}
		password = r.reduce(digest, i, plen)
	}
	return nil, false
}

// validPassword reports whether every byte of the password lies in the
// printable ASCII alphabet.
func validPassword(password []byte) bool {
	for _, b := range password {
		if b < passgen.ASCIIOffset ||
			b >= passgen.ASCIIOffset+passgen.AlphabetSize {

			return false
		}
	}
	return true
}
