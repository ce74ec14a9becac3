// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashes

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies one of the supported hashing algorithms.  The set is
// closed; values other than the exported constants are rejected everywhere an
// Algorithm is consumed.
type Algorithm string

const (
	// MD5 is the 128-bit MD5 digest.
	MD5 Algorithm = "md5"

	// SHA256 is the 256-bit SHA-2 digest.
	SHA256 Algorithm = "sha256"

	// SHA3_512 is the 512-bit SHA-3 digest.
	SHA3_512 Algorithm = "sha3_512"

	// Scrypt is the scrypt key derivation function used as a plain
	// bytes-to-bytes hash with the fixed cost parameters below.
	Scrypt Algorithm = "scrypt"
)

// Fixed scrypt cost parameters.  Rainbow chains require a deterministic
// password to hash mapping, so scrypt runs with no per-password salt and the
// same cost on every call.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// algorithms maps the on-disk algorithm names to their digest lengths in
// bytes.
var algorithms = map[Algorithm]int{
	MD5:      md5.Size,
	SHA256:   sha256.Size,
	SHA3_512: 64,
	Scrypt:   scryptKeyLen,
}

// AlgorithmFromString converts the given algorithm name to the corresponding
// Algorithm.  An ErrUnknownAlgorithm failure is returned for names outside of
// the closed set.
func AlgorithmFromString(name string) (Algorithm, error) {
	algo := Algorithm(name)
	if _, ok := algorithms[algo]; !ok {
		return "", algorithmError("AlgorithmFromString",
			fmt.Sprintf("unsupported algorithm %q", name))
	}
	return algo, nil
}

// String returns the on-disk name of the algorithm.
func (algo Algorithm) String() string {
	return string(algo)
}

// valid returns whether the algorithm is a member of the closed set.
func (algo Algorithm) valid() bool {
	_, ok := algorithms[algo]
	return ok
}

// DigestLen returns the digest length of the algorithm in bytes.  It panics
// for algorithms outside of the closed set since all exported constructors
// reject them up front.
func DigestLen(algo Algorithm) int {
	size, ok := algorithms[algo]
	if !ok {
		panic(fmt.Sprintf("digest length requested for unknown algorithm %q",
			algo))
	}
	return size
}

// Sum returns the digest of the input bytes under the given algorithm.  The
// returned slice has length DigestLen(algo).
func Sum(algo Algorithm, input []byte) []byte {
	switch algo {
	case MD5:
		digest := md5.Sum(input)
		return digest[:]

	case SHA256:
		digest := sha256.Sum256(input)
		return digest[:]

	case SHA3_512:
		digest := sha3.Sum512(input)
		return digest[:]

	case Scrypt:
		// The scrypt parameters are fixed and well formed, so the only
		// error path is an invalid cost configuration which cannot
		// happen here.
		digest, err := scrypt.Key(input, nil, scryptN, scryptR, scryptP,
			scryptKeyLen)
		if err != nil {
			panic(fmt.Sprintf("scrypt with fixed parameters failed: %v",
				err))
		}
		return digest

	default:
		panic(fmt.Sprintf("hash requested for unknown algorithm %q", algo))
	}
}
