// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashes

import (
	"encoding/hex"
	"errors"
	"testing"
)

// TestAlgorithmFromString ensures every member of the closed set parses and
// anything else is rejected with ErrUnknownAlgorithm.
func TestAlgorithmFromString(t *testing.T) {
	tests := []struct {
		name    string
		want    Algorithm
		wantErr bool
	}{
		{name: "md5", want: MD5},
		{name: "sha256", want: SHA256},
		{name: "sha3_512", want: SHA3_512},
		{name: "scrypt", want: Scrypt},
		{name: "sha1", wantErr: true},
		{name: "MD5", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, test := range tests {
		algo, err := AlgorithmFromString(test.name)
		if test.wantErr {
			if !errors.Is(err, ErrUnknownAlgorithm) {
				t.Errorf("%q: want ErrUnknownAlgorithm, got %v", test.name,
					err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.name, err)
			continue
		}
		if algo != test.want {
			t.Errorf("%q: got %v, want %v", test.name, algo, test.want)
		}
	}
}

// TestDigestLen checks the fixed digest lengths of the closed set.
func TestDigestLen(t *testing.T) {
	tests := []struct {
		algo Algorithm
		want int
	}{
		{MD5, 16},
		{SHA256, 32},
		{SHA3_512, 64},
		{Scrypt, 32},
	}
	for _, test := range tests {
		if got := DigestLen(test.algo); got != test.want {
			t.Errorf("%v: digest length %d, want %d", test.algo, got,
				test.want)
		}
	}
}

// TestSumKnownVectors checks Sum against fixed digests.
func TestSumKnownVectors(t *testing.T) {
	tests := []struct {
		algo  Algorithm
		input string
		want  string
	}{{
		algo:  MD5,
		input: "abcd",
		want:  "e2fc714c4727ee9395f324cd2e7f331f",
	}, {
		algo:  SHA256,
		input: "abc",
		want: "ba7816bf8f01cfea414140de5dae2223" +
			"b00361a396177a9cb410ff61f20015ad",
	}}

	for _, test := range tests {
		got := hex.EncodeToString(Sum(test.algo, []byte(test.input)))
		if got != test.want {
			t.Errorf("%v(%q): got %s, want %s", test.algo, test.input, got,
				test.want)
		}
	}
}

// TestSumLengthsAndDeterminism ensures every algorithm produces digests of
// its advertised length and identical digests for identical input, which is
// what makes unsalted scrypt usable in chains at all.
func TestSumLengthsAndDeterminism(t *testing.T) {
	for algo := range algorithms {
		first := Sum(algo, []byte("p@ss"))
		second := Sum(algo, []byte("p@ss"))
		if len(first) != DigestLen(algo) {
			t.Errorf("%v: digest length %d, want %d", algo, len(first),
				DigestLen(algo))
		}
		if string(first) != string(second) {
			t.Errorf("%v: digests differ across calls", algo)
		}
	}
}
