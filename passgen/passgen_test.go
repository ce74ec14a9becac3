// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package passgen

import (
	"bytes"
	"errors"
	"testing"

	"pgregory.net/rapid"
)

// TestGenerate ensures the generator honors count and length and only emits
// bytes from the printable ASCII alphabet, across worker counts.
func TestGenerate(t *testing.T) {
	tests := []struct {
		count   int
		plen    int
		workers int
	}{
		{count: 3, plen: 4, workers: 1},
		{count: 10, plen: 1, workers: 3},
		{count: 100, plen: 12, workers: 4},
		{count: 7, plen: 255, workers: 16},
	}

	for _, test := range tests {
		passwords, err := Generate(test.count, test.plen, test.workers)
		if err != nil {
			t.Fatalf("Generate(%d, %d, %d): %v", test.count, test.plen,
				test.workers, err)
		}
		if len(passwords) != test.count {
			t.Fatalf("got %d passwords, want %d", len(passwords),
				test.count)
		}
		for i, password := range passwords {
			if len(password) != test.plen {
				t.Errorf("password %d has length %d, want %d", i,
					len(password), test.plen)
			}
			for _, b := range password {
				if b < ASCIIOffset || b >= ASCIIOffset+AlphabetSize {
					t.Errorf("password %d contains byte 0x%02x outside "+
						"the alphabet", i, b)
				}
			}
		}
	}
}

// TestGenerateArgErrors ensures invalid counts and lengths are rejected.
func TestGenerateArgErrors(t *testing.T) {
	if _, err := Generate(0, 4, 1); !errors.Is(err, ErrBadCount) {
		t.Errorf("count 0: got %v, want ErrBadCount", err)
	}
	if _, err := Generate(1, 0, 1); !errors.Is(err, ErrBadPasswordLen) {
		t.Errorf("plen 0: got %v, want ErrBadPasswordLen", err)
	}
	if _, err := Generate(1, 256, 1); !errors.Is(err, ErrBadPasswordLen) {
		t.Errorf("plen 256: got %v, want ErrBadPasswordLen", err)
	}
}

// TestPasswordsRoundTrip is a property test: any valid password list
// round-trips through WritePasswords and ReadPasswords unchanged.
func TestPasswordsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		plen := rapid.IntRange(MinPasswordLen, 32).Draw(t, "plen")
		count := rapid.IntRange(1, 50).Draw(t, "count")

		passwords := make([][]byte, count)
		for i := range passwords {
			password := make([]byte, plen)
			for j := range password {
				password[j] = byte(ASCIIOffset +
					rapid.IntRange(0, AlphabetSize-1).Draw(t, "char"))
			}
			passwords[i] = password
		}

		var buf bytes.Buffer
		if err := WritePasswords(&buf, passwords); err != nil {
			t.Fatalf("WritePasswords: %v", err)
		}
		parsed, err := ReadPasswords(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadPasswords: %v", err)
		}
		if len(parsed) != len(passwords) {
			t.Fatalf("got %d passwords, want %d", len(parsed),
				len(passwords))
		}
		for i := range passwords {
			if !bytes.Equal(parsed[i], passwords[i]) {
				t.Fatalf("password %d: got %q, want %q", i, parsed[i],
					passwords[i])
			}
		}
	})
}

// TestReadPasswordsErrors exercises the list validation paths.
func TestReadPasswordsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "empty list", data: "", want: ErrEmptyList},
		{name: "length mismatch", data: "aaaa\nbbb\n", want: ErrLengthMismatch},
		{name: "non printable", data: "aa\x07a\n", want: ErrNonPrintable},
		{name: "empty first line", data: "\naaaa\n", want: ErrBadPasswordLen},
	}

	for _, test := range tests {
		_, err := ReadPasswords(bytes.NewReader([]byte(test.data)))
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}
