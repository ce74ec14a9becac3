// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package passgen generates uniform random passwords over the printable
// ASCII alphabet and reads and writes newline-separated password lists.
package passgen

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"

	prng "github.com/sixafter/prng-chacha"
)

const (
	// AlphabetSize is the number of symbols in the password alphabet.
	// The alphabet is the printable ASCII range 0x20 through 0x7E.
	AlphabetSize = 95

	// ASCIIOffset is the codepoint of the first symbol in the alphabet.
	ASCIIOffset = 0x20

	// MinPasswordLen and MaxPasswordLen bound the password length shared
	// by all passwords within a single artifact.
	MinPasswordLen = 1
	MaxPasswordLen = 255
)

// rejectBound is the largest multiple of AlphabetSize that fits in a byte.
// Random bytes at or above the bound are redrawn so that reducing modulo
// AlphabetSize stays uniform.
const rejectBound = (256 / AlphabetSize) * AlphabetSize

// Generate produces count random passwords of plen bytes each, drawn
// uniformly from the printable ASCII alphabet.  The work is split into one
// contiguous slab per worker; every worker reads from the process-wide
// ChaCha20 random source and fills its own slab, so the returned passwords
// appear in slab order regardless of scheduling.
func Generate(count, plen, workers int) ([][]byte, error) {
	if count < 1 {
		return nil, makeError(ErrBadCount,
			fmt.Sprintf("password count %d is not positive", count))
	}
	if plen < MinPasswordLen || plen > MaxPasswordLen {
		return nil, makeError(ErrBadPasswordLen,
			fmt.Sprintf("password length %d is not in the range %d-%d",
				plen, MinPasswordLen, MaxPasswordLen))
	}
	if workers < 1 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	passwords := make([][]byte, count)
	slabSize := (count + workers - 1) / workers

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for slab := 0; slab*slabSize < count; slab++ {
		start := slab * slabSize
		end := start + slabSize
		if end > count {
			end = count
		}
		wg.Add(1)
		go func(slab, start, end int) {
			defer wg.Done()
			errs[slab] = fillSlab(passwords[start:end], plen)
		}(slab, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return passwords, nil
}

// fillSlab fills every slot of the slab with a fresh random password of plen
// bytes.  It must only be called with a slab no other goroutine writes to.
func fillSlab(slab [][]byte, plen int) error {
	// Buffer the shared random source so each worker pulls entropy in
	// large reads rather than one syscall-sized read per character.
	src := bufio.NewReader(prng.Reader)

	for i := range slab {
		password := make([]byte, plen)
		for j := 0; j < plen; {
			b, err := src.ReadByte()
			if err != nil {
				return err
			}
			if b >= rejectBound {
				continue
			}
			password[j] = ASCIIOffset + b%AlphabetSize
			j++
		}
		slab[i] = password
	}
	return nil
}

// WritePasswords writes the passwords to w, one per line, in slice order.
func WritePasswords(w io.Writer, passwords [][]byte) error {
	bw := bufio.NewWriter(w)
	for _, password := range passwords {
		if _, err := bw.Write(password); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadPasswords parses a newline-separated password list from r.  The length
// of the first password fixes the artifact's password length; later lines
// that do not match it, bytes outside of the printable ASCII alphabet, and
// empty lists are all rejected.
func ReadPasswords(r io.Reader) ([][]byte, error) {
	var passwords [][]byte
	plen := -1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxPasswordLen+1)
	for scanner.Scan() {
		// A clone is required since the scanner reuses its buffer.
		password := bytes.Clone(scanner.Bytes())
		if plen == -1 {
			if len(password) < MinPasswordLen ||
				len(password) > MaxPasswordLen {

				return nil, makeError(ErrBadPasswordLen,
					fmt.Sprintf("password length %d is not in the "+
						"range %d-%d", len(password), MinPasswordLen,
						MaxPasswordLen))
			}
			plen = len(password)
		}
		if len(password) != plen {
			return nil, makeError(ErrLengthMismatch,
				fmt.Sprintf("password %d is %d bytes, want %d",
					len(passwords), len(password), plen))
		}
		for _, b := range password {
			if b < ASCIIOffset || b >= ASCIIOffset+AlphabetSize {
				return nil, makeError(ErrNonPrintable,
					fmt.Sprintf("password %d contains byte 0x%02x "+
						"outside of the printable ASCII alphabet",
						len(passwords), b))
			}
		}
		passwords = append(passwords, password)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(passwords) == 0 {
		return nil, makeError(ErrEmptyList, "password list is empty")
	}
	return passwords, nil
}
