// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashes

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
)

// FileVersion is the only hashes file format version this package reads and
// writes.
const FileVersion uint8 = 1

// maxAlgoNameLen bounds the algorithm name length read from a file header
// before the name is checked against the closed set.
const maxAlgoNameLen = 32

// File is the parsed form of a hashes file: a fixed header followed by raw
// digests, all produced from passwords of a single length.
type File struct {
	Algorithm   Algorithm
	PasswordLen uint8
	Hashes      [][]byte
}

// NewFile returns a hashes file for the given digests.  The password length
// must be in the supported range and every digest must match the algorithm's
// digest length.
func NewFile(algo Algorithm, passwordLen int, digests [][]byte) (*File, error) {
	if !algo.valid() {
		return nil, algorithmError("NewFile",
			fmt.Sprintf("unsupported algorithm %q", algo))
	}
	if passwordLen < 1 || passwordLen > 255 {
		return nil, makeError(ErrBadPasswordLen,
			fmt.Sprintf("password length %d is not in the range 1-255",
				passwordLen))
	}
	digestLen := DigestLen(algo)
	for i, digest := range digests {
		if len(digest) != digestLen {
			return nil, makeError(ErrMalformedFile,
				fmt.Sprintf("digest %d is %d bytes, want %d", i,
					len(digest), digestLen))
		}
	}
	return &File{
		Algorithm:   algo,
		PasswordLen: uint8(passwordLen),
		Hashes:      digests,
	}, nil
}

// Serialize writes the hashes file to w: VERSION, ALGO_LEN, ALGO and PLEN
// header bytes followed by each digest back to back in input order.
func (f *File) Serialize(w io.Writer) error {
	name := f.Algorithm.String()
	header := make([]byte, 0, 3+len(name))
	header = append(header, FileVersion, uint8(len(name)))
	header = append(header, name...)
	header = append(header, f.PasswordLen)
	if _, err := w.Write(header); err != nil {
		return err
	}
	for _, digest := range f.Hashes {
		if _, err := w.Write(digest); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile parses a hashes file from r.  The header is validated before any
// payload is read and a payload whose final record is truncated is rejected.
func ReadFile(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	var header [2]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("short hashes file header: %v", err))
	}
	if header[0] != FileVersion {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("unsupported hashes file version %d", header[0]))
	}
	algoLen := int(header[1])
	if algoLen == 0 || algoLen > maxAlgoNameLen {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("invalid algorithm name length %d", algoLen))
	}

	nameBuf := make([]byte, algoLen)
	if _, err := io.ReadFull(br, nameBuf); err != nil {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("short algorithm name: %v", err))
	}
	algo, err := AlgorithmFromString(string(nameBuf))
	if err != nil {
		return nil, err
	}

	plen, err := br.ReadByte()
	if err != nil {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("missing password length: %v", err))
	}
	if plen == 0 {
		return nil, makeError(ErrBadPasswordLen,
			"password length of zero in hashes file header")
	}

	digestLen := DigestLen(algo)
	var digests [][]byte
	for {
		digest := make([]byte, digestLen)
		n, err := io.ReadFull(br, digest)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, makeError(ErrMalformedFile,
				fmt.Sprintf("truncated digest record: %d trailing bytes "+
					"do not complete a %d-byte digest", n, digestLen))
		}
		digests = append(digests, digest)
	}

	return &File{Algorithm: algo, PasswordLen: plen, Hashes: digests}, nil
}

// Dump writes the human-readable form of the hashes file to w: a preamble
// with the version, algorithm and password length followed by one
// lowercase-hex digest per line in file order.
func (f *File) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "VERSION: %d\n", FileVersion)
	fmt.Fprintf(bw, "ALGORITHM: %s\n", f.Algorithm)
	fmt.Fprintf(bw, "PASSWORD LENGTH: %d\n", f.PasswordLen)
	for _, digest := range f.Hashes {
		fmt.Fprintf(bw, "%s\n", hex.EncodeToString(digest))
	}
	return bw.Flush()
}
