// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rainbow

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hashassin/hashassin/hashes"
	"github.com/hashassin/hashassin/passgen"
)

// TableMagic is the magic string that opens every rainbow table file.
const TableMagic = "rainbowtable"

// TableFileVersion is the only rainbow table format version this package
// reads and writes.
const TableFileVersion uint8 = 1

// maxAlgoNameLen bounds the algorithm name length read from a file header
// before the name is checked against the closed set.
const maxAlgoNameLen = 32

// Serialize writes the table to w in the on-disk format: the magic, the
// fixed header and then each chain's start and end passwords back to back in
// seed order.  The charset size and link count header fields are 128-bit
// big-endian integers.
func (t *Table) Serialize(w io.Writer) error {
	name := t.Algorithm.String()
	header := make([]byte, 0, len(TableMagic)+3+len(name)+33)
	header = append(header, TableMagic...)
	header = append(header, TableFileVersion, uint8(len(name)))
	header = append(header, name...)
	header = append(header, t.PasswordLen)
	header = appendUint128(header, passgen.AlphabetSize)
	header = appendUint128(header, t.NumLinks)
	header = append(header, passgen.ASCIIOffset)
	if _, err := w.Write(header); err != nil {
		return err
	}

	for _, chain := range t.Chains {
		if _, err := w.Write(chain.Start); err != nil {
			return err
		}
		if _, err := w.Write(chain.End); err != nil {
			return err
		}
	}
	return nil
}

// ReadTable parses a rainbow table file from r.  The full header prefix is
// validated before any chain record is read: the magic and version must
// match, the algorithm must be in the closed set, and the charset size and
// ASCII offset must be the alphabet this implementation reduces over.
// Trailing bytes that do not complete a chain record are rejected, as are
// chain passwords with bytes outside of printable ASCII.
func ReadTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(TableMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("short table magic: %v", err))
	}
	if string(magic) != TableMagic {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("bad table magic %q", magic))
	}

	var fixed [2]byte
	if _, err := io.ReadFull(br, fixed[:]); err != nil {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("short table header: %v", err))
	}
	if fixed[0] != TableFileVersion {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("unsupported table version %d", fixed[0]))
	}
	algoLen := int(fixed[1])
	if algoLen == 0 || algoLen > maxAlgoNameLen {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("invalid algorithm name length %d", algoLen))
	}

	nameBuf := make([]byte, algoLen)
	if _, err := io.ReadFull(br, nameBuf); err != nil {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("short algorithm name: %v", err))
	}
	algo, err := hashes.AlgorithmFromString(string(nameBuf))
	if err != nil {
		return nil, err
	}

	tail := make([]byte, 1+16+16+1)
	if _, err := io.ReadFull(br, tail); err != nil {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("short table header: %v", err))
	}
	plen := tail[0]
	if plen == 0 {
		return nil, makeError(ErrMalformedFile,
			"password length of zero in table header")
	}

	charset, err := readUint128(tail[1:17])
	if err != nil {
		return nil, err
	}
	if charset != passgen.AlphabetSize {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("unsupported charset size %d, want %d", charset,
				passgen.AlphabetSize))
	}
	numLinks, err := readUint128(tail[17:33])
	if err != nil {
		return nil, err
	}
	if numLinks == 0 {
		return nil, makeError(ErrBadNumLinks,
			"chain length of zero in table header")
	}
	if offset := tail[33]; offset != passgen.ASCIIOffset {
		return nil, makeError(ErrMalformedFile,
			fmt.Sprintf("unsupported ASCII offset 0x%02x, want 0x%02x",
				offset, passgen.ASCIIOffset))
	}

	stride := 2 * int(plen)
	var chains []Chain
	for {
		record := make([]byte, stride)
		n, err := io.ReadFull(br, record)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, makeError(ErrMalformedFile,
				fmt.Sprintf("truncated chain record: %d trailing bytes "+
					"do not complete a %d-byte record", n, stride))
		}
		chain := Chain{Start: record[:plen], End: record[plen:]}
		if !validPassword(chain.Start) || !validPassword(chain.End) {
			return nil, makeError(ErrMalformedFile,
				fmt.Sprintf("chain %d contains bytes outside of the "+
					"printable ASCII alphabet", len(chains)))
		}
		chains = append(chains, chain)
	}

	return NewTable(algo, plen, numLinks, chains)
}

// Dump writes the human-readable form of the table to w: a banner, the six
// header fields and then one start and end password pair per chain.
func (t *Table) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", TableMagic)
	fmt.Fprintf(bw, "VERSION: %d\n", TableFileVersion)
	fmt.Fprintf(bw, "ALGORITHM: %s\n", t.Algorithm)
	fmt.Fprintf(bw, "PASSWORD LENGTH: %d\n", t.PasswordLen)
	fmt.Fprintf(bw, "CHARSET SIZE: %d\n", passgen.AlphabetSize)
	fmt.Fprintf(bw, "NUM LINKS: %d\n", t.NumLinks)
	fmt.Fprintf(bw, "ASCII OFFSET: %d\n", passgen.ASCIIOffset)
	for _, chain := range t.Chains {
		fmt.Fprintf(bw, "%s\t%s\n", chain.Start, chain.End)
	}
	return bw.Flush()
}

// appendUint128 appends v as a 16-byte big-endian integer.
func appendUint128(b []byte, v uint64) []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[8:], v)
	return append(b, buf[:]...)
}

// readUint128 decodes a 16-byte big-endian integer whose value must fit in
// 64 bits.  Values beyond that are meaningless for this format and rejected.
func readUint128(b []byte) (uint64, error) {
	if hi := binary.BigEndian.Uint64(b[:8]); hi != 0 {
		return 0, makeError(ErrMalformedFile,
			fmt.Sprintf("128-bit header field overflows 64 bits "+
				"(high half 0x%016x)", hi))
	}
	return binary.BigEndian.Uint64(b[8:]), nil
}
