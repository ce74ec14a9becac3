// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// Pair is one recovered hash and its plaintext password.
type Pair struct {
	Hash     []byte
	Password []byte
}

// WriteStatusResponse writes a status byte followed by a u16-length-prefixed
// UTF-8 message.  It is the full response to an upload and the error
// response to any request.
func WriteStatusResponse(w io.Writer, status Status, message string) error {
	if len(message) > 0xffff {
		message = message[:0xffff]
	}
	buf := make([]byte, 0, 3+len(message))
	buf = append(buf, byte(status))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(message)))
	buf = append(buf, message...)
	_, err := w.Write(buf)
	return err
}

// ReadStatusResponse reads a status byte and its message from r.
func ReadStatusResponse(r io.Reader) (Status, string, error) {
	var head [3]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return 0, "", messageError("ReadStatusResponse", ErrBadResponse,
			fmt.Sprintf("short status response: %v", err))
	}
	msgLen := binary.BigEndian.Uint16(head[1:])
	message := make([]byte, msgLen)
	if _, err := io.ReadFull(r, message); err != nil {
		return 0, "", messageError("ReadStatusResponse", ErrBadResponse,
			fmt.Sprintf("short status message: %v", err))
	}
	return Status(head[0]), string(message), nil
}

// WriteCrackResponse writes the success response to a crack request: a zero
// status byte, a u32 pair count, and one hex-hash, tab, password, newline
// record per recovered pair in request order.  Hashes with no recovery are
// simply absent.
func WriteCrackResponse(w io.Writer, pairs []Pair) error {
	bw := bufio.NewWriter(w)
	if err := bw.WriteByte(byte(StatusOK)); err != nil {
		return err
	}
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(pairs)))
	if _, err := bw.Write(countBuf[:]); err != nil {
		return err
	}
	for _, pair := range pairs {
		fmt.Fprintf(bw, "%s\t%s\n", hex.EncodeToString(pair.Hash),
			pair.Password)
	}
	return bw.Flush()
}

// ReadCrackResponse reads a crack response from r.  A nonzero status is
// returned together with the server's diagnostic message and no pairs.
func ReadCrackResponse(r io.Reader) (Status, string, []Pair, error) {
	br := bufio.NewReader(r)

	status, err := br.ReadByte()
	if err != nil {
		return 0, "", nil, messageError("ReadCrackResponse", ErrBadResponse,
			fmt.Sprintf("short crack response: %v", err))
	}
	if Status(status) != StatusOK {
		var lenBuf [2]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			return 0, "", nil, messageError("ReadCrackResponse",
				ErrBadResponse,
				fmt.Sprintf("short status message: %v", err))
		}
		message := make([]byte, binary.BigEndian.Uint16(lenBuf[:]))
		if _, err := io.ReadFull(br, message); err != nil {
			return 0, "", nil, messageError("ReadCrackResponse",
				ErrBadResponse,
				fmt.Sprintf("short status message: %v", err))
		}
		return Status(status), string(message), nil, nil
	}

	var countBuf [4]byte
	if _, err := io.ReadFull(br, countBuf[:]); err != nil {
		return 0, "", nil, messageError("ReadCrackResponse", ErrBadResponse,
			fmt.Sprintf("short pair count: %v", err))
	}
	count := binary.BigEndian.Uint32(countBuf[:])

	pairs := make([]Pair, 0, count)
	for i := uint32(0); i < count; i++ {
		line, err := br.ReadBytes('\n')
		if err != nil {
			return 0, "", nil, messageError("ReadCrackResponse",
				ErrBadResponse,
				fmt.Sprintf("short pair record %d: %v", i, err))
		}
		line = line[:len(line)-1]
		tab := bytes.IndexByte(line, '\t')
		if tab < 0 {
			return 0, "", nil, messageError("ReadCrackResponse",
				ErrBadResponse,
				fmt.Sprintf("pair record %d has no separator", i))
		}
		hash, err := hex.DecodeString(string(line[:tab]))
		if err != nil {
			return 0, "", nil, messageError("ReadCrackResponse",
				ErrBadResponse,
				fmt.Sprintf("pair record %d has a bad hex hash: %v", i,
					err))
		}
		pairs = append(pairs, Pair{
			Hash:     hash,
			Password: bytes.Clone(line[tab+1:]),
		})
	}
	return StatusOK, "", pairs, nil
}
