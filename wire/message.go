// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Message is a request frame that knows how to encode itself to and decode
// itself from a wire stream.  Decode consumes everything after the magic,
// which ReadRequest has already taken off the stream to pick the concrete
// type.
type Message interface {
	Magic() string
	Encode(w io.Writer) error
	Decode(r io.Reader) error
}

// ReadRequest reads one request frame from r.  The magic is sniffed first —
// the two magics differ in length, so five bytes decide between crack and
// reading one more byte for upload — and the matching message type decodes
// the remainder.  Unknown magics fail before any payload byte is read.
func ReadRequest(r io.Reader) (Message, error) {
	prefix := make([]byte, len(CrackMagic))
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, messageError("ReadRequest", ErrTruncated,
			fmt.Sprintf("short request magic: %v", err))
	}

	var msg Message
	switch {
	case string(prefix) == CrackMagic:
		msg = &MsgCrack{}

	default:
		rest := make([]byte, len(UploadMagic)-len(CrackMagic))
		if _, err := io.ReadFull(r, rest); err != nil {
			return nil, messageError("ReadRequest", ErrUnknownMagic,
				fmt.Sprintf("unknown request magic %q", prefix))
		}
		full := string(prefix) + string(rest)
		if full != UploadMagic {
			return nil, messageError("ReadRequest", ErrUnknownMagic,
				fmt.Sprintf("unknown request magic %q", full))
		}
		msg = &MsgUpload{}
	}

	if err := msg.Decode(r); err != nil {
		return nil, err
	}
	return msg, nil
}

// readVersion reads and validates the protocol version byte.
func readVersion(r io.Reader, fn string) error {
	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return messageError(fn, ErrTruncated,
			fmt.Sprintf("short version byte: %v", err))
	}
	if version[0] != ProtocolVersion {
		return messageError(fn, ErrBadVersion,
			fmt.Sprintf("unsupported protocol version %d", version[0]))
	}
	return nil
}

// readPayload reads a big-endian u64 payload size and then that many bytes.
// Sizes beyond MaxPayloadSize are rejected before any payload byte is read.
func readPayload(r io.Reader, fn string) ([]byte, error) {
	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, messageError(fn, ErrTruncated,
			fmt.Sprintf("short payload size: %v", err))
	}
	size := binary.BigEndian.Uint64(sizeBuf[:])
	if size > MaxPayloadSize {
		return nil, messageError(fn, ErrOversizedPayload,
			fmt.Sprintf("payload of %d bytes exceeds the %d byte maximum",
				size, MaxPayloadSize))
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, messageError(fn, ErrTruncated,
			fmt.Sprintf("payload truncated: %v", err))
	}
	return payload, nil
}

// writePayload writes a big-endian u64 payload size followed by the payload
// bytes.
func writePayload(w io.Writer, fn string, payload []byte) error {
	if uint64(len(payload)) > MaxPayloadSize {
		return messageError(fn, ErrOversizedPayload,
			fmt.Sprintf("payload of %d bytes exceeds the %d byte maximum",
				len(payload), MaxPayloadSize))
	}
	var sizeBuf [8]byte
	binary.BigEndian.PutUint64(sizeBuf[:], uint64(len(payload)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
