// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgCrack is the request frame that asks the server to recover the
// plaintexts of a hashes file.  The payload is the raw bytes of a hashes
// file.
type MsgCrack struct {
	Payload []byte
}

// Magic returns the request magic string.  This is part of the Message
// interface implementation.
func (msg *MsgCrack) Magic() string {
	return CrackMagic
}

// Encode encodes the receiver to w using the wire format.  This is part of
// the Message interface implementation.
func (msg *MsgCrack) Encode(w io.Writer) error {
	header := make([]byte, 0, len(CrackMagic)+1)
	header = append(header, CrackMagic...)
	header = append(header, ProtocolVersion)
	if _, err := w.Write(header); err != nil {
		return err
	}
	return writePayload(w, "MsgCrack.Encode", msg.Payload)
}

// Decode decodes everything after the magic from r into the receiver.  This
// is part of the Message interface implementation.
func (msg *MsgCrack) Decode(r io.Reader) error {
	if err := readVersion(r, "MsgCrack.Decode"); err != nil {
		return err
	}
	payload, err := readPayload(r, "MsgCrack.Decode")
	if err != nil {
		return err
	}
	msg.Payload = payload
	return nil
}
