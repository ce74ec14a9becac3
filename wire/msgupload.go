// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// MsgUpload is the request frame that uploads a named rainbow table file to
// the server.  The payload is the raw bytes of a rainbow table file; the
// server validates it before the table becomes visible to crack requests.
type MsgUpload struct {
	Name    string
	Payload []byte
}

// Magic returns the request magic string.  This is part of the Message
// interface implementation.
func (msg *MsgUpload) Magic() string {
	return UploadMagic
}

// Encode encodes the receiver to w using the wire format.  This is part of
// the Message interface implementation.
func (msg *MsgUpload) Encode(w io.Writer) error {
	if len(msg.Name) > 255 {
		return messageError("MsgUpload.Encode", ErrOversizedPayload,
			fmt.Sprintf("table name of %d bytes exceeds the 255 byte "+
				"maximum", len(msg.Name)))
	}
	header := make([]byte, 0, len(UploadMagic)+2+len(msg.Name))
	header = append(header, UploadMagic...)
	header = append(header, ProtocolVersion, uint8(len(msg.Name)))
	header = append(header, msg.Name...)
	if _, err := w.Write(header); err != nil {
		return err
	}
	return writePayload(w, "MsgUpload.Encode", msg.Payload)
}

// Decode decodes everything after the magic from r into the receiver.  This
// is part of the Message interface implementation.
func (msg *MsgUpload) Decode(r io.Reader) error {
	if err := readVersion(r, "MsgUpload.Decode"); err != nil {
		return err
	}

	var nameLen [1]byte
	if _, err := io.ReadFull(r, nameLen[:]); err != nil {
		return messageError("MsgUpload.Decode", ErrTruncated,
			fmt.Sprintf("short name length: %v", err))
	}
	name := make([]byte, nameLen[0])
	if _, err := io.ReadFull(r, name); err != nil {
		return messageError("MsgUpload.Decode", ErrTruncated,
			fmt.Sprintf("short table name: %v", err))
	}
	if !utf8.Valid(name) {
		return messageError("MsgUpload.Decode", ErrBadName,
			"table name is not valid UTF-8")
	}
	msg.Name = string(name)

	payload, err := readPayload(r, "MsgUpload.Decode")
	if err != nil {
		return err
	}
	msg.Payload = payload
	return nil
}
