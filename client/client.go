// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package client implements the client side of the hashassin wire protocol:
// uploading rainbow tables to a server and submitting crack requests.
package client

import (
	"fmt"
	"net"

	"github.com/btcsuite/btclog"

	"github.com/hashassin/hashassin/wire"
)

// log is a logger that is initialized with no output filters.  This means
// the package will not perform any logging by default until the caller
// requests it.
var log btclog.Logger

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// Disable logging by default until the package user requests it.
func init() {
	log = btclog.Disabled
}

// ServerError is a nonzero status response from the server together with
// its diagnostic message.
type ServerError struct {
	Status  wire.Status
	Message string
}

// Error satisfies the error interface and prints human-readable errors.
func (e ServerError) Error() string {
	return fmt.Sprintf("server rejected request (%v): %s", e.Status,
		e.Message)
}

// Upload sends the raw bytes of a rainbow table file to the server at addr
// under the given name.  The server's confirmation message is returned on
// success.
func Upload(addr, name string, tableBytes []byte) (string, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	msg := &wire.MsgUpload{Name: name, Payload: tableBytes}
	if err := msg.Encode(conn); err != nil {
		return "", err
	}
	log.Debugf("Uploaded table %q (%d bytes) to %s", name,
		len(tableBytes), addr)

	status, reply, err := wire.ReadStatusResponse(conn)
	if err != nil {
		return "", err
	}
	if status != wire.StatusOK {
		return "", ServerError{Status: status, Message: reply}
	}
	return reply, nil
}

// Crack sends the raw bytes of a hashes file to the server at addr and
// returns the recovered pairs in the order their hashes appeared in the
// file.  Hashes the server could not recover are absent.
func Crack(addr string, hashesBytes []byte) ([]wire.Pair, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	msg := &wire.MsgCrack{Payload: hashesBytes}
	if err := msg.Encode(conn); err != nil {
		return nil, err
	}
	log.Debugf("Sent crack request (%d bytes) to %s", len(hashesBytes), addr)

	status, reply, pairs, err := wire.ReadCrackResponse(conn)
	if err != nil {
		return nil, err
	}
	if status != wire.StatusOK {
		return nil, ServerError{Status: status, Message: reply}
	}
	return pairs, nil
}
