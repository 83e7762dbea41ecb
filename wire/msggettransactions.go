// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// MsgGetTransactions implements the Message interface and represents an
// ember gettxns message.  It requests the full signed transactions for the
// given hashes from a peer that advertised them.
type MsgGetTransactions struct {
	Hashes []chainhash.Hash
}

// EmberDecode decodes r using the ember protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgGetTransactions) EmberDecode(r io.Reader, pver uint32) error {
	hashes, err := readHashVector(r, pver, MaxHashesPerMsg,
		"MsgGetTransactions.EmberDecode")
	if err != nil {
		return err
	}
	msg.Hashes = hashes
	return nil
}

// EmberEncode encodes the receiver to w using the ember protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGetTransactions) EmberEncode(w io.Writer, pver uint32) error {
	return writeHashVector(w, pver, MaxHashesPerMsg,
		"MsgGetTransactions.EmberEncode", msg.Hashes)
}

// Command returns the protocol command string for the message.  This is
// part of the Message interface implementation.
func (msg *MsgGetTransactions) Command() string {
	return CmdGetTransactions
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgGetTransactions) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxHashesPerMsg)) +
		MaxHashesPerMsg*chainhash.HashSize
}

// NewMsgGetTransactions returns a new ember gettxns message that conforms
// to the Message interface.
func NewMsgGetTransactions(hashes []chainhash.Hash) *MsgGetTransactions {
	return &MsgGetTransactions{Hashes: hashes}
}
