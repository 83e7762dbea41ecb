// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// MsgGetBlocks implements the Message interface and represents an ember
// getblocks message.  It requests the full blocks for the given hashes from
// a peer that advertised them.
type MsgGetBlocks struct {
	Hashes []chainhash.Hash
}

// EmberDecode decodes r using the ember protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgGetBlocks) EmberDecode(r io.Reader, pver uint32) error {
	hashes, err := readHashVector(r, pver, MaxHashesPerMsg,
		"MsgGetBlocks.EmberDecode")
	if err != nil {
		return err
	}
	msg.Hashes = hashes
	return nil
}

// EmberEncode encodes the receiver to w using the ember protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGetBlocks) EmberEncode(w io.Writer, pver uint32) error {
	return writeHashVector(w, pver, MaxHashesPerMsg,
		"MsgGetBlocks.EmberEncode", msg.Hashes)
}

// Command returns the protocol command string for the message.  This is
// part of the Message interface implementation.
func (msg *MsgGetBlocks) Command() string {
	return CmdGetBlocks
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgGetBlocks) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxHashesPerMsg)) +
		MaxHashesPerMsg*chainhash.HashSize
}

// NewMsgGetBlocks returns a new ember getblocks message that conforms to
// the Message interface.
func NewMsgGetBlocks(hashes []chainhash.Hash) *MsgGetBlocks {
	return &MsgGetBlocks{Hashes: hashes}
}
