// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// MsgNewBlockHashes implements the Message interface and represents an
// ember newblkhashes message.  It advertises the hashes of blocks the
// sending peer has accepted so other peers can request the ones they are
// missing.
type MsgNewBlockHashes struct {
	Hashes []chainhash.Hash
}

// AddBlockHash adds a block hash to the message.
func (msg *MsgNewBlockHashes) AddBlockHash(hash *chainhash.Hash) error {
	if len(msg.Hashes)+1 > MaxHashesPerMsg {
		return messageError("MsgNewBlockHashes.AddBlockHash",
			"too many block hashes in message")
	}
	msg.Hashes = append(msg.Hashes, *hash)
	return nil
}

// EmberDecode decodes r using the ember protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgNewBlockHashes) EmberDecode(r io.Reader, pver uint32) error {
	hashes, err := readHashVector(r, pver, MaxHashesPerMsg,
		"MsgNewBlockHashes.EmberDecode")
	if err != nil {
		return err
	}
	msg.Hashes = hashes
	return nil
}

// EmberEncode encodes the receiver to w using the ember protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgNewBlockHashes) EmberEncode(w io.Writer, pver uint32) error {
	return writeHashVector(w, pver, MaxHashesPerMsg,
		"MsgNewBlockHashes.EmberEncode", msg.Hashes)
}

// Command returns the protocol command string for the message.  This is
// part of the Message interface implementation.
func (msg *MsgNewBlockHashes) Command() string {
	return CmdNewBlockHashes
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgNewBlockHashes) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxHashesPerMsg)) +
		MaxHashesPerMsg*chainhash.HashSize
}

// NewMsgNewBlockHashes returns a new ember newblkhashes message that
// conforms to the Message interface.
func NewMsgNewBlockHashes(hashes []chainhash.Hash) *MsgNewBlockHashes {
	return &MsgNewBlockHashes{Hashes: hashes}
}
