// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// MsgNewTxHashes implements the Message interface and represents an ember
// newtxhashes message.  It advertises the hashes of transactions the
// sending peer has accepted into its mempool.
type MsgNewTxHashes struct {
	Hashes []chainhash.Hash
}

// AddTxHash adds a transaction hash to the message.
func (msg *MsgNewTxHashes) AddTxHash(hash *chainhash.Hash) error {
	if len(msg.Hashes)+1 > MaxHashesPerMsg {
		return messageError("MsgNewTxHashes.AddTxHash",
			"too many transaction hashes in message")
	}
	msg.Hashes = append(msg.Hashes, *hash)
	return nil
}

// EmberDecode decodes r using the ember protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgNewTxHashes) EmberDecode(r io.Reader, pver uint32) error {
	hashes, err := readHashVector(r, pver, MaxHashesPerMsg,
		"MsgNewTxHashes.EmberDecode")
	if err != nil {
		return err
	}
	msg.Hashes = hashes
	return nil
}

// EmberEncode encodes the receiver to w using the ember protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgNewTxHashes) EmberEncode(w io.Writer, pver uint32) error {
	return writeHashVector(w, pver, MaxHashesPerMsg,
		"MsgNewTxHashes.EmberEncode", msg.Hashes)
}

// Command returns the protocol command string for the message.  This is
// part of the Message interface implementation.
func (msg *MsgNewTxHashes) Command() string {
	return CmdNewTxHashes
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgNewTxHashes) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxHashesPerMsg)) +
		MaxHashesPerMsg*chainhash.HashSize
}

// NewMsgNewTxHashes returns a new ember newtxhashes message that conforms
// to the Message interface.
func NewMsgNewTxHashes(hashes []chainhash.Hash) *MsgNewTxHashes {
	return &MsgNewTxHashes{Hashes: hashes}
}
