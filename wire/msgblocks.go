// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxBlocksPerMsg is the maximum number of blocks a single blocks message
// may deliver.
const MaxBlocksPerMsg = 500

// MsgBlocks implements the Message interface and represents an ember
// blocks message.  It delivers full blocks in response to a getblocks
// request.
type MsgBlocks struct {
	Blocks []Block
}

// AddBlock adds a block to the message.
func (msg *MsgBlocks) AddBlock(block *Block) error {
	if len(msg.Blocks)+1 > MaxBlocksPerMsg {
		return messageError("MsgBlocks.AddBlock",
			"too many blocks in message")
	}
	msg.Blocks = append(msg.Blocks, *block)
	return nil
}

// EmberDecode decodes r using the ember protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgBlocks) EmberDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	if count > MaxBlocksPerMsg {
		return messageError("MsgBlocks.EmberDecode", fmt.Sprintf(
			"too many blocks in message [count %d, max %d]", count,
			MaxBlocksPerMsg))
	}

	msg.Blocks = make([]Block, count)
	for i := uint64(0); i < count; i++ {
		err := msg.Blocks[i].Deserialize(r)
		if err != nil {
			return err
		}
	}
	return nil
}

// EmberEncode encodes the receiver to w using the ember protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgBlocks) EmberEncode(w io.Writer, pver uint32) error {
	if len(msg.Blocks) > MaxBlocksPerMsg {
		return messageError("MsgBlocks.EmberEncode", fmt.Sprintf(
			"too many blocks in message [count %d, max %d]",
			len(msg.Blocks), MaxBlocksPerMsg))
	}

	err := WriteVarInt(w, pver, uint64(len(msg.Blocks)))
	if err != nil {
		return err
	}
	for i := range msg.Blocks {
		err := msg.Blocks[i].Serialize(w)
		if err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message.  This is
// part of the Message interface implementation.
func (msg *MsgBlocks) Command() string {
	return CmdBlocks
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgBlocks) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// NewMsgBlocks returns a new ember blocks message that conforms to the
// Message interface.
func NewMsgBlocks(blocks []Block) *MsgBlocks {
	return &MsgBlocks{Blocks: blocks}
}
