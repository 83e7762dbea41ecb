// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// maxPongNonceLen is the maximum length of the string form of a pong nonce.
// A uint64 in decimal is at most 20 characters.
const maxPongNonceLen = 20

// MsgPong implements the Message interface and represents an ember pong
// message.  The nonce from the triggering ping is echoed back as a string.
type MsgPong struct {
	Nonce string
}

// EmberDecode decodes r using the ember protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgPong) EmberDecode(r io.Reader, pver uint32) error {
	nonce, err := ReadVarString(r, pver)
	if err != nil {
		return err
	}
	msg.Nonce = nonce
	return nil
}

// EmberEncode encodes the receiver to w using the ember protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgPong) EmberEncode(w io.Writer, pver uint32) error {
	return WriteVarString(w, pver, msg.Nonce)
}

// Command returns the protocol command string for the message.  This is
// part of the Message interface implementation.
func (msg *MsgPong) Command() string {
	return CmdPong
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgPong) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(maxPongNonceLen)) + maxPongNonceLen
}

// NewMsgPong returns a new ember pong message that conforms to the Message
// interface.
func NewMsgPong(nonce string) *MsgPong {
	return &MsgPong{Nonce: nonce}
}
