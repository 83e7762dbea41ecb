// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxTxPerMsg is the maximum number of transactions a single txns message
// may deliver.
const MaxTxPerMsg = 2000

// MsgTransactions implements the Message interface and represents an ember
// txns message.  It delivers full signed transactions in response to a
// gettxns request.
type MsgTransactions struct {
	Transactions []SignedTransaction
}

// AddTransaction adds a signed transaction to the message.
func (msg *MsgTransactions) AddTransaction(tx *SignedTransaction) error {
	if len(msg.Transactions)+1 > MaxTxPerMsg {
		return messageError("MsgTransactions.AddTransaction",
			"too many transactions in message")
	}
	msg.Transactions = append(msg.Transactions, *tx)
	return nil
}

// EmberDecode decodes r using the ember protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgTransactions) EmberDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	if count > MaxTxPerMsg {
		return messageError("MsgTransactions.EmberDecode", fmt.Sprintf(
			"too many transactions in message [count %d, max %d]",
			count, MaxTxPerMsg))
	}

	msg.Transactions = make([]SignedTransaction, count)
	for i := uint64(0); i < count; i++ {
		err := msg.Transactions[i].Deserialize(r)
		if err != nil {
			return err
		}
	}
	return nil
}

// EmberEncode encodes the receiver to w using the ember protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgTransactions) EmberEncode(w io.Writer, pver uint32) error {
	if len(msg.Transactions) > MaxTxPerMsg {
		return messageError("MsgTransactions.EmberEncode", fmt.Sprintf(
			"too many transactions in message [count %d, max %d]",
			len(msg.Transactions), MaxTxPerMsg))
	}

	err := WriteVarInt(w, pver, uint64(len(msg.Transactions)))
	if err != nil {
		return err
	}
	for i := range msg.Transactions {
		err := msg.Transactions[i].Serialize(w)
		if err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message.  This is
// part of the Message interface implementation.
func (msg *MsgTransactions) Command() string {
	return CmdTransactions
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgTransactions) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// NewMsgTransactions returns a new ember txns message that conforms to the
// Message interface.
func NewMsgTransactions(txns []SignedTransaction) *MsgTransactions {
	return &MsgTransactions{Transactions: txns}
}
