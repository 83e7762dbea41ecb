// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

const (
	// MaxBlockPayload is the maximum number of bytes a serialized block
	// message can be.
	MaxBlockPayload = 1000000

	// maxTxPerBlock is the maximum number of transactions that could
	// possibly fit into a block given the minimum transaction size.
	maxTxPerBlock = (MaxBlockPayload / minTxPayload) + 1
)

// Block describes a complete block: the header the proof of work covers
// and the ordered list of transactions the merkle root commits to.
type Block struct {
	Header       BlockHeader
	Transactions []SignedTransaction
}

// BlockHash computes the block identifier hash.  Only the header
// contributes; the transactions are committed indirectly via the merkle
// root.
func (b *Block) BlockHash() chainhash.Hash {
	return b.Header.BlockHash()
}

// Serialize writes the block to w: the header followed by a varint count
// of transactions and each transaction in order.
func (b *Block) Serialize(w io.Writer) error {
	err := b.Header.Serialize(w)
	if err != nil {
		return err
	}
	err = WriteVarInt(w, 0, uint64(len(b.Transactions)))
	if err != nil {
		return err
	}
	for i := range b.Transactions {
		err := b.Transactions[i].Serialize(w)
		if err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads a block from r into the receiver.
func (b *Block) Deserialize(r io.Reader) error {
	err := b.Header.Deserialize(r)
	if err != nil {
		return err
	}

	count, err := ReadVarInt(r, 0)
	if err != nil {
		return err
	}
	if count > maxTxPerBlock {
		return messageError("Block.Deserialize", fmt.Sprintf(
			"too many transactions to fit into a block [count %d, "+
				"max %d]", count, maxTxPerBlock))
	}

	b.Transactions = make([]SignedTransaction, count)
	for i := uint64(0); i < count; i++ {
		err := b.Transactions[i].Deserialize(r)
		if err != nil {
			return err
		}
	}
	return nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (b *Block) SerializeSize() int {
	n := blockHeaderLen + VarIntSerializeSize(uint64(len(b.Transactions)))
	for i := range b.Transactions {
		n += b.Transactions[i].SerializeSize()
	}
	return n
}
