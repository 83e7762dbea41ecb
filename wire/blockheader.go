// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"crypto/sha256"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// blockHeaderLen is the number of bytes a serialized block header occupies:
// 32-byte parent, 4-byte nonce, 32-byte difficulty, 16-byte timestamp, and
// 32-byte merkle root.
const blockHeaderLen = 32 + 4 + 32 + 16 + 32

// BlockHeader defines information about a block.  The header alone commits
// to the full block: the parent links the chain, the merkle root commits to
// the transactions, and the nonce is the proof of work search variable.
type BlockHeader struct {
	// Parent is the hash of the previous block header in the chain.
	Parent chainhash.Hash

	// Nonce is the 32-bit proof of work search variable.
	Nonce uint32

	// Difficulty is the target the block hash must not exceed when both
	// are interpreted as 256-bit big endian integers.
	Difficulty chainhash.Hash

	// Timestamp is the block creation time in milliseconds since the
	// Unix epoch.  It is serialized as a 128-bit value on the wire.
	Timestamp uint64

	// MerkleRoot is the root of the merkle tree over the block
	// transactions.
	MerkleRoot chainhash.Hash
}

// Serialize writes the canonical serialization of the block header to w.
// The block hash is defined as the SHA-256 digest of these bytes.
func (h *BlockHeader) Serialize(w io.Writer) error {
	err := writeElement(w, &h.Parent)
	if err != nil {
		return err
	}
	err = writeElement(w, h.Nonce)
	if err != nil {
		return err
	}
	err = writeElement(w, &h.Difficulty)
	if err != nil {
		return err
	}
	err = writeTimestamp(w, h.Timestamp)
	if err != nil {
		return err
	}
	return writeElement(w, &h.MerkleRoot)
}

// Deserialize reads a block header from r into the receiver.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	err := readElement(r, &h.Parent)
	if err != nil {
		return err
	}
	err = readElement(r, &h.Nonce)
	if err != nil {
		return err
	}
	err = readElement(r, &h.Difficulty)
	if err != nil {
		return err
	}
	h.Timestamp, err = readTimestamp(r, "BlockHeader.Deserialize")
	if err != nil {
		return err
	}
	return readElement(r, &h.MerkleRoot)
}

// BlockHash computes the block identifier hash for the header: the SHA-256
// digest of the serialized header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, blockHeaderLen))
	_ = h.Serialize(buf) // writing to a bytes.Buffer cannot fail
	return chainhash.Hash(sha256.Sum256(buf.Bytes()))
}
