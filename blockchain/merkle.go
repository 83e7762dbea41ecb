// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"crypto/sha256"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/wire"
)

// MerkleTree is a binary merkle commitment over a sequence of leaf hashes.
//
// The tree is stored as a flat array of hashes, level by level from the
// leaves up to the root.  A level with an odd number of nodes duplicates
// its last node before pairing, Bitcoin style, so every internal node is
// the SHA-256 digest of the concatenation left||right of its two children.
type MerkleTree struct {
	nodes     []chainhash.Hash
	leafCount int
}

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.
func hashMerkleBranches(left, right *chainhash.Hash) chainhash.Hash {
	// Concatenate the left and right nodes.
	var branch [chainhash.HashSize * 2]byte
	copy(branch[:chainhash.HashSize], left[:])
	copy(branch[chainhash.HashSize:], right[:])

	return chainhash.Hash(sha256.Sum256(branch[:]))
}

// NewMerkleTree builds a merkle tree from the provided leaf hashes.  Each
// leaf is the hash of the datum it commits to; hashing the data is the
// caller's concern.  The tree over an empty sequence consists of the single
// zero hash.
func NewMerkleTree(leaves []chainhash.Hash) *MerkleTree {
	if len(leaves) == 0 {
		return &MerkleTree{nodes: []chainhash.Hash{{}}, leafCount: 0}
	}

	nodes := make([]chainhash.Hash, 0, 2*len(leaves))
	nodes = append(nodes, leaves...)

	// Build each level from the one below it, duplicating the final node
	// of odd-sized levels.
	base, n := 0, len(leaves)
	for n > 1 {
		if n%2 == 1 {
			nodes = append(nodes, nodes[base+n-1])
			n++
		}
		for i := 0; i < n; i += 2 {
			parent := hashMerkleBranches(&nodes[base+i], &nodes[base+i+1])
			nodes = append(nodes, parent)
		}
		base += n
		n /= 2
	}

	return &MerkleTree{nodes: nodes, leafCount: len(leaves)}
}

// Root returns the merkle root of the tree.
func (t *MerkleTree) Root() chainhash.Hash {
	return t.nodes[len(t.nodes)-1]
}

// Proof returns the merkle proof for the leaf at the given index: the
// ordered sequence of sibling hashes from the leaf level upward.  The
// result is nil when the index is out of range.
func (t *MerkleTree) Proof(index int) []chainhash.Hash {
	if index >= t.leafCount {
		return nil
	}

	var proof []chainhash.Hash
	base, n, idx := 0, t.leafCount, index
	for n > 1 {
		// Account for the duplicated final node of odd-sized levels.
		if n%2 == 1 {
			n++
		}
		sibling := idx + 1
		if idx%2 == 1 {
			sibling = idx - 1
		}
		proof = append(proof, t.nodes[base+sibling])

		base += n
		idx /= 2
		n /= 2
	}
	return proof
}

// VerifyProof reconstructs the merkle root from a leaf hash and its proof
// and reports whether it matches the expected root.  The index selects
// which side of each concatenation the running hash takes: the left side
// when the index is even, the right side when odd, halving at each level.
// leafSize is the total number of leaves in the tree the proof was
// generated from.
func VerifyProof(root *chainhash.Hash, leaf *chainhash.Hash,
	proof []chainhash.Hash, index, leafSize int) bool {

	if index >= leafSize {
		return false
	}

	hash := *leaf
	idx := index
	for i := range proof {
		if idx%2 == 0 {
			hash = hashMerkleBranches(&hash, &proof[i])
		} else {
			hash = hashMerkleBranches(&proof[i], &hash)
		}
		idx /= 2
	}
	return hash == *root
}

// CalcTxMerkleRoot returns the merkle root over the transactions of a block
// content, each committed by its transaction hash.
func CalcTxMerkleRoot(txns []wire.SignedTransaction) chainhash.Hash {
	leaves := make([]chainhash.Hash, len(txns))
	for i := range txns {
		leaves[i] = txns[i].TxHash()
	}
	return NewMerkleTree(leaves).Root()
}
