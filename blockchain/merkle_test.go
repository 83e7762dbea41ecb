// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// hashFromHex converts the passed big-endian hex string into a
// chainhash.Hash, keeping the byte order as written.  It panics on invalid
// input, so it must only be called with hard-coded test data.
func hashFromHex(s string) chainhash.Hash {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != chainhash.HashSize {
		panic("invalid hash hex in test source: " + s)
	}
	var hash chainhash.Hash
	copy(hash[:], b)
	return hash
}

// merkleTestLeaves returns the two-datum input sequence the known-answer
// merkle tests are built on, hashed to the leaf level.
func merkleTestLeaves() []chainhash.Hash {
	data := [][]byte{
		{
			0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x0e, 0x0d,
			0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x0e, 0x0d,
			0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x0e, 0x0d,
			0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x0e, 0x0d,
		},
		{
			0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
			0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
			0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
			0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x02, 0x02,
		},
	}

	leaves := make([]chainhash.Hash, len(data))
	for i, datum := range data {
		leaves[i] = chainhash.Hash(sha256.Sum256(datum))
	}
	return leaves
}

// TestMerkleRoot ensures the merkle root over the known two-leaf input
// matches the expected value.
func TestMerkleRoot(t *testing.T) {
	tree := NewMerkleTree(merkleTestLeaves())

	want := hashFromHex("6b787718210e0b3b608814e04e61fde0" +
		"6d0df794319a12162f287412df3ec920")
	if root := tree.Root(); root != want {
		t.Fatalf("unexpected merkle root - got %x, want %x", root, want)
	}
}

// TestMerkleProof ensures the proof for the first leaf of the known
// two-leaf input consists of exactly the second leaf hash.
func TestMerkleProof(t *testing.T) {
	tree := NewMerkleTree(merkleTestLeaves())

	proof := tree.Proof(0)
	want := hashFromHex("965b093a75a75895a351786dd7a18851" +
		"5173f6928a8af8c9baa4dcff268a4f0f")
	if len(proof) != 1 || proof[0] != want {
		t.Fatalf("unexpected merkle proof - got %v, want [%x]", proof, want)
	}

	if proof := tree.Proof(2); proof != nil {
		t.Fatalf("proof for out of range index - got %v, want nil", proof)
	}
}

// TestMerkleVerify ensures proof verification accepts the known answer and
// rejects mutations of it.
func TestMerkleVerify(t *testing.T) {
	leaves := merkleTestLeaves()
	tree := NewMerkleTree(leaves)
	root := tree.Root()
	proof := tree.Proof(0)

	if !VerifyProof(&root, &leaves[0], proof, 0, len(leaves)) {
		t.Fatal("valid proof did not verify")
	}

	// Wrong leaf.
	if VerifyProof(&root, &leaves[1], proof, 0, len(leaves)) {
		t.Error("proof verified against the wrong leaf")
	}

	// Wrong index.
	if VerifyProof(&root, &leaves[0], proof, 1, len(leaves)) {
		t.Error("proof verified at the wrong index")
	}

	// Index out of range.
	if VerifyProof(&root, &leaves[0], proof, 2, len(leaves)) {
		t.Error("proof verified with an out of range index")
	}
}

// TestMerkleRoundTrip ensures every leaf of trees of assorted sizes,
// including odd sizes that exercise the duplicated final node, proves
// against the root.
func TestMerkleRoundTrip(t *testing.T) {
	for _, leafCount := range []int{1, 2, 3, 4, 5, 7, 8, 13} {
		leaves := make([]chainhash.Hash, leafCount)
		for i := range leaves {
			leaves[i] = chainhash.Hash(sha256.Sum256([]byte{byte(i)}))
		}

		tree := NewMerkleTree(leaves)
		root := tree.Root()
		for i := range leaves {
			proof := tree.Proof(i)
			if !VerifyProof(&root, &leaves[i], proof, i, leafCount) {
				t.Errorf("leaf %d of %d did not verify", i, leafCount)
			}
		}
	}
}

// TestMerkleEmpty ensures the tree over an empty sequence has the zero
// hash as its root.
func TestMerkleEmpty(t *testing.T) {
	tree := NewMerkleTree(nil)
	if root := tree.Root(); root != (chainhash.Hash{}) {
		t.Fatalf("unexpected empty tree root - got %x, want zero hash", root)
	}
}
