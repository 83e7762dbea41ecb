// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/wire"
)

// TestChainGenesis ensures a fresh chain contains exactly the genesis
// block at height 0 with the genesis hash as its tip.
func TestChainGenesis(t *testing.T) {
	chain := New(testParams)

	if tip := chain.Tip(); tip != testParams.GenesisHash {
		t.Fatalf("unexpected tip - got %v, want %v", tip,
			testParams.GenesisHash)
	}
	if height := chain.TipHeight(); height != 0 {
		t.Fatalf("unexpected tip height - got %d, want 0", height)
	}
	if !chain.Exists(&testParams.GenesisHash) {
		t.Fatal("genesis block not present")
	}
	if height, ok := chain.Height(&testParams.GenesisHash); !ok || height != 0 {
		t.Fatalf("unexpected genesis height - got %d, %v", height, ok)
	}
}

// TestChainInsert ensures inserting a block on the tip advances the tip
// and records the correct height.
func TestChainInsert(t *testing.T) {
	chain := New(testParams)
	genesisHash := chain.Tip()

	block := makeTestBlock(&genesisHash, nil)
	chain.Insert(block)

	blockHash := block.BlockHash()
	if tip := chain.Tip(); tip != blockHash {
		t.Fatalf("unexpected tip - got %v, want %v", tip, blockHash)
	}
	if height, _ := chain.Height(&blockHash); height != 1 {
		t.Fatalf("unexpected height - got %d, want 1", height)
	}
}

// TestChainInsertUnknownParent ensures inserting a block whose parent is
// not present is a no-op.
func TestChainInsertUnknownParent(t *testing.T) {
	chain := New(testParams)

	orphanParent := chainhash.Hash{0x01}
	block := makeTestBlock(&orphanParent, nil)
	chain.Insert(block)

	blockHash := block.BlockHash()
	if chain.Exists(&blockHash) {
		t.Fatal("block with unknown parent was inserted")
	}
	if tip := chain.Tip(); tip != testParams.GenesisHash {
		t.Fatalf("tip moved on rejected insert - got %v", tip)
	}
}

// TestChainInsertIdempotent ensures inserting the same block twice leaves
// the chain unchanged.
func TestChainInsertIdempotent(t *testing.T) {
	chain := New(testParams)
	genesisHash := chain.Tip()

	block := makeTestBlock(&genesisHash, nil)
	chain.Insert(block)
	chain.Insert(block)

	if got := len(chain.LongestChain()); got != 2 {
		t.Fatalf("unexpected chain length - got %d, want 2", got)
	}
}

// TestChainTipTieBreak ensures the first-seen block wins a height tie and
// that a longer side chain takes over the tip.
func TestChainTipTieBreak(t *testing.T) {
	chain := New(testParams)
	genesisHash := chain.Tip()

	first := makeTestBlock(&genesisHash, nil)
	second := makeTestBlock(&genesisHash, nil)
	chain.Insert(first)
	chain.Insert(second)

	// Both forks have height 1; the first insert holds the tip.
	firstHash := first.BlockHash()
	if tip := chain.Tip(); tip != firstHash {
		t.Fatalf("tie not won by first-seen block - got %v, want %v",
			tip, firstHash)
	}

	// Extending the second fork makes it strictly longer.
	secondHash := second.BlockHash()
	child := makeTestBlock(&secondHash, nil)
	chain.Insert(child)

	childHash := child.BlockHash()
	if tip := chain.Tip(); tip != childHash {
		t.Fatalf("longer fork did not take the tip - got %v, want %v",
			tip, childHash)
	}
}

// TestLongestChain ensures the longest chain is reported in genesis-first
// order and ignores stale forks.
func TestLongestChain(t *testing.T) {
	chain := New(testParams)
	genesisHash := chain.Tip()

	// Build genesis -> b1 -> b2 with a stale fork genesis -> f1.
	b1 := makeTestBlock(&genesisHash, nil)
	chain.Insert(b1)
	b1Hash := b1.BlockHash()

	f1 := makeTestBlock(&genesisHash, nil)
	chain.Insert(f1)

	b2 := makeTestBlock(&b1Hash, nil)
	chain.Insert(b2)
	b2Hash := b2.BlockHash()

	want := []chainhash.Hash{genesisHash, b1Hash, b2Hash}
	got := chain.LongestChain()
	if len(got) != len(want) {
		t.Fatalf("unexpected chain length - got %d, want %d", len(got),
			len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chain entry %d mismatch - got %v, want %v", i,
				got[i], want[i])
		}
	}
}

// TestLongestChainTxns ensures per-block transaction hashes are reported
// in chain order.
func TestLongestChainTxns(t *testing.T) {
	chain := New(testParams)
	genesisHash := chain.Tip()

	tx := makeTestTx(0x00, testKeyAddress(0x01), 42, 1)
	block := makeTestBlock(&genesisHash, []wire.SignedTransaction{tx})
	chain.Insert(block)

	txns := chain.LongestChainTxns()
	if len(txns) != 2 {
		t.Fatalf("unexpected block count - got %d, want 2", len(txns))
	}
	if len(txns[0]) != 0 {
		t.Errorf("genesis block has %d transactions, want 0", len(txns[0]))
	}
	if len(txns[1]) != 1 || txns[1][0] != tx.TxHash() {
		t.Errorf("unexpected transactions for block 1 - got %v", txns[1])
	}
}
