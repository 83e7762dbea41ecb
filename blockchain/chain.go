// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/chaincfg"
	"github.com/emberchain/emberd/wire"
)

// BlockChain provides the in-memory block tree with longest-chain tip
// selection.  Blocks are indexed by hash and by height, where height is the
// distance to the genesis block.  The tip is the first-seen block of
// maximal height.
//
// All functions are safe for concurrent access.
type BlockChain struct {
	chainParams *chaincfg.Params

	mtx     sync.RWMutex
	blocks  map[chainhash.Hash]*wire.Block
	heights map[chainhash.Hash]int64
	tip     chainhash.Hash
}

// New returns a BlockChain initialized with the genesis block of the
// provided chain parameters at height 0.
func New(chainParams *chaincfg.Params) *BlockChain {
	genesisHash := chainParams.GenesisHash
	b := &BlockChain{
		chainParams: chainParams,
		blocks:      make(map[chainhash.Hash]*wire.Block),
		heights:     make(map[chainhash.Hash]int64),
		tip:         genesisHash,
	}
	b.blocks[genesisHash] = chainParams.GenesisBlock
	b.heights[genesisHash] = 0
	return b
}

// Insert adds the provided block to the block tree.  Inserting a block that
// is already present is a no-op, as is inserting a block whose parent is
// unknown; connectivity is the caller's responsibility.  The tip advances
// only when the new block strictly exceeds the current best height, so the
// first-seen block wins height ties.
func (b *BlockChain) Insert(block *wire.Block) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	blockHash := block.BlockHash()
	if _, ok := b.blocks[blockHash]; ok {
		return
	}

	// Unknown parent means the caller violated the connectivity
	// contract; treat it as a no-op rather than corrupting the height
	// index.
	parentHeight, ok := b.heights[block.Header.Parent]
	if !ok {
		return
	}
	newHeight := parentHeight + 1

	b.blocks[blockHash] = block
	b.heights[blockHash] = newHeight
	if newHeight > b.heights[b.tip] {
		b.tip = blockHash
	}
}

// Tip returns the hash of the last block of the longest chain.
func (b *BlockChain) Tip() chainhash.Hash {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return b.tip
}

// TipHeight returns the height of the longest chain.
func (b *BlockChain) TipHeight() int64 {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return b.heights[b.tip]
}

// Exists returns whether or not a block with the given hash is in the block
// tree.
func (b *BlockChain) Exists(hash *chainhash.Hash) bool {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	_, ok := b.blocks[*hash]
	return ok
}

// Block returns the block with the given hash.
func (b *BlockChain) Block(hash *chainhash.Hash) (*wire.Block, bool) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	block, ok := b.blocks[*hash]
	return block, ok
}

// Height returns the height of the block with the given hash.
func (b *BlockChain) Height(hash *chainhash.Hash) (int64, bool) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	height, ok := b.heights[*hash]
	return height, ok
}

// LongestChain returns the hashes of all blocks of the longest chain,
// ordered from the genesis block to the tip.
func (b *BlockChain) LongestChain() []chainhash.Hash {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	hashes := make([]chainhash.Hash, 0, b.heights[b.tip]+1)
	current := b.tip
	for {
		hashes = append(hashes, current)
		if current == b.chainParams.GenesisHash {
			break
		}
		current = b.blocks[current].Header.Parent
	}

	// Reverse to genesis-first order.
	for i, j := 0, len(hashes)-1; i < j; i, j = i+1, j-1 {
		hashes[i], hashes[j] = hashes[j], hashes[i]
	}
	return hashes
}

// LongestChainTxns returns the per-block transaction hashes of the longest
// chain, ordered from the genesis block to the tip.
func (b *BlockChain) LongestChainTxns() [][]chainhash.Hash {
	chain := b.LongestChain()

	b.mtx.RLock()
	defer b.mtx.RUnlock()

	txns := make([][]chainhash.Hash, 0, len(chain))
	for i := range chain {
		block := b.blocks[chain[i]]
		blockTxns := make([]chainhash.Hash, 0, len(block.Transactions))
		for j := range block.Transactions {
			blockTxns = append(blockTxns, block.Transactions[j].TxHash())
		}
		txns = append(txns, blockTxns)
	}
	return txns
}
