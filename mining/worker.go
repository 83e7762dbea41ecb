// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/blockchain"
	"github.com/emberchain/emberd/wire"
)

// Worker consumes the miner's finished block channel and commits each
// block: insert into the chain, record the state snapshot, drop the mined
// transactions from the mempool, and announce the block to all peers.
//
// The worker is the authoritative inserter for mined blocks.  Its insert
// is idempotent, so a block that raced in through the gossip layer first
// is harmless.
type Worker struct {
	cfg            Config
	finishedBlocks <-chan *wire.Block
	quit           chan struct{}
}

// NewWorker returns a worker consuming the finished block channel of the
// provided miner.
func NewWorker(cfg *Config, miner *Miner) *Worker {
	return &Worker{
		cfg:            *cfg,
		finishedBlocks: miner.FinishedBlocks(),
		quit:           make(chan struct{}),
	}
}

// Run commits finished blocks until Stop is called.  It must be called in
// its own goroutine.
func (w *Worker) Run() {
	for {
		select {
		case block := <-w.finishedBlocks:
			w.commitBlock(block)

		case <-w.quit:
			return
		}
	}
}

// Stop terminates the worker.
func (w *Worker) Stop() {
	close(w.quit)
}

// commitBlock makes a mined block part of the node's view of the chain and
// announces it.  The stores are updated in the fixed order chain, state,
// mempool, and the announcement goes out only after all of them are done,
// with no lock held.
func (w *Worker) commitBlock(block *wire.Block) {
	blockHash := block.BlockHash()
	if w.cfg.Chain.Exists(&blockHash) {
		// Already arrived through the gossip layer.
		return
	}

	// The mempool snapshot the block was assembled from may predate
	// other blocks committed since, so the transactions are re-validated
	// against the parent state before the block becomes visible.
	parentState, ok := w.cfg.States.State(&block.Header.Parent)
	if !ok {
		log.Warnf("No state snapshot for parent %v of mined block %v; "+
			"dropping block", block.Header.Parent, blockHash)
		return
	}
	err := blockchain.CheckBlockTransactions(block, parentState)
	if err != nil {
		log.Debugf("Mined block %v went stale: %v", blockHash, err)
		return
	}

	w.cfg.Chain.Insert(block)
	if err := w.cfg.States.UpdateWithBlock(block); err != nil {
		log.Errorf("Failed to record state for mined block %v: %v",
			blockHash, err)
		return
	}
	for i := range block.Transactions {
		w.cfg.TxPool.Remove(&block.Transactions[i])
	}

	log.Debugf("Block %v successfully mined; broadcasting", blockHash)
	w.cfg.PeerNotifier.AnnounceNewBlocks([]chainhash.Hash{blockHash})
}
