// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool provides the pool of signed transactions awaiting
// inclusion in a block.  The pool is shared by the miner, which drains it
// into block candidates, and the gossip layer, which fills it from peers
// and serves transaction requests out of it.
package mempool

import (
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/wire"
)

// TxPool is an unordered set of signed transactions keyed by transaction
// hash.  Capacity is unbounded; eviction is a concern for a production
// pool, not this one.
//
// All functions are safe for concurrent access.
type TxPool struct {
	mtx  sync.RWMutex
	pool map[chainhash.Hash]*wire.SignedTransaction
}

// New returns an empty transaction pool.
func New() *TxPool {
	return &TxPool{
		pool: make(map[chainhash.Hash]*wire.SignedTransaction),
	}
}

// Insert adds the provided transaction to the pool.  Inserting a
// transaction that is already present replaces it under the same hash, so
// the pool size grows by at most one.
func (tp *TxPool) Insert(tx *wire.SignedTransaction) {
	tp.mtx.Lock()
	defer tp.mtx.Unlock()

	tp.pool[tx.TxHash()] = tx
}

// Remove removes the provided transaction from the pool if present.
func (tp *TxPool) Remove(tx *wire.SignedTransaction) {
	tp.mtx.Lock()
	defer tp.mtx.Unlock()

	delete(tp.pool, tx.TxHash())
}

// Exists returns whether or not the transaction with the given hash is in
// the pool.
func (tp *TxPool) Exists(hash *chainhash.Hash) bool {
	tp.mtx.RLock()
	defer tp.mtx.RUnlock()

	_, ok := tp.pool[*hash]
	return ok
}

// Fetch returns the transaction with the given hash.
func (tp *TxPool) Fetch(hash *chainhash.Hash) (*wire.SignedTransaction, bool) {
	tp.mtx.RLock()
	defer tp.mtx.RUnlock()

	tx, ok := tp.pool[*hash]
	return tx, ok
}

// All returns every transaction currently in the pool.  No ordering is
// guaranteed.
func (tp *TxPool) All() []*wire.SignedTransaction {
	tp.mtx.RLock()
	defer tp.mtx.RUnlock()

	txns := make([]*wire.SignedTransaction, 0, len(tp.pool))
	for _, tx := range tp.pool {
		txns = append(txns, tx)
	}
	return txns
}

// Count returns the number of transactions currently in the pool.
func (tp *TxPool) Count() int {
	tp.mtx.RLock()
	defer tp.mtx.RUnlock()

	return len(tp.pool)
}
