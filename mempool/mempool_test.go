// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"bytes"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/wire"
	"golang.org/x/crypto/ed25519"
)

// makeTx returns a signed transaction whose hash is unique per nonce.
func makeTx(nonce uint32) *wire.SignedTransaction {
	key := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x01}, ed25519.SeedSize))
	tx := wire.Transaction{
		Receiver: [20]byte{0x02},
		Value:    1,
		Nonce:    nonce,
	}
	return wire.SignTransaction(&tx, key)
}

// TestPoolOperations exercises insert, lookup, removal, and the pool size
// accounting across them.
func TestPoolOperations(t *testing.T) {
	pool := New()

	tx := makeTx(1)
	txHash := tx.TxHash()
	if pool.Exists(&txHash) {
		t.Fatal("empty pool claims to contain a transaction")
	}

	pool.Insert(tx)
	if !pool.Exists(&txHash) {
		t.Fatal("inserted transaction not found")
	}
	if count := pool.Count(); count != 1 {
		t.Fatalf("unexpected pool size - got %d, want 1", count)
	}

	// A duplicate insert must not grow the pool.
	pool.Insert(tx)
	if count := pool.Count(); count != 1 {
		t.Fatalf("duplicate insert grew the pool to %d", count)
	}

	got, ok := pool.Fetch(&txHash)
	if !ok {
		t.Fatal("Fetch did not find the inserted transaction")
	}
	if got.TxHash() != txHash {
		t.Fatalf("Fetch returned the wrong transaction - got %v", got)
	}

	pool.Remove(tx)
	if pool.Exists(&txHash) {
		t.Fatal("removed transaction still present")
	}
	if count := pool.Count(); count != 0 {
		t.Fatalf("unexpected pool size after removal - got %d, want 0",
			count)
	}

	// Removing a transaction that is not in the pool is a no-op.
	pool.Remove(tx)
}

// TestPoolAll ensures All returns every pooled transaction exactly once.
func TestPoolAll(t *testing.T) {
	pool := New()
	const numTxns = 5
	for i := uint32(1); i <= numTxns; i++ {
		pool.Insert(makeTx(i))
	}

	all := pool.All()
	if len(all) != numTxns {
		t.Fatalf("unexpected transaction count - got %d, want %d",
			len(all), numTxns)
	}
	seen := make(map[chainhash.Hash]struct{})
	for _, tx := range all {
		seen[tx.TxHash()] = struct{}{}
	}
	if len(seen) != numTxns {
		t.Fatalf("All returned duplicate transactions - %d unique",
			len(seen))
	}
}
