// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package generator

import (
	"bytes"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/blockchain"
	"github.com/emberchain/emberd/chaincfg"
	"github.com/emberchain/emberd/emberutil"
	"github.com/emberchain/emberd/mempool"
	"github.com/emberchain/emberd/wire"
	"golang.org/x/crypto/ed25519"
)

// makeBlockOnGenesis wraps the provided transaction in a block building on
// the genesis block.  The chain insert path does not require proof of
// work, so no mining is needed.
func makeBlockOnGenesis(params *chaincfg.Params,
	tx *wire.SignedTransaction) *wire.Block {

	txns := []wire.SignedTransaction{*tx}
	return &wire.Block{
		Header: wire.BlockHeader{
			Parent:     params.GenesisHash,
			Difficulty: params.PowLimit,
			Timestamp:  1700000000000,
			MerkleRoot: blockchain.CalcTxMerkleRoot(txns),
		},
		Transactions: txns,
	}
}

// collectNotifier records announced transaction hashes.
type collectNotifier struct {
	announced []chainhash.Hash
}

func (n *collectNotifier) AnnounceNewTransactions(hashes []chainhash.Hash) {
	n.announced = append(n.announced, hashes...)
}

// TestGenerateValidTransactions ensures every generated transaction is
// valid against the tip state: correctly signed, funded, and carrying the
// next account nonce.
func TestGenerateValidTransactions(t *testing.T) {
	params := &chaincfg.MainNetParams
	notifier := &collectNotifier{}
	nodeKey := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x00},
		ed25519.SeedSize))
	cfg := &Config{
		ChainParams:  params,
		Chain:        blockchain.New(params),
		TxPool:       mempool.New(),
		States:       blockchain.NewStatePerBlock(params),
		PeerNotifier: notifier,
		NodeKey:      nodeKey,
	}
	g := New(cfg)

	const numTxns = 25
	for i := 0; i < numTxns; i++ {
		g.generateOne()
	}

	if count := cfg.TxPool.Count(); count == 0 {
		t.Fatal("generator produced no transactions")
	}
	if len(notifier.announced) != numTxns {
		t.Fatalf("unexpected announcement count - got %d, want %d",
			len(notifier.announced), numTxns)
	}

	// Without new blocks the tip state never changes, so every generated
	// transaction spends from the node account with nonce 1 and a value
	// the genesis balance covers.
	tipState, _ := cfg.States.State(&params.GenesisHash)
	nodeAddr := emberutil.NewAddressPubKey(
		nodeKey.Public().(ed25519.PublicKey))
	for _, tx := range cfg.TxPool.All() {
		if !tx.VerifySignature() {
			t.Fatalf("generated transaction %v has an invalid signature",
				tx.TxHash())
		}
		sender := emberutil.NewAddressPubKey(tx.PublicKey)
		if sender != nodeAddr {
			t.Fatalf("unexpected sender %v", sender)
		}
		if tx.Transaction.Nonce != tipState.Nonce(sender)+1 {
			t.Fatalf("unexpected nonce %d", tx.Transaction.Nonce)
		}
		value := tx.Transaction.Value
		if value < 1 || value >= tipState.Balance(sender) {
			t.Fatalf("value %d outside [1, %d)", value,
				tipState.Balance(sender))
		}
		if emberutil.Address(tx.Transaction.Receiver) == sender {
			t.Fatalf("transaction %v pays its own sender", tx.TxHash())
		}
	}
}

// TestGenerateFollowsTip ensures generation tracks the account nonce as
// the tip advances.
func TestGenerateFollowsTip(t *testing.T) {
	params := &chaincfg.MainNetParams
	notifier := &collectNotifier{}
	nodeKey := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x00},
		ed25519.SeedSize))
	cfg := &Config{
		ChainParams:  params,
		Chain:        blockchain.New(params),
		TxPool:       mempool.New(),
		States:       blockchain.NewStatePerBlock(params),
		PeerNotifier: notifier,
		NodeKey:      nodeKey,
	}
	g := New(cfg)

	// Commit a block spending nonce 1 from the node account.
	g.generateOne()
	all := cfg.TxPool.All()
	if len(all) != 1 {
		t.Fatalf("unexpected mempool size - got %d, want 1", len(all))
	}
	b := makeBlockOnGenesis(params, all[0])
	cfg.Chain.Insert(b)
	if err := cfg.States.UpdateWithBlock(b); err != nil {
		t.Fatalf("UpdateWithBlock: %v", err)
	}
	cfg.TxPool.Remove(all[0])

	// The next transaction from the node account must carry nonce 2.
	for i := 0; i < 20; i++ {
		g.generateOne()
	}
	nodeAddr := emberutil.NewAddressPubKey(
		nodeKey.Public().(ed25519.PublicKey))
	for _, tx := range cfg.TxPool.All() {
		if emberutil.NewAddressPubKey(tx.PublicKey) != nodeAddr {
			continue
		}
		if tx.Transaction.Nonce != 2 {
			t.Fatalf("unexpected nonce after tip advance - got %d, want 2",
				tx.Transaction.Nonce)
		}
	}
}
