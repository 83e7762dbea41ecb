// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package generator provides a background producer of valid signed
// transactions against the current chain tip, used to exercise the node in
// testing and demos.
package generator

import (
	"crypto/rand"
	mrand "math/rand"
	"sync/atomic"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/blockchain"
	"github.com/emberchain/emberd/chaincfg"
	"github.com/emberchain/emberd/emberutil"
	"github.com/emberchain/emberd/mempool"
	"github.com/emberchain/emberd/wire"
	"golang.org/x/crypto/ed25519"
)

// freshReceiverPercent is the percentage of generated transactions that
// pay a freshly minted key instead of one of the already known ones.
const freshReceiverPercent = 10

// PeerNotifier provides the announcement interface the generator uses to
// advertise its transactions to the network.
type PeerNotifier interface {
	// AnnounceNewTransactions advertises the given transaction hashes to
	// all connected peers.
	AnnounceNewTransactions(hashes []chainhash.Hash)
}

// Config is a descriptor containing the transaction generator
// configuration.
type Config struct {
	// ChainParams identifies the chain transactions are generated for.
	ChainParams *chaincfg.Params

	// Chain provides the current tip.
	Chain *blockchain.BlockChain

	// TxPool receives the generated transactions.
	TxPool *mempool.TxPool

	// States provides the account state at the tip.
	States *blockchain.StatePerBlock

	// PeerNotifier announces generated transactions.
	PeerNotifier PeerNotifier

	// NodeKey is the key the node identifies itself with; it funds the
	// generated transaction stream.
	NodeKey ed25519.PrivateKey
}

// Generator produces valid signed transactions against the tip state.  It
// holds a growing set of key pairs: the node's own plus every receiver it
// has minted.
type Generator struct {
	started int32

	cfg  Config
	keys []ed25519.PrivateKey
	rng  *mrand.Rand
	quit chan struct{}
}

// New returns a new transaction generator funded by the provided node
// key.
func New(cfg *Config) *Generator {
	return &Generator{
		cfg:  *cfg,
		keys: []ed25519.PrivateKey{cfg.NodeKey},
		rng:  mrand.New(mrand.NewSource(time.Now().UnixNano())),
		quit: make(chan struct{}),
	}
}

// Start launches the generation loop.  The theta parameter controls the
// pacing: the loop sleeps 5*theta milliseconds between transactions, and
// zero means generating flat out.  Calling Start a second time is a
// no-op.
func (g *Generator) Start(theta uint64) {
	if atomic.AddInt32(&g.started, 1) != 1 {
		return
	}

	log.Infof("Transaction generator started with theta %d", theta)
	go g.generateLoop(theta)
}

// Stop terminates the generation loop.
func (g *Generator) Stop() {
	if atomic.LoadInt32(&g.started) == 0 {
		return
	}
	close(g.quit)
}

// generateLoop builds, signs, pools, and announces one transaction per
// iteration.
func (g *Generator) generateLoop(theta uint64) {
	for {
		select {
		case <-g.quit:
			return
		default:
		}

		g.generateOne()

		if theta != 0 {
			select {
			case <-time.After(time.Duration(5*theta) * time.Millisecond):
			case <-g.quit:
				return
			}
		}
	}
}

// generateOne emits a single valid transaction against the tip state, if
// one can be built.
func (g *Generator) generateOne() {
	// Snapshot the state at the current tip.
	tip := g.cfg.Chain.Tip()
	state, ok := g.cfg.States.State(&tip)
	if !ok {
		// The tip was committed to the chain ahead of its snapshot;
		// back off briefly and retry.
		time.Sleep(10 * time.Millisecond)
		return
	}

	// Select a sender with a spendable balance uniformly among the known
	// keys.  A balance of one cannot satisfy value < balance, so such
	// accounts are not spendable yet.
	senderIdx, ok := g.pickSender(state)
	if !ok {
		time.Sleep(10 * time.Millisecond)
		return
	}
	senderKey := g.keys[senderIdx]
	sender := emberutil.NewAddressPubKey(
		senderKey.Public().(ed25519.PublicKey))

	balance := state.Balance(sender)
	value := 1 + uint32(g.rng.Int63n(int64(balance-1)))
	nonce := state.Nonce(sender) + 1

	receiver := g.pickReceiver(sender)

	tx := wire.SignTransaction(&wire.Transaction{
		Receiver: receiver,
		Value:    value,
		Nonce:    nonce,
	}, senderKey)

	g.cfg.TxPool.Insert(tx)
	txHash := tx.TxHash()
	log.Debugf("Generated transaction %v: %d from %v to %v", txHash,
		value, sender, receiver)
	g.cfg.PeerNotifier.AnnounceNewTransactions([]chainhash.Hash{txHash})
}

// pickSender returns the index of a uniformly chosen known key whose
// account can fund a transaction as of the provided state.
func (g *Generator) pickSender(state blockchain.State) (int, bool) {
	spendable := make([]int, 0, len(g.keys))
	for i, key := range g.keys {
		addr := emberutil.NewAddressPubKey(key.Public().(ed25519.PublicKey))
		if state.Balance(addr) > 1 {
			spendable = append(spendable, i)
		}
	}
	if len(spendable) == 0 {
		return 0, false
	}
	return spendable[g.rng.Intn(len(spendable))], true
}

// pickReceiver returns the receiving address for the next transaction:
// roughly one in ten times a freshly minted key pair that joins the known
// set, otherwise a uniformly chosen known address other than the sender.
func (g *Generator) pickReceiver(sender emberutil.Address) emberutil.Address {
	mintFresh := g.rng.Intn(100) < freshReceiverPercent

	if !mintFresh {
		candidates := make([]emberutil.Address, 0, len(g.keys))
		for _, key := range g.keys {
			addr := emberutil.NewAddressPubKey(
				key.Public().(ed25519.PublicKey))
			if addr != sender {
				candidates = append(candidates, addr)
			}
		}
		if len(candidates) > 0 {
			return candidates[g.rng.Intn(len(candidates))]
		}
		// The sender is the only known key; fall through to minting.
	}

	_, freshKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		// Out of entropy; reuse the sender key's address as a last
		// resort self-transfer.
		log.Errorf("Failed to mint receiver key: %v", err)
		return sender
	}
	g.keys = append(g.keys, freshKey)
	return emberutil.NewAddressPubKey(freshKey.Public().(ed25519.PublicKey))
}
