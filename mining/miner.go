// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mining provides the proof of work miner and the worker that
// commits its finished blocks.
//
// The miner is a state machine driven by a control channel: it starts
// paused, runs block assembly and hashing when started, and terminates on
// shutdown.  Finished blocks are handed off on a channel rather than
// committed in place, so the hashing loop never holds a store lock across
// a proof of work trial.
package mining

import (
	"math/rand"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/blockchain"
	"github.com/emberchain/emberd/chaincfg"
	"github.com/emberchain/emberd/mempool"
	"github.com/emberchain/emberd/wire"
)

const (
	// maxBlockTxns is the maximum number of transactions the miner drains
	// from the mempool into a single block candidate.
	maxBlockTxns = 50

	// finishedBlockBufferSize is the buffer size of the finished block
	// channel between the miner and its worker.
	finishedBlockBufferSize = 100
)

// PeerNotifier provides the announcement interface the mining worker uses
// to advertise newly committed blocks to the network.
type PeerNotifier interface {
	// AnnounceNewBlocks advertises the given block hashes to all
	// connected peers.  It must only be called once the blocks are in the
	// chain and their state snapshots are recorded.
	AnnounceNewBlocks(hashes []chainhash.Hash)
}

// Config is a descriptor containing the mining configuration.
type Config struct {
	// ChainParams identifies the chain the miner extends.
	ChainParams *chaincfg.Params

	// Chain is the block tree candidates build on.
	Chain *blockchain.BlockChain

	// TxPool is the pool candidate transactions are drained from.
	TxPool *mempool.TxPool

	// States tracks the per-block account state snapshots.
	States *blockchain.StatePerBlock

	// PeerNotifier announces committed blocks.  Only the worker uses it.
	PeerNotifier PeerNotifier

	// MineEmptyBlocks overrides the default behavior of withholding
	// solved blocks that carry no transactions.
	MineEmptyBlocks bool
}

// controlOp enumerates the operations the miner control channel carries.
type controlOp int

const (
	// opStart moves the miner into the running state with the lambda
	// carried alongside it.
	opStart controlOp = iota

	// opUpdate wakes the running miner so the next candidate reflects the
	// current tip and mempool.  The loop re-snapshots both on every
	// iteration anyway, so the signal carries no payload.
	opUpdate

	// opShutdown terminates the mining loop.
	opShutdown
)

// controlSignal is a single command to the mining state machine.
type controlSignal struct {
	op     controlOp
	lambda uint64
}

// operatingState enumerates the states of the mining state machine.
type operatingState int

const (
	statePaused operatingState = iota
	stateRunning
	stateShutdown
)

// Miner assembles candidate blocks over the mempool and searches nonces
// until a candidate hash satisfies the chain difficulty.  Solved blocks
// are published on the finished block channel for the worker to commit.
type Miner struct {
	cfg Config

	controlChan    chan controlSignal
	finishedBlocks chan *wire.Block
	rng            *rand.Rand

	quitOnce sync.Once
}

// NewMiner returns a new miner in the paused state.  Run must be invoked
// to start the state machine.
func NewMiner(cfg *Config) *Miner {
	return &Miner{
		cfg:            *cfg,
		controlChan:    make(chan controlSignal),
		finishedBlocks: make(chan *wire.Block, finishedBlockBufferSize),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FinishedBlocks returns the channel solved blocks are published on.
func (m *Miner) FinishedBlocks() <-chan *wire.Block {
	return m.finishedBlocks
}

// Start moves the miner into the running state.  The lambda parameter is
// the delay in microseconds between proof of work trials; zero means
// hashing flat out.
func (m *Miner) Start(lambda uint64) {
	m.controlChan <- controlSignal{op: opStart, lambda: lambda}
	log.Infof("Miner starting in continuous mode with lambda %d", lambda)
}

// Update wakes the running miner so the next candidate reflects the
// current chain tip and mempool contents.
func (m *Miner) Update() {
	m.controlChan <- controlSignal{op: opUpdate}
}

// Shutdown terminates the mining state machine.  Subsequent calls are
// no-ops.
func (m *Miner) Shutdown() {
	m.quitOnce.Do(func() {
		m.controlChan <- controlSignal{op: opShutdown}
	})
}

// Run executes the mining state machine until it is shut down.  It must be
// called in its own goroutine.
func (m *Miner) Run() {
	log.Info("Miner initialized into paused mode")

	state := statePaused
	var lambda uint64
	for {
		switch state {
		case statePaused:
			// Nothing to do until a control signal arrives.
			signal := <-m.controlChan
			state, lambda = m.applySignal(state, lambda, signal)
			continue

		case stateShutdown:
			log.Info("Miner shutting down")
			return

		case stateRunning:
			// React to a pending control signal without blocking the
			// hashing loop.
			select {
			case signal := <-m.controlChan:
				state, lambda = m.applySignal(state, lambda, signal)
				continue
			default:
			}
		}

		m.mineOneTrial()

		if lambda != 0 {
			time.Sleep(time.Duration(lambda) * time.Microsecond)
		}
	}
}

// applySignal returns the state and lambda that result from handling the
// provided control signal.
func (m *Miner) applySignal(state operatingState, lambda uint64,
	signal controlSignal) (operatingState, uint64) {

	switch signal.op {
	case opStart:
		return stateRunning, signal.lambda
	case opShutdown:
		return stateShutdown, lambda
	case opUpdate:
		// The next iteration re-snapshots the tip and mempool, so there
		// is nothing to do beyond having woken the loop.
		return state, lambda
	}
	return state, lambda
}

// mineOneTrial assembles a candidate block over the current tip and
// mempool and performs a single proof of work trial on it.  No store lock
// is held while hashing; the snapshot is taken, released, and then tried.
func (m *Miner) mineOneTrial() {
	// Snapshot up to maxBlockTxns transactions from the mempool.
	var blockTxns []wire.SignedTransaction
	for _, tx := range m.cfg.TxPool.All() {
		blockTxns = append(blockTxns, *tx)
		if len(blockTxns) == maxBlockTxns {
			break
		}
	}

	// Read the tip and inherit its difficulty; the chain carries a single
	// constant.
	tip := m.cfg.Chain.Tip()
	parent, ok := m.cfg.Chain.Block(&tip)
	if !ok {
		// The tip is always present; nothing sane can be mined if not.
		log.Warnf("Tip block %v missing from chain", tip)
		return
	}

	block := &wire.Block{
		Header: wire.BlockHeader{
			Parent:     tip,
			Nonce:      m.rng.Uint32(),
			Difficulty: parent.Header.Difficulty,
			Timestamp:  uint64(time.Now().UnixMilli()),
			MerkleRoot: blockchain.CalcTxMerkleRoot(blockTxns),
		},
		Transactions: blockTxns,
	}

	blockHash := block.BlockHash()
	if !blockchain.CheckProofOfWork(&blockHash, &block.Header.Difficulty) {
		return
	}
	if len(block.Transactions) == 0 && !m.cfg.MineEmptyBlocks {
		// Withhold solved empty blocks; the miner only publishes when it
		// has work.
		return
	}

	log.Debugf("Mined block %v with %d transactions", blockHash,
		len(block.Transactions))
	m.finishedBlocks <- block
}
