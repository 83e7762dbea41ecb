// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package netsync implements the gossip protocol handler that keeps the
// local chain, mempool, and account state in sync with the peer network.
//
// A configurable number of workers drain one shared message queue fed by
// the peer layer.  Each worker owns a private orphan buffer holding blocks
// whose ancestors have not arrived yet; an orphan is resolved in FIFO
// order as soon as the insert of its parent unblocks it.
package netsync

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/container/apbf"
	"github.com/emberchain/emberd/blockchain"
	"github.com/emberchain/emberd/chaincfg"
	"github.com/emberchain/emberd/mempool"
	"github.com/emberchain/emberd/wire"
)

const (
	// defaultNumWorkers is the number of message workers started when the
	// config does not say otherwise.
	defaultNumWorkers = 4

	// msgQueueSize is the buffer size of the shared peer message queue.
	msgQueueSize = 10000

	// The following constants size the recently confirmed transaction
	// filter.  The values provide a filter that holds the transactions of
	// roughly the most recent 40 full blocks with a very low false
	// positive rate.
	maxRecentlyConfirmedTxns    = 2000
	recentlyConfirmedTxnsFPRate = 0.000001
)

// Peer is the subset of peer functionality the manager needs in order to
// react to a message from that peer.
type Peer interface {
	// QueueMessage queues a reply for delivery to the peer.
	QueueMessage(msg wire.Message)

	// AddKnownInventory marks a block or transaction hash as known to the
	// peer so broadcasts can skip re-announcing it there.
	AddKnownInventory(hash *chainhash.Hash)

	// String returns a human readable identification of the peer.
	String() string
}

// PeerNotifier provides the broadcast interface the manager uses to
// announce newly accepted blocks and transactions to all connected peers.
type PeerNotifier interface {
	Broadcast(msg wire.Message)
}

// Config is a descriptor containing the sync manager configuration.
type Config struct {
	// ChainParams identifies the chain the manager syncs.
	ChainParams *chaincfg.Params

	// Chain is the local block tree.
	Chain *blockchain.BlockChain

	// TxPool is the local transaction pool.
	TxPool *mempool.TxPool

	// States tracks the per-block account state snapshots.
	States *blockchain.StatePerBlock

	// PeerNotifier relays accepted inventory to all peers.
	PeerNotifier PeerNotifier

	// NumWorkers is the number of concurrent message workers.  Zero
	// selects the default.
	NumWorkers int
}

// peerMsg couples a decoded message with the peer it arrived from.
type peerMsg struct {
	message wire.Message
	peer    Peer
}

// Manager dispatches peer messages to protocol handlers and drives block
// and transaction ingest.
type Manager struct {
	started  int32
	shutdown int32

	cfg     Config
	msgChan chan peerMsg
	quit    chan struct{}
	wg      sync.WaitGroup

	// recentlyConfirmed tracks transactions that were recently included
	// in accepted blocks so stale re-announcements are not fetched again.
	confirmedMtx      sync.Mutex
	recentlyConfirmed *apbf.Filter
}

// New returns a new network sync manager for the provided configuration.
func New(cfg *Config) *Manager {
	m := Manager{
		cfg:     *cfg,
		msgChan: make(chan peerMsg, msgQueueSize),
		quit:    make(chan struct{}),
		recentlyConfirmed: apbf.NewFilter(maxRecentlyConfirmedTxns,
			recentlyConfirmedTxnsFPRate),
	}
	if m.cfg.NumWorkers <= 0 {
		m.cfg.NumWorkers = defaultNumWorkers
	}
	return &m
}

// Start launches the message workers.  Calling Start a second time is a
// no-op.
func (m *Manager) Start() {
	// Already started?
	if atomic.AddInt32(&m.started, 1) != 1 {
		return
	}

	log.Tracef("Starting sync manager with %d workers", m.cfg.NumWorkers)
	for i := 0; i < m.cfg.NumWorkers; i++ {
		m.wg.Add(1)
		go m.messageWorker(i)
	}
}

// Stop shuts down the message workers and waits for them to finish
// processing their current messages.
func (m *Manager) Stop() {
	if atomic.AddInt32(&m.shutdown, 1) != 1 {
		return
	}

	log.Tracef("Sync manager shutting down")
	close(m.quit)
	m.wg.Wait()
}

// Enqueue hands a message received from a peer to the worker pool.  The
// message is dropped when the manager is shutting down or the queue is
// full; the protocol recovers dropped announcements by re-announcement.
func (m *Manager) Enqueue(msg wire.Message, from Peer) {
	if atomic.LoadInt32(&m.shutdown) != 0 {
		return
	}
	select {
	case m.msgChan <- peerMsg{message: msg, peer: from}:
	default:
		log.Warnf("Peer message queue full; dropping %s from %s",
			msg.Command(), from)
	}
}

// messageWorker is the main handler loop of one worker.  The orphan buffer
// is owned by the worker; workers that see orphans of the same parent
// independently re-request it, which is redundant but harmless.
func (m *Manager) messageWorker(id int) {
	defer m.wg.Done()

	orphans := make(map[chainhash.Hash][]*wire.Block)
	for {
		select {
		case msg := <-m.msgChan:
			m.handleMessage(msg.peer, msg.message, orphans)

		case <-m.quit:
			log.Tracef("Message worker %d done", id)
			return
		}
	}
}

// handleMessage dispatches a single peer message to its protocol handler.
func (m *Manager) handleMessage(p Peer, msg wire.Message,
	orphans map[chainhash.Hash][]*wire.Block) {

	switch msg := msg.(type) {
	case *wire.MsgPing:
		log.Debugf("Ping %d from %s", msg.Nonce, p)
		p.QueueMessage(wire.NewMsgPong(strconv.FormatUint(msg.Nonce, 10)))

	case *wire.MsgPong:
		log.Debugf("Pong %s from %s", msg.Nonce, p)

	case *wire.MsgNewBlockHashes:
		m.handleNewBlockHashes(p, msg)

	case *wire.MsgGetBlocks:
		m.handleGetBlocks(p, msg)

	case *wire.MsgBlocks:
		m.handleBlocks(p, msg, orphans)

	case *wire.MsgNewTxHashes:
		m.handleNewTxHashes(p, msg)

	case *wire.MsgGetTransactions:
		m.handleGetTransactions(p, msg)

	case *wire.MsgTransactions:
		m.handleTransactions(p, msg)

	default:
		log.Warnf("Unhandled message %s from %s", msg.Command(), p)
	}
}

// handleNewBlockHashes requests the advertised blocks the chain does not
// have from the advertising peer.
func (m *Manager) handleNewBlockHashes(p Peer, msg *wire.MsgNewBlockHashes) {
	var missing []chainhash.Hash
	for i := range msg.Hashes {
		hash := &msg.Hashes[i]
		p.AddKnownInventory(hash)
		if !m.cfg.Chain.Exists(hash) {
			missing = append(missing, *hash)
		}
	}
	if len(missing) > 0 {
		log.Debugf("Requesting %d missing blocks from %s", len(missing), p)
		p.QueueMessage(wire.NewMsgGetBlocks(missing))
	}
}

// handleGetBlocks serves the requested blocks that are present locally.
func (m *Manager) handleGetBlocks(p Peer, msg *wire.MsgGetBlocks) {
	var blocks []wire.Block
	for i := range msg.Hashes {
		if block, ok := m.cfg.Chain.Block(&msg.Hashes[i]); ok {
			blocks = append(blocks, *block)
		}
	}
	if len(blocks) > 0 {
		log.Debugf("Serving %d blocks to %s", len(blocks), p)
		p.QueueMessage(wire.NewMsgBlocks(blocks))
	}
}

// handleNewTxHashes requests the advertised transactions the mempool does
// not have from the advertising peer.  Transactions that were recently
// confirmed in a block are not requested again.
func (m *Manager) handleNewTxHashes(p Peer, msg *wire.MsgNewTxHashes) {
	var missing []chainhash.Hash
	for i := range msg.Hashes {
		hash := &msg.Hashes[i]
		p.AddKnownInventory(hash)
		if m.cfg.TxPool.Exists(hash) {
			continue
		}
		m.confirmedMtx.Lock()
		confirmed := m.recentlyConfirmed.Contains(hash[:])
		m.confirmedMtx.Unlock()
		if confirmed {
			continue
		}
		missing = append(missing, *hash)
	}
	if len(missing) > 0 {
		log.Debugf("Requesting %d missing transactions from %s",
			len(missing), p)
		p.QueueMessage(wire.NewMsgGetTransactions(missing))
	}
}

// handleGetTransactions serves the requested transactions that are in the
// mempool.
func (m *Manager) handleGetTransactions(p Peer, msg *wire.MsgGetTransactions) {
	var txns []wire.SignedTransaction
	for i := range msg.Hashes {
		if tx, ok := m.cfg.TxPool.Fetch(&msg.Hashes[i]); ok {
			txns = append(txns, *tx)
		}
	}
	if len(txns) > 0 {
		log.Debugf("Serving %d transactions to %s", len(txns), p)
		p.QueueMessage(wire.NewMsgTransactions(txns))
	}
}

// handleTransactions validates delivered transactions and accepts the new
// valid ones into the mempool.  Newly accepted transactions are announced
// to all peers afterwards, with no store lock held.
func (m *Manager) handleTransactions(p Peer, msg *wire.MsgTransactions) {
	tip := m.cfg.Chain.Tip()
	tipState, haveState := m.cfg.States.State(&tip)

	var accepted []chainhash.Hash
	for i := range msg.Transactions {
		tx := &msg.Transactions[i]
		txHash := tx.TxHash()
		p.AddKnownInventory(&txHash)

		if !tx.VerifySignature() {
			log.Debugf("Transaction %v from %s has an invalid signature",
				txHash, p)
			continue
		}
		if !haveState || !validTxAgainstState(tx, tipState) {
			log.Debugf("Transaction %v from %s is invalid against the "+
				"tip state", txHash, p)
			continue
		}

		if !m.cfg.TxPool.Exists(&txHash) {
			m.cfg.TxPool.Insert(tx)
			accepted = append(accepted, txHash)
			log.Debugf("Transaction %v accepted into the mempool", txHash)
		}
	}

	if len(accepted) > 0 {
		m.cfg.PeerNotifier.Broadcast(wire.NewMsgNewTxHashes(accepted))
	}
}

// validTxAgainstState reports whether the sender of the transaction can
// afford it and uses the next account nonce as of the provided state.
func validTxAgainstState(tx *wire.SignedTransaction,
	state blockchain.State) bool {

	block := wire.Block{Transactions: []wire.SignedTransaction{*tx}}
	return blockchain.CheckBlockTransactions(&block, state) == nil
}

// handleBlocks runs the block ingest pipeline over the delivered blocks.
//
// Each block pulled from the work queue passes the proof of work check,
// the parent existence check, the difficulty consistency check, and full
// transaction validation against the parent state before it is committed
// to the chain, the state snapshots, and the mempool, in that order.  A
// block whose parent is unknown parks in the orphan buffer and triggers a
// request for the parent; inserting a block moves its buffered children
// onto the tail of the work queue.  Every newly accepted hash is announced
// to all peers once the queue drains, after all locks are released.
func (m *Manager) handleBlocks(p Peer, msg *wire.MsgBlocks,
	orphans map[chainhash.Hash][]*wire.Block) {

	queue := make([]*wire.Block, 0, len(msg.Blocks))
	for i := range msg.Blocks {
		queue = append(queue, &msg.Blocks[i])
	}

	var accepted []chainhash.Hash
	for len(queue) > 0 {
		block := queue[0]
		queue = queue[1:]

		blockHash := block.BlockHash()
		p.AddKnownInventory(&blockHash)

		// Proof of work against the block's own declared target.
		if err := blockchain.CheckBlockProofOfWork(block); err != nil {
			log.Debugf("Rejected block %v from %s: %v", blockHash, p, err)
			continue
		}

		// Park orphans and ask the delivering peer for the missing
		// parent.
		parentHash := block.Header.Parent
		parent, ok := m.cfg.Chain.Block(&parentHash)
		if !ok {
			addOrphan(orphans, block, &blockHash)
			log.Debugf("Orphan block %v; requesting parent %v from %s",
				blockHash, parentHash, p)
			p.QueueMessage(wire.NewMsgGetBlocks(
				[]chainhash.Hash{parentHash}))
			continue
		}

		// The difficulty must be inherited unchanged.
		if err := blockchain.CheckBlockDifficulty(block, parent); err != nil {
			log.Debugf("Rejected block %v from %s: %v", blockHash, p, err)
			continue
		}

		// Full transaction validation against the parent state.
		parentState, ok := m.cfg.States.State(&parentHash)
		if !ok {
			// The parent is in the chain, so its snapshot is either
			// being recorded right now or was lost to a commit failure.
			// Drop the block; a re-announcement will retry.
			log.Warnf("No state snapshot for parent %v of block %v",
				parentHash, blockHash)
			continue
		}
		err := blockchain.CheckBlockTransactions(block, parentState)
		if err != nil {
			log.Debugf("Rejected block %v from %s: %v", blockHash, p, err)
			continue
		}

		if !m.cfg.Chain.Exists(&blockHash) {
			// Commit in the fixed store order chain, state, mempool.
			m.cfg.Chain.Insert(block)
			if err := m.cfg.States.UpdateWithBlock(block); err != nil {
				log.Errorf("Failed to record state for block %v: %v",
					blockHash, err)
				continue
			}
			m.confirmedMtx.Lock()
			for i := range block.Transactions {
				tx := &block.Transactions[i]
				m.cfg.TxPool.Remove(tx)
				txHash := tx.TxHash()
				m.recentlyConfirmed.Add(txHash[:])
			}
			m.confirmedMtx.Unlock()

			accepted = append(accepted, blockHash)
			log.Debugf("Block %v inserted at height %d", blockHash,
				mustHeight(m.cfg.Chain, &blockHash))

			// Unparked orphans continue the pass in FIFO order.
			if children, ok := orphans[blockHash]; ok {
				delete(orphans, blockHash)
				queue = append(queue, children...)
			}
		}
	}

	if len(accepted) > 0 {
		log.Debugf("Broadcasting %d new block hashes", len(accepted))
		m.cfg.PeerNotifier.Broadcast(wire.NewMsgNewBlockHashes(accepted))
	}
}

// addOrphan parks a block in the orphan buffer under its parent hash,
// skipping exact duplicates.
func addOrphan(orphans map[chainhash.Hash][]*wire.Block, block *wire.Block,
	blockHash *chainhash.Hash) {

	parentHash := block.Header.Parent
	for _, existing := range orphans[parentHash] {
		if existing.BlockHash() == *blockHash {
			return
		}
	}
	orphans[parentHash] = append(orphans[parentHash], block)
}

// mustHeight returns the height of a block known to be in the chain.
func mustHeight(chain *blockchain.BlockChain, hash *chainhash.Hash) int64 {
	height, _ := chain.Height(hash)
	return height
}
