// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer provides the transport for a single ember peer connection:
// frame-level reading and writing of wire messages over TCP, a buffered
// output queue, periodic liveness pings, and per-peer known inventory
// tracking so announcements are not echoed back to their source.
package peer

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
	"github.com/emberchain/emberd/wire"
)

const (
	// outputQueueSize is the number of messages that may be queued for
	// delivery to a peer before further broadcasts to it are dropped.
	outputQueueSize = 1000

	// maxKnownInventory is the maximum number of recently advertised
	// block and transaction hashes remembered per peer.
	maxKnownInventory = 1000

	// pingInterval is the interval of time between liveness pings.
	pingInterval = 2 * time.Minute
)

// Config is the configuration shared by all peers of a node.
type Config struct {
	// Net is the network magic all frames must carry.
	Net wire.EmberNet

	// OnMessage is invoked for every message read from the peer.  It
	// must not block for long; slow processing belongs behind a queue.
	OnMessage func(p *Peer, msg wire.Message)

	// OnDisconnect is invoked once when the peer connection is torn
	// down.
	OnDisconnect func(p *Peer)
}

// Peer is a single connection to a remote node.
type Peer struct {
	cfg      *Config
	conn     net.Conn
	addr     string
	inbound  bool
	connected int32

	outputQueue chan wire.Message
	quit        chan struct{}

	knownInventory lru.Cache

	wg sync.WaitGroup
}

// New returns a peer over the provided connection.  Start must be called
// before the peer exchanges any messages.
func New(conn net.Conn, cfg *Config, inbound bool) *Peer {
	return &Peer{
		cfg:            cfg,
		conn:           conn,
		addr:           conn.RemoteAddr().String(),
		inbound:        inbound,
		connected:      1,
		outputQueue:    make(chan wire.Message, outputQueueSize),
		quit:           make(chan struct{}),
		knownInventory: lru.NewCache(maxKnownInventory),
	}
}

// Start launches the peer input, output, and ping handlers.
func (p *Peer) Start() {
	log.Debugf("New %s peer %s", directionString(p.inbound), p)

	p.wg.Add(3)
	go p.inHandler()
	go p.outHandler()
	go p.pingHandler()
}

// Inbound returns whether or not the remote node initiated the
// connection.
func (p *Peer) Inbound() bool {
	return p.inbound
}

// Addr returns the address of the remote node.
func (p *Peer) Addr() string {
	return p.addr
}

// String returns the peer address and direction in human readable form.
func (p *Peer) String() string {
	return fmt.Sprintf("%s (%s)", p.addr, directionString(p.inbound))
}

// AddKnownInventory marks a block or transaction hash as known to the
// peer.
func (p *Peer) AddKnownInventory(hash *chainhash.Hash) {
	p.knownInventory.Add(*hash)
}

// InventoryKnown returns whether or not the peer is known to have the
// given block or transaction hash.
func (p *Peer) InventoryKnown(hash *chainhash.Hash) bool {
	return p.knownInventory.Contains(*hash)
}

// QueueMessage queues a message for delivery to the peer.  Messages are
// dropped, with a log entry, when the peer cannot drain its queue fast
// enough; announcement-based gossip recovers dropped frames by
// re-announcement.
func (p *Peer) QueueMessage(msg wire.Message) {
	if atomic.LoadInt32(&p.connected) == 0 {
		return
	}
	select {
	case p.outputQueue <- msg:
	default:
		log.Warnf("Output queue for peer %s full; dropping %s", p,
			msg.Command())
	}
}

// Disconnect tears down the connection.  Calling it multiple times is
// safe.
func (p *Peer) Disconnect() {
	if !atomic.CompareAndSwapInt32(&p.connected, 1, 0) {
		return
	}

	log.Debugf("Disconnecting peer %s", p)
	close(p.quit)
	p.conn.Close()

	if p.cfg.OnDisconnect != nil {
		p.cfg.OnDisconnect(p)
	}
}

// WaitForShutdown blocks until the peer handlers have stopped.
func (p *Peer) WaitForShutdown() {
	p.wg.Wait()
}

// inHandler reads and dispatches messages until the connection fails.
// Malformed frames are logged and dropped without disconnecting; the next
// frame is read from where the previous declared length ended.
func (p *Peer) inHandler() {
	defer p.wg.Done()

	for {
		msg, err := wire.ReadMessage(p.conn, wire.ProtocolVersion, p.cfg.Net)
		if err != nil {
			// Malformed payloads within an intact frame are recoverable.
			var msgErr *wire.MessageError
			if errors.As(err, &msgErr) {
				log.Debugf("Dropping malformed message from %s: %v", p, err)
				continue
			}
			if !errors.Is(err, io.EOF) &&
				atomic.LoadInt32(&p.connected) != 0 {
				log.Errorf("Failed to read message from %s: %v", p, err)
			}
			p.Disconnect()
			return
		}

		p.cfg.OnMessage(p, msg)
	}
}

// outHandler writes queued messages until the peer is torn down.
func (p *Peer) outHandler() {
	defer p.wg.Done()

	for {
		select {
		case msg := <-p.outputQueue:
			err := wire.WriteMessage(p.conn, msg, wire.ProtocolVersion,
				p.cfg.Net)
			if err != nil {
				if atomic.LoadInt32(&p.connected) != 0 {
					log.Errorf("Failed to send message to %s: %v", p, err)
				}
				p.Disconnect()
				return
			}

		case <-p.quit:
			return
		}
	}
}

// pingHandler periodically pings the peer.
func (p *Peer) pingHandler() {
	defer p.wg.Done()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-pingTicker.C:
			p.QueueMessage(wire.NewMsgPing(rand.Uint64()))

		case <-p.quit:
			return
		}
	}
}

// directionString returns a string describing the direction of a
// connection.
func directionString(inbound bool) string {
	if inbound {
		return "inbound"
	}
	return "outbound"
}
