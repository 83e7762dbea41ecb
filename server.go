// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/connmgr/v3"
	"github.com/decred/go-socks/socks"
	"github.com/emberchain/emberd/netsync"
	"github.com/emberchain/emberd/peer"
	"github.com/emberchain/emberd/wire"
)

// connectionRetryInterval is the base amount of time to wait in between
// retries when connecting to persistent peers.  It is adjusted by the
// number of retries such that there is a retry backoff.
const connectionRetryInterval = time.Second

// server provides an ember server for handling communications to and from
// ember peers.
type server struct {
	shutdown int32

	chainParams *params
	syncManager *netsync.Manager
	peerConfig  *peer.Config
	connManager *connmgr.ConnManager

	cancel context.CancelFunc

	peersMtx sync.RWMutex
	peers    map[*peer.Peer]*connmgr.ConnReq

	// blockNotify, when set, additionally receives every locally
	// announced batch of new block hashes.  The control API uses it to
	// feed its websocket subscribers.
	blockNotify func([]chainhash.Hash)
}

// newServer returns a new ember server configured to listen on the
// provided P2P address.  The sync manager must be assigned before Start
// is called.
func newServer(cfg *config, chainParams *params) (*server, error) {
	s := &server{
		chainParams: chainParams,
		peers:       make(map[*peer.Peer]*connmgr.ConnReq),
	}
	s.peerConfig = &peer.Config{
		Net:          chainParams.Net,
		OnMessage:    s.onPeerMessage,
		OnDisconnect: s.onPeerDisconnect,
	}

	// Outbound connections go through a SOCKS5 proxy when one is
	// configured.
	netDial := new(net.Dialer).DialContext
	if cfg.Proxy != "" {
		proxy := &socks.Proxy{Addr: cfg.Proxy}
		netDial = proxy.DialContext
	}
	dial := func(ctx context.Context, addr net.Addr) (net.Conn, error) {
		return netDial(ctx, addr.Network(), addr.String())
	}

	listener, err := net.Listen("tcp", cfg.P2PListen)
	if err != nil {
		return nil, err
	}
	srvrLog.Infof("P2P server listening on %s", cfg.P2PListen)

	cmgr, err := connmgr.New(&connmgr.Config{
		Listeners:      []net.Listener{listener},
		OnAccept:       s.inboundPeerConnected,
		RetryDuration:  connectionRetryInterval,
		DialAddr:       dial,
		OnConnection:   s.outboundPeerConnected,
	})
	if err != nil {
		return nil, err
	}
	s.connManager = cmgr

	return s, nil
}

// Start begins accepting connections from peers and initiates the
// persistent connections to the provided peer addresses.
func (s *server) Start(connectPeers []string) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.connManager.Run(ctx)

	for _, addr := range connectPeers {
		tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
		if err != nil {
			srvrLog.Errorf("Invalid peer address %q: %v", addr, err)
			continue
		}
		go s.connManager.Connect(context.Background(),
			&connmgr.ConnReq{Addr: tcpAddr, Permanent: true})
	}
}

// Stop gracefully shuts down the server by disconnecting all peers and
// stopping the connection manager.
func (s *server) Stop() {
	if atomic.AddInt32(&s.shutdown, 1) != 1 {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.peersMtx.Lock()
	peers := make([]*peer.Peer, 0, len(s.peers))
	for p := range s.peers {
		peers = append(peers, p)
	}
	s.peersMtx.Unlock()
	for _, p := range peers {
		p.Disconnect()
	}
}

// inboundPeerConnected is invoked by the connection manager when a new
// inbound connection is established.
func (s *server) inboundPeerConnected(conn net.Conn) {
	p := peer.New(conn, s.peerConfig, true)
	s.registerPeer(p, nil)
	p.Start()
}

// outboundPeerConnected is invoked by the connection manager when a new
// outbound connection is established.
func (s *server) outboundPeerConnected(c *connmgr.ConnReq, conn net.Conn) {
	p := peer.New(conn, s.peerConfig, false)
	s.registerPeer(p, c)
	p.Start()
	srvrLog.Infof("Connected to outbound peer %s", p.Addr())
}

// registerPeer adds the peer to the peer registry.  Outbound peers keep
// their connection request so a disconnect can be reported back to the
// connection manager for retry.
func (s *server) registerPeer(p *peer.Peer, c *connmgr.ConnReq) {
	s.peersMtx.Lock()
	s.peers[p] = c
	s.peersMtx.Unlock()
}

// onPeerMessage hands every message read from a peer to the sync manager
// worker pool.
func (s *server) onPeerMessage(p *peer.Peer, msg wire.Message) {
	s.syncManager.Enqueue(msg, p)
}

// onPeerDisconnect drops the peer from the registry.  Persistent outbound
// connections are handed back to the connection manager, which retries
// them with backoff.
func (s *server) onPeerDisconnect(p *peer.Peer) {
	s.peersMtx.Lock()
	connReq := s.peers[p]
	delete(s.peers, p)
	s.peersMtx.Unlock()

	if connReq != nil && atomic.LoadInt32(&s.shutdown) == 0 {
		s.connManager.Disconnect(connReq.ID())
	}
}

// Broadcast sends the provided message to every connected peer.
// Announcement vectors are filtered per peer against its known inventory
// so a peer is never re-announced a hash it is known to have; peers with
// nothing left after filtering are skipped entirely.
func (s *server) Broadcast(msg wire.Message) {
	s.peersMtx.RLock()
	peers := make([]*peer.Peer, 0, len(s.peers))
	for p := range s.peers {
		peers = append(peers, p)
	}
	s.peersMtx.RUnlock()

	// Newly announced blocks also feed the control API stream, whether
	// they were mined locally or accepted from the gossip layer.
	if blockAnn, ok := msg.(*wire.MsgNewBlockHashes); ok &&
		s.blockNotify != nil {
		s.blockNotify(blockAnn.Hashes)
	}

	for _, p := range peers {
		switch msg := msg.(type) {
		case *wire.MsgNewBlockHashes:
			if unknown := filterKnownInventory(p, msg.Hashes); len(unknown) > 0 {
				p.QueueMessage(wire.NewMsgNewBlockHashes(unknown))
			}

		case *wire.MsgNewTxHashes:
			if unknown := filterKnownInventory(p, msg.Hashes); len(unknown) > 0 {
				p.QueueMessage(wire.NewMsgNewTxHashes(unknown))
			}

		default:
			p.QueueMessage(msg)
		}
	}
}

// filterKnownInventory returns the subset of hashes the peer is not known
// to have and marks the returned ones as known to it.
func filterKnownInventory(p *peer.Peer, hashes []chainhash.Hash) []chainhash.Hash {
	unknown := make([]chainhash.Hash, 0, len(hashes))
	for i := range hashes {
		hash := &hashes[i]
		if p.InventoryKnown(hash) {
			continue
		}
		p.AddKnownInventory(hash)
		unknown = append(unknown, *hash)
	}
	return unknown
}

// AnnounceNewBlocks advertises newly accepted blocks to all connected
// peers and to the control API, satisfying the mining worker's notifier
// interface.
func (s *server) AnnounceNewBlocks(hashes []chainhash.Hash) {
	s.Broadcast(wire.NewMsgNewBlockHashes(hashes))
}

// AnnounceNewTransactions advertises newly accepted transactions to all
// connected peers, satisfying the transaction generator's notifier
// interface.
func (s *server) AnnounceNewTransactions(hashes []chainhash.Hash) {
	s.Broadcast(wire.NewMsgNewTxHashes(hashes))
}
