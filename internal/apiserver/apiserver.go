// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package apiserver provides the HTTP control API of the node: starting
// and stopping the miner and the transaction generator, inspecting the
// chain, the per-block account state, and the mempool, and a websocket
// stream of newly accepted block hashes.
package apiserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/blockchain"
	"github.com/emberchain/emberd/chaincfg"
	"github.com/emberchain/emberd/generator"
	"github.com/emberchain/emberd/mempool"
	"github.com/emberchain/emberd/mining"
	"github.com/gorilla/websocket"
)

// Config is a descriptor containing the API server configuration.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string

	// ChainParams identifies the chain being served.
	ChainParams *chaincfg.Params

	// Chain, TxPool, and States are the stores the read endpoints serve
	// from.
	Chain  *blockchain.BlockChain
	TxPool *mempool.TxPool
	States *blockchain.StatePerBlock

	// Miner is driven by the /miner endpoints.
	Miner *mining.Miner

	// TxGenerator is driven by the /tx-generator endpoints.
	TxGenerator *generator.Generator
}

// Server is the HTTP control API server.
type Server struct {
	cfg        Config
	httpServer *http.Server
	upgrader   websocket.Upgrader

	subscribersMtx sync.Mutex
	subscribers    map[*websocket.Conn]struct{}
}

// New returns an API server for the provided configuration.
func New(cfg *Config) *Server {
	s := &Server{
		cfg:         *cfg,
		subscribers: make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/miner/start", s.handleMinerStart)
	mux.HandleFunc("/miner/update", s.handleMinerUpdate)
	mux.HandleFunc("/miner/exit", s.handleMinerExit)
	mux.HandleFunc("/tx-generator/start", s.handleGeneratorStart)
	mux.HandleFunc("/blockchain/longest-chain", s.handleLongestChain)
	mux.HandleFunc("/blockchain/longest-chain-tx", s.handleLongestChainTx)
	mux.HandleFunc("/blockchain/state", s.handleState)
	mux.HandleFunc("/mempool/status", s.handleMempoolStatus)
	mux.HandleFunc("/ws", s.handleWebsocket)

	s.httpServer = &http.Server{Handler: mux}
	return s
}

// Start binds the listen address and serves requests until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}

	log.Infof("API server listening on %s", s.cfg.Listen)
	go func() {
		err := s.httpServer.Serve(listener)
		if err != http.ErrServerClosed {
			log.Errorf("API server error: %v", err)
		}
	}()
	return nil
}

// Shutdown closes the server and all websocket subscribers.
func (s *Server) Shutdown() {
	s.subscribersMtx.Lock()
	for conn := range s.subscribers {
		conn.Close()
	}
	s.subscribers = make(map[*websocket.Conn]struct{})
	s.subscribersMtx.Unlock()

	s.httpServer.Close()
}

// NotifyNewBlocks pushes the given newly accepted block hashes to every
// websocket subscriber.
func (s *Server) NotifyNewBlocks(hashes []chainhash.Hash) {
	encoded := make([]string, 0, len(hashes))
	for i := range hashes {
		encoded = append(encoded, hashes[i].String())
	}

	s.subscribersMtx.Lock()
	defer s.subscribersMtx.Unlock()
	for conn := range s.subscribers {
		err := conn.WriteJSON(map[string][]string{"newBlocks": encoded})
		if err != nil {
			log.Debugf("Dropping websocket subscriber: %v", err)
			conn.Close()
			delete(s.subscribers, conn)
		}
	}
}

// parseRate pulls a non-negative integer rate parameter out of the request
// query.
func parseRate(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
}

// writeJSON serves an object as a JSON response.
func writeJSON(w http.ResponseWriter, obj interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Debugf("Failed to encode API response: %v", err)
	}
}

func (s *Server) handleMinerStart(w http.ResponseWriter, r *http.Request) {
	lambda, err := parseRate(r, "lambda")
	if err != nil {
		http.Error(w, "invalid lambda", http.StatusBadRequest)
		return
	}
	s.cfg.Miner.Start(lambda)
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleMinerUpdate(w http.ResponseWriter, r *http.Request) {
	s.cfg.Miner.Update()
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleMinerExit(w http.ResponseWriter, r *http.Request) {
	s.cfg.Miner.Shutdown()
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleGeneratorStart(w http.ResponseWriter, r *http.Request) {
	theta, err := parseRate(r, "theta")
	if err != nil {
		http.Error(w, "invalid theta", http.StatusBadRequest)
		return
	}
	s.cfg.TxGenerator.Start(theta)
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleLongestChain(w http.ResponseWriter, r *http.Request) {
	chain := s.cfg.Chain.LongestChain()
	encoded := make([]string, 0, len(chain))
	for i := range chain {
		encoded = append(encoded, chain[i].String())
	}
	writeJSON(w, encoded)
}

func (s *Server) handleLongestChainTx(w http.ResponseWriter, r *http.Request) {
	txns := s.cfg.Chain.LongestChainTxns()
	encoded := make([][]string, 0, len(txns))
	for _, blockTxns := range txns {
		blockEncoded := make([]string, 0, len(blockTxns))
		for i := range blockTxns {
			blockEncoded = append(blockEncoded, blockTxns[i].String())
		}
		encoded = append(encoded, blockEncoded)
	}
	writeJSON(w, encoded)
}

// stateEntry is one account row of the /blockchain/state response.
type stateEntry struct {
	Address string `json:"address"`
	Nonce   uint32 `json:"nonce"`
	Balance uint32 `json:"balance"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	blockParam := r.URL.Query().Get("block")
	blockHash := s.cfg.Chain.Tip()
	if blockParam != "" {
		parsed, err := chainhash.NewHashFromStr(blockParam)
		if err != nil {
			http.Error(w, "invalid block hash", http.StatusBadRequest)
			return
		}
		blockHash = *parsed
	}

	state, ok := s.cfg.States.State(&blockHash)
	if !ok {
		http.Error(w, "no state for block", http.StatusNotFound)
		return
	}

	entries := make([]stateEntry, 0)
	for addr, acct := range state.Accounts() {
		entries = append(entries, stateEntry{
			Address: addr.String(),
			Nonce:   acct.Nonce,
			Balance: acct.Balance,
		})
	}
	writeJSON(w, entries)
}

func (s *Server) handleMempoolStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"count": s.cfg.TxPool.Count()})
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("Websocket upgrade failed: %v", err)
		return
	}

	s.subscribersMtx.Lock()
	s.subscribers[conn] = struct{}{}
	s.subscribersMtx.Unlock()
	log.Debugf("New websocket subscriber from %s", r.RemoteAddr)
}
