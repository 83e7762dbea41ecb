// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/emberchain/emberd/blockchain"
	"github.com/emberchain/emberd/generator"
	"github.com/emberchain/emberd/internal/apiserver"
	"github.com/emberchain/emberd/mempool"
	"github.com/emberchain/emberd/mining"
	"github.com/emberchain/emberd/netsync"
	"golang.org/x/crypto/ed25519"
)

// emberdMain is the real main function for emberd.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit is
// called.
func emberdMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize logging: always to stdout, additionally to a rotated
	// log file when a log directory is configured.
	if cfg.LogDir != "" {
		initLogRotator(filepath.Join(cfg.LogDir, "emberd.log"))
		defer logRotator.Close()
	}
	setLogLevels(verbosityLevel(len(cfg.Verbose)))

	embrLog.Infof("Version %s", version())

	// The node identity is decided by the P2P listen address: only the
	// well-known bootstrap addresses carry one of the genesis account
	// keys.
	seed, ok := activeNetParams.NodeSeed(cfg.P2PListen)
	if !ok {
		return fmt.Errorf("P2P listen address %q has no node identity on "+
			"%s", cfg.P2PListen, activeNetParams.Name)
	}
	nodeKey := ed25519.NewKeyFromSeed(seed)

	// Shared stores: the block tree, the per-block account states, and
	// the mempool.
	chain := blockchain.New(activeNetParams.Params)
	states := blockchain.NewStatePerBlock(activeNetParams.Params)
	txPool := mempool.New()
	embrLog.Infof("Genesis block %v, difficulty %v",
		activeNetParams.GenesisHash, activeNetParams.PowLimit)

	// Sync manager: the protocol workers draining the shared peer
	// message queue.  The peer notifier is filled in below once the
	// server exists.
	syncCfg := netsync.Config{
		ChainParams: activeNetParams.Params,
		Chain:       chain,
		TxPool:      txPool,
		States:      states,
		NumWorkers:  cfg.P2PWorkers,
	}

	srv, err := newServer(cfg, activeNetParams)
	if err != nil {
		return err
	}
	syncCfg.PeerNotifier = srv
	syncManager := netsync.New(&syncCfg)
	srv.syncManager = syncManager

	// Miner and its commit worker.
	miningCfg := mining.Config{
		ChainParams:     activeNetParams.Params,
		Chain:           chain,
		TxPool:          txPool,
		States:          states,
		PeerNotifier:    srv,
		MineEmptyBlocks: cfg.MineEmpty,
	}
	miner := mining.NewMiner(&miningCfg)
	miningWorker := mining.NewWorker(&miningCfg, miner)

	// Transaction generator funded by the node identity.
	txGenerator := generator.New(&generator.Config{
		ChainParams:  activeNetParams.Params,
		Chain:        chain,
		TxPool:       txPool,
		States:       states,
		PeerNotifier: srv,
		NodeKey:      nodeKey,
	})

	// Control API.
	api := apiserver.New(&apiserver.Config{
		Listen:      cfg.APIListen,
		ChainParams: activeNetParams.Params,
		Chain:       chain,
		TxPool:      txPool,
		States:      states,
		Miner:       miner,
		TxGenerator: txGenerator,
	})
	srv.blockNotify = api.NotifyNewBlocks

	// Launch everything.  The miner starts paused; the control API
	// drives it.
	syncManager.Start()
	go miner.Run()
	go miningWorker.Run()
	srv.Start(cfg.ConnectPeers)
	if err := api.Start(); err != nil {
		return err
	}

	// Block until terminated.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	embrLog.Info("Shutting down...")
	api.Shutdown()
	txGenerator.Stop()
	miner.Shutdown()
	miningWorker.Stop()
	srv.Stop()
	syncManager.Stop()
	embrLog.Info("Shutdown complete")
	return nil
}

func main() {
	if err := emberdMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
