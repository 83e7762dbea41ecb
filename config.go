// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultP2PListen  = "127.0.0.1:6000"
	defaultAPIListen  = "127.0.0.1:7000"
	defaultP2PWorkers = 4
)

// config defines the configuration options for emberd.
//
// See loadConfig for details on the configuration load process.
type config struct {
	P2PListen    string   `long:"p2p" description:"IP address and port of the P2P server" default:"127.0.0.1:6000"`
	APIListen    string   `long:"api" description:"IP address and port of the API server" default:"127.0.0.1:7000"`
	ConnectPeers []string `short:"c" long:"connect" description:"Peer address to connect to at start; may be repeated"`
	P2PWorkers   int      `long:"p2p-workers" description:"Number of workers draining the P2P message queue" default:"4"`
	Verbose      []bool   `short:"v" long:"verbose" description:"Increase logging verbosity (-v debug, -vv trace)"`
	LogDir       string   `long:"logdir" description:"Directory to write rotated log files to; logging is stdout-only when unset"`
	Proxy        string   `long:"proxy" description:"Connect to peers via a SOCKS5 proxy (host:port)"`
	MineEmpty    bool     `long:"mineempty" description:"Publish mined blocks that contain no transactions"`
	SimNet       bool     `long:"simnet" description:"Use the simulation test network"`
	ShowVersion  bool     `short:"V" long:"version" description:"Display version information and exit"`
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, error) {
	cfg := config{
		P2PListen:  defaultP2PListen,
		APIListen:  defaultAPIListen,
		P2PWorkers: defaultP2PWorkers,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		fmt.Printf("emberd version %s\n", version())
		os.Exit(0)
	}

	// Multiple networks can't be selected simultaneously, and the chosen
	// network decides the parameters used everywhere below.
	if cfg.SimNet {
		activeNetParams = &simNetParams
	}

	// Both listen addresses must be resolvable up front; the P2P address
	// additionally decides the node identity.
	if _, err := net.ResolveTCPAddr("tcp", cfg.P2PListen); err != nil {
		return nil, fmt.Errorf("invalid P2P listen address %q: %v",
			cfg.P2PListen, err)
	}
	if _, err := net.ResolveTCPAddr("tcp", cfg.APIListen); err != nil {
		return nil, fmt.Errorf("invalid API listen address %q: %v",
			cfg.APIListen, err)
	}

	if cfg.P2PWorkers <= 0 {
		return nil, fmt.Errorf("invalid P2P worker count %d",
			cfg.P2PWorkers)
	}

	return &cfg, nil
}
