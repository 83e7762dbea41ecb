// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"bytes"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/wire"
	"golang.org/x/crypto/ed25519"
)

// BootstrapBalance is the balance every bootstrap account is credited with
// at genesis.
const BootstrapBalance uint32 = 10000

// Params defines an ember network by its parameters.  These parameters may
// be used by ember applications to differentiate networks as well as
// addresses and keys for one network from those intended for use on another
// network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.EmberNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// PowLimit is the chain-wide difficulty target.  Every block on the
	// chain carries this exact difficulty; there is no retargeting.
	PowLimit chainhash.Hash

	// GenesisBlock defines the first block of the chain.  It is
	// deterministic and identical across all nodes.
	GenesisBlock *wire.Block

	// GenesisHash is the genesis block hash.
	GenesisHash chainhash.Hash

	// BootstrapSeeds are the Ed25519 seeds of the accounts credited at
	// genesis.  The account addresses are derived from the public keys
	// of these seeds, so the genesis state is deterministic too.
	BootstrapSeeds [][]byte

	// nodeSeedAddrs maps well-known P2P listen addresses to the index of
	// the bootstrap seed that node signs with.
	nodeSeedAddrs map[string]int
}

// MainNetParams defines the network parameters for the main ember network.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         wire.MainNet,
	DefaultPort: "6000",

	// Chain parameters
	GenesisBlock: &genesisBlock,
	GenesisHash:  genesisHash,
	PowLimit:     genesisDifficulty,

	// Genesis account parameters
	BootstrapSeeds: [][]byte{
		bytes.Repeat([]byte{0x00}, ed25519.SeedSize),
		bytes.Repeat([]byte{0x01}, ed25519.SeedSize),
		bytes.Repeat([]byte{0x02}, ed25519.SeedSize),
	},
	nodeSeedAddrs: map[string]int{
		"127.0.0.1:6000": 0,
		"127.0.0.1:6001": 1,
		"127.0.0.1:6002": 2,
	},
}

// SimNetParams defines the network parameters for the simulation test
// network.  It shares the genesis block and bootstrap accounts with the
// main network but uses a distinct magic so frames from the two networks
// never mix.
var SimNetParams = Params{
	Name:        "simnet",
	Net:         wire.SimNet,
	DefaultPort: "16000",

	// Chain parameters
	GenesisBlock: &genesisBlock,
	GenesisHash:  genesisHash,
	PowLimit:     genesisDifficulty,

	// Genesis account parameters
	BootstrapSeeds: [][]byte{
		bytes.Repeat([]byte{0x00}, ed25519.SeedSize),
		bytes.Repeat([]byte{0x01}, ed25519.SeedSize),
		bytes.Repeat([]byte{0x02}, ed25519.SeedSize),
	},
	nodeSeedAddrs: map[string]int{
		"127.0.0.1:16000": 0,
		"127.0.0.1:16001": 1,
		"127.0.0.1:16002": 2,
	},
}

// NodeSeed returns the Ed25519 seed a node listening on the provided P2P
// address identifies itself with.  Only the well-known bootstrap listen
// addresses have an identity; all other addresses return false.
func (p *Params) NodeSeed(p2pAddr string) ([]byte, bool) {
	idx, ok := p.nodeSeedAddrs[p2pAddr]
	if !ok {
		return nil, false
	}
	return p.BootstrapSeeds[idx], true
}
