// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/wire"
)

// genesisDifficulty is the chain-wide difficulty target: a block hash must
// be numerically less than or equal to this value when both are interpreted
// as 256-bit big endian integers.  The two leading zero bytes make a valid
// hash a roughly 1-in-65536 event.
var genesisDifficulty = chainhash.Hash{
	0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// genesisBlock defines the genesis block of the block chain which serves as
// the root of the block tree.  Every field is fixed so all nodes construct
// the identical block independently.
var genesisBlock = wire.Block{
	Header: wire.BlockHeader{
		Parent:     chainhash.Hash{}, // All zero.
		Nonce:      0,
		Difficulty: genesisDifficulty,
		Timestamp:  0,
		MerkleRoot: chainhash.Hash{}, // All zero.
	},
	Transactions: nil,
}

// genesisHash is the hash of the genesis block: the SHA-256 digest of its
// serialized header.
var genesisHash = chainhash.Hash{
	0x3a, 0x72, 0xd8, 0xe8, 0xc9, 0x1c, 0x82, 0x05,
	0x65, 0x6f, 0x5f, 0x5a, 0x8b, 0x4c, 0xfe, 0x3f,
	0xd0, 0xdf, 0x08, 0x49, 0xb1, 0x3c, 0xb1, 0xf3,
	0xfb, 0x05, 0xbe, 0xac, 0x97, 0xc2, 0x6d, 0xf5,
}
