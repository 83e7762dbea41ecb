// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"math/rand"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/chaincfg"
	"github.com/emberchain/emberd/emberutil"
	"github.com/emberchain/emberd/wire"
	"golang.org/x/crypto/ed25519"
)

// testParams are the chain parameters the package tests run against.
var testParams = &chaincfg.MainNetParams

// maxTarget is a difficulty target every hash satisfies.  Test blocks
// declare it so they need no mining.
var maxTarget = chainhash.Hash{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// testKey returns the deterministic Ed25519 key for a seed filled with the
// provided byte.  Seeds 0x00 through 0x02 are the bootstrap accounts.
func testKey(seed byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
}

// testKeyAddress returns the account address of testKey(seed).
func testKeyAddress(seed byte) emberutil.Address {
	priv := testKey(seed)
	return emberutil.NewAddressPubKey(priv.Public().(ed25519.PublicKey))
}

// makeTestTx builds a transaction from the account of senderSeed to the
// provided receiver and signs it.
func makeTestTx(senderSeed byte, receiver emberutil.Address, value,
	nonce uint32) wire.SignedTransaction {

	tx := wire.Transaction{
		Receiver: receiver,
		Value:    value,
		Nonce:    nonce,
	}
	return *wire.SignTransaction(&tx, testKey(senderSeed))
}

// makeTestBlock builds a block on the provided parent carrying the given
// transactions.  The block declares the always-satisfied difficulty target
// so it needs no mining; use a real target and solveTestBlock when proof
// of work matters.
func makeTestBlock(parent *chainhash.Hash, txns []wire.SignedTransaction) *wire.Block {
	return &wire.Block{
		Header: wire.BlockHeader{
			Parent:     *parent,
			Nonce:      rand.Uint32(),
			Difficulty: maxTarget,
			Timestamp:  1700000000000,
			MerkleRoot: CalcTxMerkleRoot(txns),
		},
		Transactions: txns,
	}
}

// solveTestBlock searches nonces until the block hash satisfies the
// difficulty target declared in the block header.
func solveTestBlock(block *wire.Block) {
	for {
		blockHash := block.BlockHash()
		if CheckProofOfWork(&blockHash, &block.Header.Difficulty) {
			return
		}
		block.Header.Nonce++
	}
}
