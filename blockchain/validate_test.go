// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/wire"
)

// TestCheckProofOfWork ensures hash-to-target comparisons treat the bytes
// as 256-bit big endian integers with ties counting as satisfied.
func TestCheckProofOfWork(t *testing.T) {
	tests := []struct {
		name   string
		hash   chainhash.Hash
		target chainhash.Hash
		want   bool
	}{{
		name:   "hash below target",
		hash:   chainhash.Hash{0x00, 0x00, 0x01},
		target: testParams.PowLimit,
		want:   true,
	}, {
		name:   "hash equal to target",
		hash:   testParams.PowLimit,
		target: testParams.PowLimit,
		want:   true,
	}, {
		name:   "hash above target in leading byte",
		hash:   chainhash.Hash{0x01},
		target: testParams.PowLimit,
		want:   false,
	}, {
		name:   "hash above target in trailing byte",
		hash:   chainhash.Hash{31: 0x01},
		target: chainhash.Hash{},
		want:   false,
	}}

	for _, test := range tests {
		if got := CheckProofOfWork(&test.hash, &test.target); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

// TestCheckBlockProofOfWork ensures blocks whose hash exceeds their
// declared difficulty are rejected.
func TestCheckBlockProofOfWork(t *testing.T) {
	genesisHash := testParams.GenesisHash

	block := makeTestBlock(&genesisHash, nil)
	block.Header.Difficulty = testParams.PowLimit
	solveTestBlock(block)
	if err := CheckBlockProofOfWork(block); err != nil {
		t.Fatalf("solved block rejected: %v", err)
	}

	// An all-zero target is unsatisfiable for any real block hash.
	block.Header.Difficulty = chainhash.Hash{}
	err := CheckBlockProofOfWork(block)
	if !errors.Is(err, ErrInvalidProofOfWork) {
		t.Fatalf("unexpected error - got %v, want %v", err,
			ErrInvalidProofOfWork)
	}
}

// TestCheckBlockDifficulty ensures a block must inherit its parent's
// difficulty unchanged.
func TestCheckBlockDifficulty(t *testing.T) {
	genesisHash := testParams.GenesisHash
	parent := testParams.GenesisBlock

	block := makeTestBlock(&genesisHash, nil)
	block.Header.Difficulty = parent.Header.Difficulty
	if err := CheckBlockDifficulty(block, parent); err != nil {
		t.Fatalf("inherited difficulty rejected: %v", err)
	}

	block.Header.Difficulty = maxTarget
	err := CheckBlockDifficulty(block, parent)
	if !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("unexpected error - got %v, want %v", err,
			ErrInvalidDifficulty)
	}
}

// TestCheckBlockTransactions ensures transaction validation enforces the
// signature, the sender balance as of the parent state, and nonce
// continuity.
func TestCheckBlockTransactions(t *testing.T) {
	genesisHash := testParams.GenesisHash
	receiver := testKeyAddress(0x01)

	tests := []struct {
		name    string
		mutate  func(*wire.SignedTransaction)
		tx      wire.SignedTransaction
		wantErr error
	}{{
		name: "valid transaction",
		tx:   makeTestTx(0x00, receiver, 100, 1),
	}, {
		name: "corrupted signature",
		tx:   makeTestTx(0x00, receiver, 100, 1),
		mutate: func(tx *wire.SignedTransaction) {
			tx.Signature[0] ^= 0x01
		},
		wantErr: ErrInvalidTransaction,
	}, {
		name: "corrupted value",
		tx:   makeTestTx(0x00, receiver, 100, 1),
		mutate: func(tx *wire.SignedTransaction) {
			tx.Transaction.Value++
		},
		wantErr: ErrInvalidTransaction,
	}, {
		name:    "value exceeds balance",
		tx:      makeTestTx(0x00, receiver, 10001, 1),
		wantErr: ErrInvalidTransaction,
	}, {
		name:    "nonce too low",
		tx:      makeTestTx(0x00, receiver, 100, 0),
		wantErr: ErrInvalidTransaction,
	}, {
		name:    "nonce too high",
		tx:      makeTestTx(0x00, receiver, 100, 2),
		wantErr: ErrInvalidTransaction,
	}, {
		name:    "unknown sender",
		tx:      makeTestTx(0x08, receiver, 1, 1),
		wantErr: ErrInvalidTransaction,
	}}

	parentState := NewGenesisState(testParams)
	for _, test := range tests {
		tx := test.tx
		if test.mutate != nil {
			test.mutate(&tx)
		}
		block := makeTestBlock(&genesisHash, []wire.SignedTransaction{tx})

		err := CheckBlockTransactions(block, parentState)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: unexpected error - got %v, want %v", test.name,
				err, test.wantErr)
		}
	}
}
