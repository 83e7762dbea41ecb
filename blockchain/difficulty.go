// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/math/uint256"
)

// HashToUint256 converts the provided hash to an unsigned 256-bit integer
// that can be used to perform math comparisons.  The bytes are interpreted
// in big endian order, which makes the integer order coincide with the
// lexicographic order on the raw hash bytes.
func HashToUint256(hash *chainhash.Hash) uint256.Uint256 {
	var n uint256.Uint256
	n.SetBytes((*[32]byte)(hash))
	return n
}

// CheckProofOfWork reports whether the given block hash satisfies the given
// difficulty target, meaning the hash is numerically less than or equal to
// the target when both are interpreted as 256-bit big endian integers.
func CheckProofOfWork(blockHash, target *chainhash.Hash) bool {
	hashNum := HashToUint256(blockHash)
	targetNum := HashToUint256(target)
	return hashNum.LtEq(&targetNum)
}
