// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/emberchain/emberd/emberutil"
	"github.com/emberchain/emberd/wire"
)

// CheckBlockProofOfWork ensures the hash of the provided block satisfies
// the difficulty target declared in its own header.
func CheckBlockProofOfWork(block *wire.Block) error {
	blockHash := block.BlockHash()
	if !CheckProofOfWork(&blockHash, &block.Header.Difficulty) {
		str := fmt.Sprintf("block %v hash exceeds its difficulty target",
			blockHash)
		return ruleError(ErrInvalidProofOfWork, str)
	}
	return nil
}

// CheckBlockDifficulty ensures the difficulty declared by the provided
// block matches the difficulty of its parent.  The chain carries a single
// constant difficulty, so every block must inherit it unchanged.
func CheckBlockDifficulty(block, parent *wire.Block) error {
	if block.Header.Difficulty != parent.Header.Difficulty {
		str := fmt.Sprintf("block %v declares difficulty that differs "+
			"from its parent", block.BlockHash())
		return ruleError(ErrInvalidDifficulty, str)
	}
	return nil
}

// CheckBlockTransactions validates every transaction of the provided block
// against the state of its parent: the signature must verify, the sender
// balance as of the parent state must cover the value, and the transaction
// nonce must be exactly one past the sender nonce as of the parent state.
//
// Note the checks run against the unmodified parent state for every
// transaction, mirroring acceptance across the network: two transactions
// spending the same account in one block are checked independently.
func CheckBlockTransactions(block *wire.Block, parentState State) error {
	for i := range block.Transactions {
		tx := &block.Transactions[i]
		if !tx.VerifySignature() {
			str := fmt.Sprintf("transaction %v has an invalid signature",
				tx.TxHash())
			return ruleError(ErrInvalidTransaction, str)
		}

		sender := emberutil.NewAddressPubKey(tx.PublicKey)
		if parentState.Balance(sender) < tx.Transaction.Value {
			str := fmt.Sprintf("transaction %v spends %d but sender %v "+
				"only has %d", tx.TxHash(), tx.Transaction.Value, sender,
				parentState.Balance(sender))
			return ruleError(ErrInvalidTransaction, str)
		}
		if parentState.Nonce(sender)+1 != tx.Transaction.Nonce {
			str := fmt.Sprintf("transaction %v has nonce %d, expected %d",
				tx.TxHash(), tx.Transaction.Nonce,
				parentState.Nonce(sender)+1)
			return ruleError(ErrInvalidTransaction, str)
		}
	}
	return nil
}
