// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/emberchain/emberd/chaincfg"
	"github.com/emberchain/emberd/emberutil"
	"github.com/emberchain/emberd/wire"
	"golang.org/x/crypto/ed25519"
)

// AccountState is the ledger entry for a single account: the number of
// transactions the account has sent and its spendable balance.
type AccountState struct {
	Nonce   uint32
	Balance uint32
}

// State is a snapshot of all account states at a particular block.  It is a
// plain value with no internal locking; ownership is transferred by
// cloning.
type State struct {
	accounts map[emberutil.Address]AccountState
}

// NewState returns an empty state with no accounts.
func NewState() State {
	return State{accounts: make(map[emberutil.Address]AccountState)}
}

// NewGenesisState returns the deterministic state every chain starts from:
// one account per bootstrap seed of the provided chain parameters, each
// credited the bootstrap balance with a zero nonce.
func NewGenesisState(chainParams *chaincfg.Params) State {
	state := NewState()
	for _, seed := range chainParams.BootstrapSeeds {
		priv := ed25519.NewKeyFromSeed(seed)
		addr := emberutil.NewAddressPubKey(priv.Public().(ed25519.PublicKey))
		state.AddAccount(addr, chaincfg.BootstrapBalance)
	}
	return state
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	accounts := make(map[emberutil.Address]AccountState, len(s.accounts))
	for addr, acct := range s.accounts {
		accounts[addr] = acct
	}
	return State{accounts: accounts}
}

// Exists returns whether or not the given account is present in the state.
func (s State) Exists(addr emberutil.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

// Balance returns the balance of the given account.  Missing accounts have
// a zero balance.
func (s State) Balance(addr emberutil.Address) uint32 {
	return s.accounts[addr].Balance
}

// Nonce returns the nonce of the given account.  Missing accounts have a
// zero nonce.
func (s State) Nonce(addr emberutil.Address) uint32 {
	return s.accounts[addr].Nonce
}

// Accounts returns a copy of every account entry in the state.
func (s State) Accounts() map[emberutil.Address]AccountState {
	return s.Clone().accounts
}

// AddAccount creates an account with the given balance and a zero nonce,
// replacing any existing entry for the address.
func (s State) AddAccount(addr emberutil.Address, balance uint32) {
	s.accounts[addr] = AccountState{Nonce: 0, Balance: balance}
}

// Apply transfers the transaction value from the sender, derived from the
// attached public key, to the receiver, and increments the sender nonce.
// Both accounts must be present and the sender balance must cover the
// value; otherwise the state is left untouched and an error with kind
// ErrInvalidApplication is returned.
func (s State) Apply(tx *wire.SignedTransaction) error {
	sender := emberutil.NewAddressPubKey(tx.PublicKey)
	receiver := emberutil.Address(tx.Transaction.Receiver)

	senderState, ok := s.accounts[sender]
	if !ok {
		str := fmt.Sprintf("unknown sender account %v", sender)
		return ruleError(ErrInvalidApplication, str)
	}
	if !s.Exists(receiver) {
		str := fmt.Sprintf("unknown receiver account %v", receiver)
		return ruleError(ErrInvalidApplication, str)
	}
	value := tx.Transaction.Value
	if senderState.Balance < value {
		str := fmt.Sprintf("account %v balance %d is less than spent "+
			"value %d", sender, senderState.Balance, value)
		return ruleError(ErrInvalidApplication, str)
	}

	receiverState := s.accounts[receiver]
	senderState.Nonce++
	senderState.Balance -= value
	receiverState.Balance += value
	s.accounts[sender] = senderState
	s.accounts[receiver] = receiverState
	return nil
}

// StatePerBlock tracks one state snapshot per block of the block tree,
// keyed by block hash.  Snapshots are derived deterministically: the state
// of a block is the state of its parent with the block's transactions
// applied in order.
//
// All functions are safe for concurrent access.
type StatePerBlock struct {
	mtx    sync.RWMutex
	states map[chainhash.Hash]State
}

// NewStatePerBlock returns a StatePerBlock holding the genesis state of
// the provided chain parameters at the genesis block hash.
func NewStatePerBlock(chainParams *chaincfg.Params) *StatePerBlock {
	states := make(map[chainhash.Hash]State)
	states[chainParams.GenesisHash] = NewGenesisState(chainParams)
	return &StatePerBlock{states: states}
}

// State returns a copy of the state snapshot recorded for the given block
// hash.
func (spb *StatePerBlock) State(hash *chainhash.Hash) (State, bool) {
	spb.mtx.RLock()
	defer spb.mtx.RUnlock()

	state, ok := spb.states[*hash]
	if !ok {
		return State{}, false
	}
	return state.Clone(), true
}

// Exists returns whether or not a state snapshot is recorded for the given
// block hash.
func (spb *StatePerBlock) Exists(hash *chainhash.Hash) bool {
	spb.mtx.RLock()
	defer spb.mtx.RUnlock()

	_, ok := spb.states[*hash]
	return ok
}

// UpdateWithBlock derives and records the state snapshot for the provided
// block by cloning the parent snapshot and applying the block transactions
// in order.  The parent snapshot must exist and the block must not already
// have one.  Receiver accounts that do not exist yet are created with a
// zero balance before the transfer; the block is required to have been
// validated against the parent state beforehand, so any application
// failure here indicates a caller contract violation and aborts the
// update, leaving no snapshot recorded.
func (spb *StatePerBlock) UpdateWithBlock(block *wire.Block) error {
	blockHash := block.BlockHash()

	spb.mtx.Lock()
	defer spb.mtx.Unlock()

	if _, ok := spb.states[blockHash]; ok {
		str := fmt.Sprintf("state for block %v already recorded", blockHash)
		return ruleError(ErrDuplicateState, str)
	}
	parentState, ok := spb.states[block.Header.Parent]
	if !ok {
		str := fmt.Sprintf("no state for parent %v of block %v",
			block.Header.Parent, blockHash)
		return ruleError(ErrUnknownParent, str)
	}

	state := parentState.Clone()
	for i := range block.Transactions {
		tx := &block.Transactions[i]

		receiver := emberutil.Address(tx.Transaction.Receiver)
		if !state.Exists(receiver) {
			state.AddAccount(receiver, 0)
		}

		if err := state.Apply(tx); err != nil {
			return err
		}
	}

	spb.states[blockHash] = state
	return nil
}
