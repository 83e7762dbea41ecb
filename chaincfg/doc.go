// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines chain configuration parameters.
//
// In addition to the main ember network, which is intended for the transfer
// of monetary value, there is currently a simulation test network reserved
// for integration testing.  The chaincfg package defines, per network, the
// genesis block, the chain-wide proof of work difficulty, the bootstrap
// accounts credited at genesis, and the well-known node identities those
// accounts sign with.
package chaincfg
