// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/emberchain/emberd/chaincfg"
)

// activeNetParams is a pointer to the parameters specific to the currently
// active ember network.
var activeNetParams = &mainNetParams

// params is used to group parameters for various networks such as the main
// network and test networks.
type params struct {
	*chaincfg.Params
	apiPort string
}

// mainNetParams contains parameters specific to the main network.  The API
// port is not a chain parameter: two nodes of the same chain routinely run
// their control APIs on different ports, so it only provides the default.
var mainNetParams = params{
	Params:  &chaincfg.MainNetParams,
	apiPort: "7000",
}

// simNetParams contains parameters specific to the simulation test
// network.
var simNetParams = params{
	Params:  &chaincfg.SimNetParams,
	apiPort: "17000",
}
