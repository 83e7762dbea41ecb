// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// TestGenesisBlock tests the genesis block of the main network for validity
// by checking the encoded bytes and hashes.
func TestGenesisBlock(t *testing.T) {
	genesisBlockBytes, _ := hex.DecodeString(
		"00000000000000000000000000000000" +
			"00000000000000000000000000000000" +
			"000000000000ffffffffffffffffffff" +
			"ffffffffffffffffffffffffffffffff" +
			"ffffffff000000000000000000000000" +
			"00000000000000000000000000000000" +
			"00000000000000000000000000000000" +
			"0000000000")

	// Encode the genesis block to raw bytes.
	var buf bytes.Buffer
	err := MainNetParams.GenesisBlock.Serialize(&buf)
	if err != nil {
		t.Fatalf("TestGenesisBlock: %v", err)
	}

	// Ensure the encoded block matches the expected bytes.
	if !bytes.Equal(buf.Bytes(), genesisBlockBytes) {
		t.Fatalf("TestGenesisBlock: Genesis block does not appear valid - "+
			"got %v, want %v", spew.Sdump(buf.Bytes()),
			spew.Sdump(genesisBlockBytes))
	}

	// Check hash of the block against expected hash.
	hash := MainNetParams.GenesisBlock.BlockHash()
	if !MainNetParams.GenesisHash.IsEqual(&hash) {
		t.Fatalf("TestGenesisBlock: Genesis block hash does not "+
			"appear valid - got %v, want %v", spew.Sdump(hash),
			spew.Sdump(MainNetParams.GenesisHash))
	}
}

// TestNodeSeed ensures the well-known bootstrap listen addresses map to the
// expected seeds and that any other address has no identity.
func TestNodeSeed(t *testing.T) {
	tests := []struct {
		addr     string
		wantSeed byte
		wantOK   bool
	}{
		{"127.0.0.1:6000", 0x00, true},
		{"127.0.0.1:6001", 0x01, true},
		{"127.0.0.1:6002", 0x02, true},
		{"127.0.0.1:6003", 0x00, false},
		{"10.0.0.1:6000", 0x00, false},
	}

	for _, test := range tests {
		seed, ok := MainNetParams.NodeSeed(test.addr)
		if ok != test.wantOK {
			t.Errorf("NodeSeed(%q): got ok %v, want %v", test.addr, ok,
				test.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if len(seed) != 32 || seed[0] != test.wantSeed {
			t.Errorf("NodeSeed(%q): unexpected seed %x", test.addr, seed)
		}
	}
}
