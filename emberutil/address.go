// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package emberutil

import (
	"crypto/sha256"
	"errors"

	"github.com/decred/base58"
	"golang.org/x/crypto/ed25519"
)

// AddressSize is the size of an account address in bytes.
const AddressSize = 20

// ErrMalformedAddress describes an address that is not a valid encoding of
// a 20-byte account identifier.
var ErrMalformedAddress = errors.New("malformed address")

// Address is a 20-byte account identifier derived from the account's
// Ed25519 public key.
type Address [AddressSize]byte

// NewAddressPubKey returns the address for the provided serialized Ed25519
// public key: the final 20 bytes of its SHA-256 digest.
func NewAddressPubKey(pubKey []byte) Address {
	digest := sha256.Sum256(pubKey)

	var addr Address
	copy(addr[:], digest[sha256.Size-AddressSize:])
	return addr
}

// String returns the base58 encoding of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// DecodeAddress decodes the base58 string form of an address produced by
// String.
func DecodeAddress(s string) (Address, error) {
	decoded := base58.Decode(s)
	if len(decoded) != AddressSize {
		return Address{}, ErrMalformedAddress
	}

	var addr Address
	copy(addr[:], decoded)
	return addr, nil
}

// KeyAddress is a convenience wrapper that derives the address for an
// Ed25519 public key.
func KeyAddress(pubKey ed25519.PublicKey) Address {
	return NewAddressPubKey(pubKey)
}
