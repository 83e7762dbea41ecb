// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"golang.org/x/crypto/ed25519"
)

const (
	// AddressSize is the size of an account address in bytes.
	AddressSize = 20

	// MaxSignatureSize is the maximum allowed size of a transaction
	// signature.  Ed25519 signatures are 64 bytes, but the field is
	// variable length on the wire, so a sane ceiling is enforced.
	MaxSignatureSize = 72

	// MaxPublicKeySize is the maximum allowed size of the public key
	// attached to a signed transaction.
	MaxPublicKeySize = 33

	// minTxPayload is the minimum size of a serialized signed
	// transaction: the 28-byte unsigned payload plus one length byte
	// each for an empty signature and public key.
	minTxPayload = unsignedTxSize + 2

	// unsignedTxSize is the size of the canonical serialization of an
	// unsigned transaction: 20-byte receiver, 4-byte value, and 4-byte
	// account nonce.
	unsignedTxSize = AddressSize + 4 + 4
)

// Transaction is the unsigned portion of an ember transaction.  It moves
// Value atoms to Receiver and consumes the sender's account nonce Nonce.
// The sender is not named explicitly; it is derived from the public key
// attached to the enclosing SignedTransaction.
type Transaction struct {
	Receiver [AddressSize]byte
	Value    uint32
	Nonce    uint32
}

// SerializeUnsigned writes the canonical serialization of the unsigned
// transaction to w.  These are the exact bytes covered by the transaction
// signature.
func (t *Transaction) SerializeUnsigned(w io.Writer) error {
	_, err := w.Write(t.Receiver[:])
	if err != nil {
		return err
	}
	err = writeElement(w, t.Value)
	if err != nil {
		return err
	}
	return writeElement(w, t.Nonce)
}

// deserializeUnsigned reads the canonical unsigned transaction encoding
// from r into the receiver.
func (t *Transaction) deserializeUnsigned(r io.Reader) error {
	_, err := io.ReadFull(r, t.Receiver[:])
	if err != nil {
		return err
	}
	err = readElement(r, &t.Value)
	if err != nil {
		return err
	}
	return readElement(r, &t.Nonce)
}

// SigBytes returns the canonical serialization of the unsigned transaction
// as a byte slice.  These are the bytes an Ed25519 signature over the
// transaction must cover.
func (t *Transaction) SigBytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, unsignedTxSize))
	_ = t.SerializeUnsigned(buf) // writing to a bytes.Buffer cannot fail
	return buf.Bytes()
}

// SignedTransaction is a transaction together with the signature over its
// canonical serialization and the public key needed to verify it.
type SignedTransaction struct {
	Transaction Transaction
	Signature   []byte
	PublicKey   []byte
}

// Serialize writes the canonical serialization of the signed transaction
// to w: the unsigned payload followed by the variable length signature and
// public key.  The transaction hash is defined over these bytes.
func (st *SignedTransaction) Serialize(w io.Writer) error {
	err := st.Transaction.SerializeUnsigned(w)
	if err != nil {
		return err
	}
	err = WriteVarBytes(w, 0, st.Signature)
	if err != nil {
		return err
	}
	return WriteVarBytes(w, 0, st.PublicKey)
}

// Deserialize reads a signed transaction from r into the receiver.
func (st *SignedTransaction) Deserialize(r io.Reader) error {
	err := st.Transaction.deserializeUnsigned(r)
	if err != nil {
		return err
	}
	st.Signature, err = ReadVarBytes(r, 0, MaxSignatureSize, "signature")
	if err != nil {
		return err
	}
	st.PublicKey, err = ReadVarBytes(r, 0, MaxPublicKeySize, "public key")
	return err
}

// SerializeSize returns the number of bytes it would take to serialize the
// signed transaction.
func (st *SignedTransaction) SerializeSize() int {
	return unsignedTxSize +
		VarIntSerializeSize(uint64(len(st.Signature))) + len(st.Signature) +
		VarIntSerializeSize(uint64(len(st.PublicKey))) + len(st.PublicKey)
}

// TxHash generates the hash of the transaction: the SHA-256 digest of the
// canonical serialization of the signed transaction.  Since the signature
// and public key are covered, two identically shaped transactions signed
// by different keys hash differently.
func (st *SignedTransaction) TxHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, st.SerializeSize()))
	_ = st.Serialize(buf)
	return chainhash.Hash(sha256.Sum256(buf.Bytes()))
}

// VerifySignature reports whether the attached signature is a valid
// Ed25519 signature by the attached public key over the canonical
// serialization of the unsigned transaction.
func (st *SignedTransaction) VerifySignature() bool {
	if len(st.PublicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(st.PublicKey),
		st.Transaction.SigBytes(), st.Signature)
}

// SignTransaction signs the canonical serialization of the unsigned
// transaction with the provided key and returns the resulting signed
// transaction carrying the signature and the signing public key.
func SignTransaction(t *Transaction, key ed25519.PrivateKey) *SignedTransaction {
	return &SignedTransaction{
		Transaction: *t,
		Signature:   ed25519.Sign(key, t.SigBytes()),
		PublicKey:   append([]byte(nil), key.Public().(ed25519.PublicKey)...),
	}
}

// String returns a short human readable form of the transaction for logs.
func (st *SignedTransaction) String() string {
	h := st.TxHash()
	return fmt.Sprintf("%v (value %d, nonce %d)", h, st.Transaction.Value,
		st.Transaction.Nonce)
}
