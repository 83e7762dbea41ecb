// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// testBlock returns a block with one transaction, suitable for exercising
// the codec.
func testBlock() *Block {
	tx := SignedTransaction{
		Transaction: Transaction{
			Receiver: [AddressSize]byte{0x01, 0x02, 0x03},
			Value:    500,
			Nonce:    1,
		},
		Signature: bytes.Repeat([]byte{0x05}, 64),
		PublicKey: bytes.Repeat([]byte{0x06}, 32),
	}
	return &Block{
		Header: BlockHeader{
			Parent:     chainhash.Hash{0x11},
			Nonce:      0xcafebabe,
			Difficulty: chainhash.Hash{0x00, 0x00, 0xff},
			Timestamp:  1700000000000,
			MerkleRoot: chainhash.Hash{0x22},
		},
		Transactions: []SignedTransaction{tx},
	}
}

// TestMessageRoundTrip ensures every protocol message survives a write
// and read through the framed wire encoding.
func TestMessageRoundTrip(t *testing.T) {
	hashes := []chainhash.Hash{{0x01}, {0x02}}
	block := testBlock()

	tests := []Message{
		NewMsgPing(0xdeadbeef),
		NewMsgPong("3735928559"),
		NewMsgNewBlockHashes(hashes),
		NewMsgGetBlocks(hashes),
		NewMsgBlocks([]Block{*block}),
		NewMsgNewTxHashes(hashes),
		NewMsgGetTransactions(hashes),
		NewMsgTransactions(block.Transactions),
	}

	for _, msg := range tests {
		var buf bytes.Buffer
		err := WriteMessage(&buf, msg, ProtocolVersion, MainNet)
		if err != nil {
			t.Errorf("%s: WriteMessage: %v", msg.Command(), err)
			continue
		}

		decoded, err := ReadMessage(&buf, ProtocolVersion, MainNet)
		if err != nil {
			t.Errorf("%s: ReadMessage: %v", msg.Command(), err)
			continue
		}
		if !reflect.DeepEqual(msg, decoded) {
			t.Errorf("%s: round trip mismatch - got %v, want %v",
				msg.Command(), spew.Sdump(decoded), spew.Sdump(msg))
		}
	}
}

// TestMessageWrongNetwork ensures frames from another network are
// rejected with a recoverable message error that consumes the frame.
func TestMessageWrongNetwork(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMessage(&buf, NewMsgPing(1), ProtocolVersion, SimNet)
	if err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	_, err = ReadMessage(&buf, ProtocolVersion, MainNet)
	var msgErr *MessageError
	if !errors.As(err, &msgErr) {
		t.Fatalf("unexpected error type - got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("frame not fully consumed - %d bytes left", buf.Len())
	}
}

// TestMessageBadChecksum ensures payload corruption is detected.
func TestMessageBadChecksum(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMessage(&buf, NewMsgPing(1), ProtocolVersion, MainNet)
	if err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	// Flip a payload byte past the 24-byte header.
	frame := buf.Bytes()
	frame[MessageHeaderSize] ^= 0x01

	_, err = ReadMessage(bytes.NewReader(frame), ProtocolVersion, MainNet)
	var msgErr *MessageError
	if !errors.As(err, &msgErr) {
		t.Fatalf("corrupted payload not rejected - got %v", err)
	}
}

// TestMessageUnknownCommand ensures frames carrying an unknown command
// are rejected after consuming the payload.
func TestMessageUnknownCommand(t *testing.T) {
	var buf bytes.Buffer
	writeElement(&buf, uint32(MainNet))
	var cmd [CommandSize]byte
	copy(cmd[:], "bogus")
	buf.Write(cmd[:])
	writeElement(&buf, uint32(0))
	cksum := checksum(nil)
	buf.Write(cksum[:])

	_, err := ReadMessage(&buf, ProtocolVersion, MainNet)
	var msgErr *MessageError
	if !errors.As(err, &msgErr) {
		t.Fatalf("unknown command not rejected - got %v", err)
	}
}

// TestBlockHeaderTimestampRange ensures 128-bit timestamps with high bits
// set are rejected on decode.
func TestBlockHeaderTimestampRange(t *testing.T) {
	var buf bytes.Buffer
	header := testBlock().Header
	if err := header.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// The timestamp occupies bytes 68..84 of the header; set a high
	// byte.
	raw := buf.Bytes()
	raw[68+12] = 0x01

	var decoded BlockHeader
	err := decoded.Deserialize(bytes.NewReader(raw))
	if err == nil {
		t.Fatal("timestamp with high bits set accepted")
	}
}

// TestBlockSerializationSize ensures SerializeSize agrees with the actual
// encoding.
func TestBlockSerializationSize(t *testing.T) {
	block := testBlock()

	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != block.SerializeSize() {
		t.Fatalf("SerializeSize mismatch - got %d, want %d",
			block.SerializeSize(), buf.Len())
	}

	var decoded Block
	if err := decoded.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if decoded.BlockHash() != block.BlockHash() {
		t.Fatal("round trip changed the block hash")
	}
}
