// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	// ProtocolVersion is the current latest supported protocol version.
	ProtocolVersion uint32 = 1

	// MessageHeaderSize is the number of bytes in an ember message header.
	// It consists of the network magic (4 bytes), command (12 bytes),
	// payload length (4 bytes), and payload checksum (4 bytes).
	MessageHeaderSize = 24

	// CommandSize is the fixed size of all commands in the common message
	// header.  Shorter commands must be zero padded.
	CommandSize = 12

	// MaxMessagePayload is the maximum bytes a message can be regardless
	// of other individual limits imposed by messages themselves.
	MaxMessagePayload = 1024 * 1024 * 8 // 8MB

	// MaxHashesPerMsg is the maximum number of hashes an announce or
	// request vector may carry.
	MaxHashesPerMsg = 2000
)

// EmberNet represents which ember network a message belongs to.  Peers on
// different networks silently drop each other's frames.
type EmberNet uint32

// Constants used to indicate the ember network.
const (
	// MainNet represents the main ember network.
	MainNet EmberNet = 0xe5b17a0d

	// SimNet represents the simulation test network.
	SimNet EmberNet = 0xe5b17a5e
)

// String returns the EmberNet in human-readable form.
func (n EmberNet) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case SimNet:
		return "simnet"
	}
	return fmt.Sprintf("unknown network %08x", uint32(n))
}

// Commands used in ember message headers which describe the type of message.
const (
	CmdPing            = "ping"
	CmdPong            = "pong"
	CmdNewBlockHashes  = "newblkhashes"
	CmdGetBlocks       = "getblocks"
	CmdBlocks          = "blocks"
	CmdNewTxHashes     = "newtxhashes"
	CmdGetTransactions = "gettxns"
	CmdTransactions    = "txns"
)

// Message is an interface that describes an ember message.  A type that
// implements Message has complete control over the representation of its
// data and may therefore contain additional or fewer fields than those which
// are used directly in the protocol encoded message.
type Message interface {
	EmberDecode(io.Reader, uint32) error
	EmberEncode(io.Writer, uint32) error
	Command() string
	MaxPayloadLength(uint32) uint32
}

// makeEmptyMessage creates a message of the appropriate concrete type based
// on the command.
func makeEmptyMessage(command string) (Message, error) {
	var msg Message
	switch command {
	case CmdPing:
		msg = &MsgPing{}
	case CmdPong:
		msg = &MsgPong{}
	case CmdNewBlockHashes:
		msg = &MsgNewBlockHashes{}
	case CmdGetBlocks:
		msg = &MsgGetBlocks{}
	case CmdBlocks:
		msg = &MsgBlocks{}
	case CmdNewTxHashes:
		msg = &MsgNewTxHashes{}
	case CmdGetTransactions:
		msg = &MsgGetTransactions{}
	case CmdTransactions:
		msg = &MsgTransactions{}
	default:
		return nil, messageError("makeEmptyMessage",
			"unhandled command ["+command+"]")
	}
	return msg, nil
}

// messageHeader defines the header structure for all ember protocol
// messages.
type messageHeader struct {
	magic    EmberNet // 4 bytes
	command  string   // 12 bytes
	length   uint32   // 4 bytes
	checksum [4]byte  // 4 bytes
}

// readMessageHeader reads an ember message header from r.
func readMessageHeader(r io.Reader) (*messageHeader, error) {
	var headerBytes [MessageHeaderSize]byte
	_, err := io.ReadFull(r, headerBytes[:])
	if err != nil {
		return nil, err
	}
	hr := bytes.NewReader(headerBytes[:])

	hdr := messageHeader{}
	var command [CommandSize]byte
	var magic uint32
	readElement(hr, &magic)
	hdr.magic = EmberNet(magic)
	io.ReadFull(hr, command[:])
	readElement(hr, &hdr.length)
	io.ReadFull(hr, hdr.checksum[:])

	// Strip trailing zeros from command string.
	hdr.command = string(bytes.TrimRight(command[:], "\x00"))
	return &hdr, nil
}

// checksum returns the message payload checksum: the first four bytes of
// the SHA-256 digest of the payload.
func checksum(payload []byte) [4]byte {
	digest := sha256.Sum256(payload)
	var cksum [4]byte
	copy(cksum[:], digest[:4])
	return cksum
}

// WriteMessage writes an ember Message to w including the necessary header
// information.
func WriteMessage(w io.Writer, msg Message, pver uint32, net EmberNet) error {
	// Enforce max command size.
	command := msg.Command()
	if len(command) > CommandSize {
		return messageError("WriteMessage", fmt.Sprintf(
			"command [%s] is too long [max %v]", command, CommandSize))
	}
	var cmd [CommandSize]byte
	copy(cmd[:], command)

	// Encode the message payload.
	var bw bytes.Buffer
	err := msg.EmberEncode(&bw, pver)
	if err != nil {
		return err
	}
	payload := bw.Bytes()
	lenp := len(payload)

	// Enforce maximum overall message payload.
	if lenp > MaxMessagePayload {
		return messageError("WriteMessage", fmt.Sprintf(
			"message payload is too large - encoded %d bytes, "+
				"but maximum message payload is %d bytes", lenp,
			MaxMessagePayload))
	}

	// Enforce maximum message payload on the message type.
	mpl := msg.MaxPayloadLength(pver)
	if uint32(lenp) > mpl {
		return messageError("WriteMessage", fmt.Sprintf(
			"message payload is too large - encoded %d bytes, but "+
				"maximum message payload size for messages of type "+
				"[%s] is %d", lenp, command, mpl))
	}

	// Write the message header.
	var hw bytes.Buffer
	writeElement(&hw, uint32(net))
	hw.Write(cmd[:])
	writeElement(&hw, uint32(lenp))
	cksum := checksum(payload)
	hw.Write(cksum[:])
	_, err = w.Write(hw.Bytes())
	if err != nil {
		return err
	}

	// Write the payload.
	if lenp > 0 {
		_, err = w.Write(payload)
	}
	return err
}

// ReadMessage reads, validates, and parses the next ember Message from r for
// the provided protocol version and network.
func ReadMessage(r io.Reader, pver uint32, net EmberNet) (Message, error) {
	hdr, err := readMessageHeader(r)
	if err != nil {
		return nil, err
	}

	// A declared length beyond the global maximum means the stream can no
	// longer be trusted to frame correctly, so this is deliberately not a
	// MessageError: the caller must tear the connection down.
	if hdr.length > MaxMessagePayload {
		return nil, fmt.Errorf("message payload is too large - header "+
			"indicates %d bytes, but max message payload is %d bytes",
			hdr.length, MaxMessagePayload)
	}

	// Read the full payload first so that every recoverable failure below
	// leaves the stream positioned at the next frame.
	payload := make([]byte, hdr.length)
	_, err = io.ReadFull(r, payload)
	if err != nil {
		return nil, err
	}

	// Check for messages from the wrong ember network.
	if hdr.magic != net {
		return nil, messageError("ReadMessage", fmt.Sprintf(
			"message from other network [%v]", hdr.magic))
	}

	// Check for malformed commands.
	command := hdr.command
	if !utf8.ValidString(command) {
		return nil, messageError("ReadMessage", fmt.Sprintf(
			"invalid command %v", []byte(command)))
	}

	// Create struct of appropriate message type based on the command.
	msg, err := makeEmptyMessage(command)
	if err != nil {
		return nil, err
	}

	// Check for maximum length based on the message type.
	mpl := msg.MaxPayloadLength(pver)
	if hdr.length > mpl {
		return nil, messageError("ReadMessage", fmt.Sprintf(
			"payload exceeds max length - header indicates %v bytes, "+
				"but max payload size for messages of type [%v] is "+
				"%v", hdr.length, command, mpl))
	}

	// Verify the payload checksum.
	cksum := checksum(payload)
	if cksum != hdr.checksum {
		return nil, messageError("ReadMessage", fmt.Sprintf(
			"payload checksum failed - header indicates %x, but "+
				"actual checksum is %x", hdr.checksum, cksum))
	}

	// Unmarshal message.
	err = msg.EmberDecode(bytes.NewReader(payload), pver)
	if err != nil {
		// The frame has been consumed, so a payload that fails to decode
		// is malformed whatever error the payload reader reported.
		if _, ok := err.(*MessageError); !ok {
			err = messageError("ReadMessage", fmt.Sprintf(
				"malformed %s payload: %v", command, err))
		}
		return nil, err
	}

	return msg, nil
}
