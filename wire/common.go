// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

const (
	// MaxVarIntPayload is the maximum payload size for a variable length
	// integer.
	MaxVarIntPayload = 9
)

var (
	// littleEndian is a convenience variable since binary.LittleEndian is
	// quite long.
	littleEndian = binary.LittleEndian
)

// readElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func readElement(r io.Reader, element interface{}) error {
	// Attempt to read the element based on the concrete type via fast
	// type assertions first.
	switch e := element.(type) {
	case *uint32:
		var b [4]byte
		_, err := io.ReadFull(r, b[:])
		if err != nil {
			return err
		}
		*e = littleEndian.Uint32(b[:])
		return nil

	case *uint64:
		var b [8]byte
		_, err := io.ReadFull(r, b[:])
		if err != nil {
			return err
		}
		*e = littleEndian.Uint64(b[:])
		return nil

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	}

	return fmt.Errorf("unhandled element type %T", element)
}

// writeElement writes the little endian representation of element to w.
func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint32:
		var b [4]byte
		littleEndian.PutUint32(b[:], e)
		_, err := w.Write(b[:])
		return err

	case uint64:
		var b [8]byte
		littleEndian.PutUint64(b[:], e)
		_, err := w.Write(b[:])
		return err

	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	}

	return fmt.Errorf("unhandled element type %T", element)
}

// readTimestamp reads a 128-bit little endian millisecond timestamp from r.
// Only the low 64 bits are representable; the high 64 bits are required to
// be zero since any such timestamp is tens of billions of years away.
func readTimestamp(r io.Reader, op string) (uint64, error) {
	var b [16]byte
	_, err := io.ReadFull(r, b[:])
	if err != nil {
		return 0, err
	}
	if littleEndian.Uint64(b[8:]) != 0 {
		return 0, messageError(op, "timestamp out of range")
	}
	return littleEndian.Uint64(b[:8]), nil
}

// writeTimestamp writes ts to w as a 128-bit little endian millisecond
// timestamp.
func writeTimestamp(w io.Writer, ts uint64) error {
	var b [16]byte
	littleEndian.PutUint64(b[:8], ts)
	_, err := w.Write(b[:])
	return err
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64.  The encoding matches the Bitcoin compact integer format the rest
// of the protocol vectors use.
func ReadVarInt(r io.Reader, pver uint32) (uint64, error) {
	var b [8]byte
	_, err := io.ReadFull(r, b[:1])
	if err != nil {
		return 0, err
	}

	var rv uint64
	discriminant := b[0]
	switch discriminant {
	case 0xff:
		_, err := io.ReadFull(r, b[:8])
		if err != nil {
			return 0, err
		}
		rv = littleEndian.Uint64(b[:])

		// The encoding is not canonical if the value could have been
		// encoded using fewer bytes.
		min := uint64(0x100000000)
		if rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"non-canonical varint %x - discriminant %x must "+
					"encode a value greater than %x", rv, discriminant,
				min-1))
		}

	case 0xfe:
		_, err := io.ReadFull(r, b[:4])
		if err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint32(b[:]))

		min := uint64(0x10000)
		if rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"non-canonical varint %x - discriminant %x must "+
					"encode a value greater than %x", rv, discriminant,
				min-1))
		}

	case 0xfd:
		_, err := io.ReadFull(r, b[:2])
		if err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint16(b[:]))

		min := uint64(0xfd)
		if rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"non-canonical varint %x - discriminant %x must "+
					"encode a value greater than %x", rv, discriminant,
				min-1))
		}

	default:
		rv = uint64(discriminant)
	}

	return rv, nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, pver uint32, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{uint8(val)})
		return err
	}

	if val <= 0xffff {
		var b [3]byte
		b[0] = 0xfd
		littleEndian.PutUint16(b[1:], uint16(val))
		_, err := w.Write(b[:])
		return err
	}

	if val <= 0xffffffff {
		var b [5]byte
		b[0] = 0xfe
		littleEndian.PutUint32(b[1:], uint32(val))
		_, err := w.Write(b[:])
		return err
	}

	var b [9]byte
	b[0] = 0xff
	littleEndian.PutUint64(b[1:], val)
	_, err := w.Write(b[:])
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	// The value is small enough to be represented by itself, so it's
	// just 1 byte.
	if val < 0xfd {
		return 1
	}

	// Discriminant 1 byte plus 2 bytes for the uint16.
	if val <= 0xffff {
		return 3
	}

	// Discriminant 1 byte plus 4 bytes for the uint32.
	if val <= 0xffffffff {
		return 5
	}

	// Discriminant 1 byte plus 8 bytes for the uint64.
	return 9
}

// ReadVarBytes reads a variable length byte array.  A byte array is encoded
// as a varInt containing the length of the array followed by the bytes
// themselves.  An error is returned if the length is greater than the passed
// maxAllowed parameter which helps protect against memory exhaustion attacks
// and forced panics through malformed messages.  The fieldName parameter is
// only used for the error message so it provides more context in the error.
func ReadVarBytes(r io.Reader, pver uint32, maxAllowed uint32,
	fieldName string) ([]byte, error) {

	count, err := ReadVarInt(r, pver)
	if err != nil {
		return nil, err
	}

	// Prevent byte array larger than the max message size.  It would
	// be possible to cause memory exhaustion and panics without a sane
	// upper bound on this count.
	if count > uint64(maxAllowed) {
		return nil, messageError("ReadVarBytes", fmt.Sprintf(
			"%s is larger than the max allowed size [count %d, max %d]",
			fieldName, count, maxAllowed))
	}

	b := make([]byte, count)
	_, err = io.ReadFull(r, b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// WriteVarBytes serializes a variable length byte array to w as a varInt
// containing the number of bytes, followed by the bytes themselves.
func WriteVarBytes(w io.Writer, pver uint32, bytes []byte) error {
	slen := uint64(len(bytes))
	err := WriteVarInt(w, pver, slen)
	if err != nil {
		return err
	}

	_, err = w.Write(bytes)
	return err
}

// ReadVarString reads a variable length string from r and returns it as a Go
// string.  A variable length string is encoded as a variable length integer
// containing the length of the string followed by the bytes that represent
// the string itself.
func ReadVarString(r io.Reader, pver uint32) (string, error) {
	buf, err := ReadVarBytes(r, pver, MaxMessagePayload, "string")
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteVarString serializes str to w as a variable length integer containing
// the length of the string followed by the bytes that represent the string
// itself.
func WriteVarString(w io.Writer, pver uint32, str string) error {
	return WriteVarBytes(w, pver, []byte(str))
}

// readHashVector reads a variable length vector of hashes from r.
func readHashVector(r io.Reader, pver uint32, maxAllowed uint64,
	op string) ([]chainhash.Hash, error) {

	count, err := ReadVarInt(r, pver)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, messageError(op, fmt.Sprintf("too many hashes "+
			"in message [count %d, max %d]", count, maxAllowed))
	}

	hashes := make([]chainhash.Hash, count)
	for i := uint64(0); i < count; i++ {
		err := readElement(r, &hashes[i])
		if err != nil {
			return nil, err
		}
	}
	return hashes, nil
}

// writeHashVector serializes a vector of hashes to w.
func writeHashVector(w io.Writer, pver uint32, maxAllowed uint64, op string,
	hashes []chainhash.Hash) error {

	if uint64(len(hashes)) > maxAllowed {
		return messageError(op, fmt.Sprintf("too many hashes in "+
			"message [count %d, max %d]", len(hashes), maxAllowed))
	}

	err := WriteVarInt(w, pver, uint64(len(hashes)))
	if err != nil {
		return err
	}
	for i := range hashes {
		err := writeElement(w, &hashes[i])
		if err != nil {
			return err
		}
	}
	return nil
}
