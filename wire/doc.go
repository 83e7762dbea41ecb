// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the ember wire protocol.

The ember protocol is a hash-announce / request-on-demand gossip
protocol.  Peers advertise the hashes of blocks and transactions they
know about, request the ones they are missing, and deliver full payloads
on demand.  Every message is a tagged frame on the wire consisting of
the network magic, a command string, the payload length, a payload
checksum, and the payload itself.

At a high level, this package provides support for marshalling and
unmarshalling supported ember messages to and from the wire using the
Message interface.  In addition, it exposes the Block, BlockHeader, and
SignedTransaction types together with their canonical serializations,
which define the block hash, the transaction hash, and the bytes covered
by a transaction signature.
*/
package wire
