// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package exit

import (
	"fmt"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/0xsoniclabs/exitproof/rlp"
	"github.com/ethereum/go-ethereum/common"
)

const (
	numPayloadFields = 10

	// pathMarker precedes the trie path in encoded payloads. It is the
	// hex-prefix flag of an even-length extension path.
	pathMarker = 0x00
)

// Payload is the proof bundle submitted to claim an exit. It proves that
// the log at LogIndex of the given receipt is part of a block covered by a
// checkpoint.
type Payload struct {
	CheckpointID       uint64
	BlockProof         []common.Hash // < checkpoint tree proof of the block header digest
	BlockNumber        uint64
	BlockTimestamp     uint64
	TxRoot             common.Hash
	ReceiptsRoot       common.Hash
	Receipt            []byte   // < receipt as stored in the receipt trie
	ReceiptParentNodes [][]byte // < receipt trie proof, root first
	Path               []byte   // < receipt trie key, without marker
	LogIndex           uint64
}

// Encode serializes the payload as a list of its ten fields. The block
// proof is stored as the raw concatenation of its hashes and the trie path is
// prefixed by a 0x00 marker byte.
func (p *Payload) Encode() []byte {
	path := make([]byte, 0, len(p.Path)+1)
	path = append(path, pathMarker)
	path = append(path, p.Path...)
	return rlp.EncodeList(
		rlp.EncodeUint(p.CheckpointID),
		rlp.EncodeBytes(checkpoint.ConcatProof(p.BlockProof)),
		rlp.EncodeUint(p.BlockNumber),
		rlp.EncodeUint(p.BlockTimestamp),
		rlp.EncodeBytes(p.TxRoot[:]),
		rlp.EncodeBytes(p.ReceiptsRoot[:]),
		rlp.EncodeBytes(p.Receipt),
		rlp.EncodeBytes(rlp.EncodeList(p.ReceiptParentNodes...)),
		rlp.EncodeBytes(path),
		rlp.EncodeUint(p.LogIndex),
	)
}

// DecodePayload parses an encoded payload. All failures are reported as
// ErrMalformedEncoding.
func DecodePayload(data []byte) (*Payload, error) {
	fields, err := rlp.SplitList(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEncoding, err)
	}
	if len(fields) != numPayloadFields {
		return nil, fmt.Errorf("%w: payload with %d fields, expected %d", ErrMalformedEncoding, len(fields), numPayloadFields)
	}
	d := payloadDecoder{fields: fields}
	res := &Payload{
		CheckpointID:   d.uint(0, "checkpoint id"),
		BlockNumber:    d.uint(2, "block number"),
		BlockTimestamp: d.uint(3, "block timestamp"),
		TxRoot:         d.hash(4, "tx root"),
		ReceiptsRoot:   d.hash(5, "receipts root"),
		Receipt:        d.bytes(6, "receipt"),
		LogIndex:       d.uint(9, "log index"),
	}

	if proof := d.bytes(1, "block proof"); d.err == nil {
		if res.BlockProof, err = checkpoint.SplitProof(proof); err != nil {
			d.fail("block proof", err)
		}
	}
	if nodes := d.bytes(7, "receipt parent nodes"); d.err == nil {
		if res.ReceiptParentNodes, err = rlp.SplitList(nodes); err != nil {
			d.fail("receipt parent nodes", err)
		}
	}
	if path := d.bytes(8, "path"); d.err == nil {
		if len(path) == 0 || path[0] != pathMarker {
			d.fail("path", fmt.Errorf("missing 0x%02x marker", pathMarker))
		} else {
			res.Path = path[1:]
		}
	}

	if d.err != nil {
		return nil, d.err
	}
	return res, nil
}

// payloadDecoder decodes payload fields, retaining the first failure.
type payloadDecoder struct {
	fields [][]byte
	err    error
}

func (d *payloadDecoder) fail(name string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s: %w", ErrMalformedEncoding, name, err)
	}
}

func (d *payloadDecoder) bytes(i int, name string) []byte {
	res, err := rlp.SplitString(d.fields[i])
	if err != nil {
		d.fail(name, err)
	}
	return res
}

func (d *payloadDecoder) uint(i int, name string) uint64 {
	content := d.bytes(i, name)
	if d.err != nil {
		return 0
	}
	res, err := rlp.ToUint64(content)
	if err != nil {
		d.fail(name, err)
	}
	return res
}

func (d *payloadDecoder) hash(i int, name string) common.Hash {
	content := d.bytes(i, name)
	if d.err != nil {
		return common.Hash{}
	}
	if len(content) != common.HashLength {
		d.fail(name, fmt.Errorf("%d bytes instead of %d", len(content), common.HashLength))
		return common.Hash{}
	}
	return common.Hash(content)
}
