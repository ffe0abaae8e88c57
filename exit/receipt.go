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

	"github.com/0xsoniclabs/exitproof/rlp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// maxTypeTag is the largest first byte of a typed receipt. Legacy receipts
// start with an RLP list prefix.
const maxTypeTag = 0x7f

// ReceiptKind distinguishes legacy receipts from typed receipts prefixed by
// the transaction type.
type ReceiptKind struct {
	typed bool
	tag   byte
}

// Legacy is the kind of receipts encoded as a plain RLP list.
func Legacy() ReceiptKind {
	return ReceiptKind{}
}

// Typed is the kind of receipts prefixed by the given transaction type.
func Typed(tag byte) ReceiptKind {
	return ReceiptKind{typed: true, tag: tag}
}

func (k ReceiptKind) IsTyped() bool {
	return k.typed
}

// Tag returns the transaction type of typed receipts.
func (k ReceiptKind) Tag() (byte, bool) {
	return k.tag, k.typed
}

func (k ReceiptKind) String() string {
	if !k.typed {
		return "legacy"
	}
	return fmt.Sprintf("typed(%d)", k.tag)
}

// Log is an event emitted by a transaction.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// Receipt is the consensus part of a transaction receipt as committed to the
// receipt trie of a block.
type Receipt struct {
	Kind              ReceiptKind
	StatusOrRoot      []byte // < status (empty or 0x01) or pre-Byzantium state root
	CumulativeGasUsed uint64
	Bloom             types.Bloom
	Logs              []Log
}

// DecodeReceipt parses the encoding of a receipt stored in a receipt trie.
// All failures are reported as ErrReceiptParse.
func DecodeReceipt(data []byte) (*Receipt, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty receipt", ErrReceiptParse)
	}
	kind := Legacy()
	body := data
	if data[0] <= maxTypeTag {
		kind = Typed(data[0])
		body = data[1:]
	}

	fields, err := rlp.SplitList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s receipt: %w", ErrReceiptParse, kind, err)
	}
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: receipt with %d fields", ErrReceiptParse, len(fields))
	}

	res := &Receipt{Kind: kind}
	if res.StatusOrRoot, err = rlp.SplitString(fields[0]); err != nil {
		return nil, fmt.Errorf("%w: status: %w", ErrReceiptParse, err)
	}
	gas, err := rlp.SplitString(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: cumulative gas: %w", ErrReceiptParse, err)
	}
	if res.CumulativeGasUsed, err = rlp.ToUint64(gas); err != nil {
		return nil, fmt.Errorf("%w: cumulative gas: %w", ErrReceiptParse, err)
	}
	bloom, err := rlp.SplitString(fields[2])
	if err != nil {
		return nil, fmt.Errorf("%w: bloom: %w", ErrReceiptParse, err)
	}
	if len(bloom) != types.BloomByteLength {
		return nil, fmt.Errorf("%w: bloom of %d bytes", ErrReceiptParse, len(bloom))
	}
	res.Bloom = types.BytesToBloom(bloom)

	logs, err := rlp.SplitList(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: logs: %w", ErrReceiptParse, err)
	}
	res.Logs = make([]Log, len(logs))
	for i, encoded := range logs {
		if err := decodeLog(encoded, &res.Logs[i]); err != nil {
			return nil, fmt.Errorf("%w: log %d: %w", ErrReceiptParse, i, err)
		}
	}
	return res, nil
}

func decodeLog(data []byte, log *Log) error {
	fields, err := rlp.SplitList(data)
	if err != nil {
		return err
	}
	if len(fields) != 3 {
		return fmt.Errorf("log with %d fields", len(fields))
	}
	address, err := rlp.SplitString(fields[0])
	if err != nil {
		return err
	}
	if len(address) != common.AddressLength {
		return fmt.Errorf("address of %d bytes", len(address))
	}
	log.Address = common.Address(address)

	topics, err := rlp.SplitList(fields[1])
	if err != nil {
		return err
	}
	log.Topics = make([]common.Hash, len(topics))
	for i, encoded := range topics {
		topic, err := rlp.SplitString(encoded)
		if err != nil {
			return err
		}
		if len(topic) != common.HashLength {
			return fmt.Errorf("topic %d of %d bytes", i, len(topic))
		}
		log.Topics[i] = common.Hash(topic)
	}

	log.Data, err = rlp.SplitString(fields[2])
	return err
}

// Encode produces the trie encoding of the receipt. Decoding a canonical
// encoding and encoding the result reproduces the input.
func (r *Receipt) Encode() []byte {
	logs := make([][]byte, len(r.Logs))
	for i := range r.Logs {
		logs[i] = r.Logs[i].encode()
	}
	body := rlp.EncodeList(
		rlp.EncodeBytes(r.StatusOrRoot),
		rlp.EncodeUint(r.CumulativeGasUsed),
		rlp.EncodeBytes(r.Bloom[:]),
		rlp.EncodeList(logs...),
	)
	if tag, typed := r.Kind.Tag(); typed {
		return append([]byte{tag}, body...)
	}
	return body
}

func (l *Log) encode() []byte {
	topics := make([][]byte, len(l.Topics))
	for i := range l.Topics {
		topics[i] = rlp.EncodeBytes(l.Topics[i][:])
	}
	return rlp.EncodeList(
		rlp.EncodeBytes(l.Address[:]),
		rlp.EncodeList(topics...),
		rlp.EncodeBytes(l.Data),
	)
}
