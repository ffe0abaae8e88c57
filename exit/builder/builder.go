// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package builder assembles exit payloads from the data of a side-chain
// node. Building is done off-line by the party claiming an exit; the result
// is checked by an exit.Processor.
package builder

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/0xsoniclabs/exitproof/checkpoint/remote"
	"github.com/0xsoniclabs/exitproof/exit"
	"github.com/0xsoniclabs/exitproof/rlp"
	"github.com/0xsoniclabs/exitproof/trie"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	gethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
)

var (
	ErrEventNotFound       = errors.New("builder: event not found in receipt")
	ErrReceiptRootMismatch = errors.New("builder: receipts do not match header")
	ErrCheckpointMismatch  = errors.New("builder: header not committed to by checkpoint")
)

// ChainReader is the subset of ethclient.Client needed to build payloads.
type ChainReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockReceipts(ctx context.Context, blockNrOrHash rpc.BlockNumberOrHash) ([]*types.Receipt, error)
}

// Builder assembles exit payloads.
type Builder struct {
	chain ChainReader
	roots checkpoint.RootHashOracle
}

// New creates a builder reading blocks from the given chain. If roots is not
// nil, checkpoint proofs are built from range queries; otherwise the header
// of every block of the checkpoint is fetched.
func New(chain ChainReader, roots checkpoint.RootHashOracle) *Builder {
	return &Builder{chain: chain, roots: roots}
}

// Build assembles the payload claiming the first log with the given event
// signature emitted by the given transaction, using the given checkpoint.
func (b *Builder) Build(ctx context.Context, cp checkpoint.Checkpoint, txHash common.Hash, eventSig common.Hash) (*exit.Payload, error) {
	receipt, err := b.chain.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt of %x: %w", txHash, err)
	}
	number := receipt.BlockNumber.Uint64()
	if !cp.Contains(number) {
		return nil, fmt.Errorf("%w: block %d, %v", exit.ErrOutOfRange, number, cp)
	}

	logIndex := -1
	for i, log := range receipt.Logs {
		if len(log.Topics) > 0 && log.Topics[0] == eventSig {
			logIndex = i
			break
		}
	}
	if logIndex < 0 {
		return nil, fmt.Errorf("%w: event %x, transaction %x", ErrEventNotFound, eventSig, txHash)
	}

	header, err := b.chain.HeaderByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch header of block %d: %w", number, err)
	}
	receipts, err := b.chain.BlockReceipts(ctx, rpc.BlockNumberOrHashWithHash(receipt.BlockHash, false))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipts of block %d: %w", number, err)
	}
	receiptProof, err := ReceiptProof(receipts, receipt.TransactionIndex)
	if err != nil {
		return nil, err
	}
	if receiptProof.Root != header.ReceiptHash {
		return nil, fmt.Errorf("%w: block %d, header %x, receipts %x", ErrReceiptRootMismatch, number, header.ReceiptHash, receiptProof.Root)
	}
	if err := receiptProof.Verify(); err != nil {
		return nil, fmt.Errorf("invalid proof for receipt %x: %w", txHash, err)
	}

	blockProof, err := b.blockProof(ctx, cp, number)
	if err != nil {
		return nil, err
	}
	digest := checkpoint.HeaderDigest(number, header.Time, header.TxHash, header.ReceiptHash)
	if !checkpoint.VerifyProof(digest, cp.LeafIndex(number), blockProof, cp.Root) {
		return nil, fmt.Errorf("%w: block %d, %v", ErrCheckpointMismatch, number, cp)
	}

	log.Debug("Built exit payload", "tx", txHash, "block", number, "checkpoint", cp.ID, "logIndex", logIndex)
	return &exit.Payload{
		CheckpointID:       cp.ID,
		BlockProof:         blockProof,
		BlockNumber:        number,
		BlockTimestamp:     header.Time,
		TxRoot:             header.TxHash,
		ReceiptsRoot:       header.ReceiptHash,
		Receipt:            receiptProof.Value,
		ReceiptParentNodes: receiptProof.ParentNodes,
		Path:               receiptProof.Path,
		LogIndex:           uint64(logIndex),
	}, nil
}

func (b *Builder) blockProof(ctx context.Context, cp checkpoint.Checkpoint, number uint64) ([]common.Hash, error) {
	if b.roots != nil {
		return checkpoint.FastProof(ctx, b.roots, cp.StartBlock, cp.EndBlock, number)
	}
	return checkpoint.BuildProof(ctx, remote.NewHeaderSource(b.chain), cp.StartBlock, cp.EndBlock, number)
}

// ReceiptProof builds the receipt trie of a block and extracts the proof of
// the receipt with the given transaction index.
func ReceiptProof(receipts []*types.Receipt, txIndex uint) (*trie.Proof, error) {
	if txIndex >= uint(len(receipts)) {
		return nil, fmt.Errorf("transaction index %d out of range, block has %d receipts", txIndex, len(receipts))
	}
	tr := gethtrie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil))
	var value []byte
	for i, receipt := range receipts {
		encoded, err := receipt.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("failed to encode receipt %d: %w", i, err)
		}
		if err := tr.Update(rlp.EncodeUint(uint64(i)), encoded); err != nil {
			return nil, err
		}
		if uint(i) == txIndex {
			value = encoded
		}
	}

	key := rlp.EncodeUint(uint64(txIndex))
	nodes := &orderedProof{}
	if err := tr.Prove(key, nodes); err != nil {
		return nil, fmt.Errorf("failed to prove receipt %d: %w", txIndex, err)
	}
	return &trie.Proof{
		Root:        tr.Hash(),
		ParentNodes: nodes.nodes,
		Path:        key,
		Value:       value,
	}, nil
}

// orderedProof collects the nodes of a proof in the order they are written,
// which is from the root to the leaf.
type orderedProof struct {
	nodes [][]byte
}

func (p *orderedProof) Put(key []byte, value []byte) error {
	p.nodes = append(p.nodes, common.CopyBytes(value))
	return nil
}

func (p *orderedProof) Delete(key []byte) error {
	return errors.New("proof nodes can not be deleted")
}
