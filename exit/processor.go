// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package exit validates exits: claims that an event was emitted on the side
// chain in a block committed to by a checkpoint. An exit is accepted at most
// once.
//
// The validation of a payload recomputes the digest of the block header,
// checks it against the checkpoint resolved by an oracle, checks the
// inclusion of the receipt in the block's receipt trie and finally records
// the exit in a registry of processed exits.
package exit

import (
	"context"
	"fmt"
	"time"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/0xsoniclabs/exitproof/trie"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// ProcessorConfig configures a Processor.
type ProcessorConfig struct {
	// OracleTimeout bounds the checkpoint lookup. Zero disables the bound.
	OracleTimeout time.Duration

	// Logger receives the processing outcomes. Defaults to the root logger.
	Logger log.Logger
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		OracleTimeout: 10 * time.Second,
	}
}

// Exit summarizes a verified exit.
type Exit struct {
	Hash       common.Hash
	Checkpoint checkpoint.Checkpoint
	Receipt    *Receipt
	Log        *Log
}

// Processor validates exit payloads against checkpoints and records
// accepted exits. It is safe for concurrent use.
type Processor struct {
	oracle   checkpoint.Oracle
	registry Registry
	config   ProcessorConfig
	log      log.Logger
}

func NewProcessor(oracle checkpoint.Oracle, registry Registry, config ProcessorConfig) *Processor {
	logger := config.Logger
	if logger == nil {
		logger = log.Root()
	}
	return &Processor{
		oracle:   oracle,
		registry: registry,
		config:   config,
		log:      logger,
	}
}

// ValidateEncoded decodes and validates an encoded payload, see Validate.
func (p *Processor) ValidateEncoded(ctx context.Context, data []byte) (*Log, error) {
	payload, err := DecodePayload(data)
	if err != nil {
		p.log.Debug("Rejected undecodable exit", "size", len(data), "err", err)
		return nil, err
	}
	return p.Validate(ctx, payload)
}

// Validate verifies the payload and, if valid and not processed before,
// marks the exit as processed and returns the claimed log. The registry is
// only touched once all proofs are verified.
func (p *Processor) Validate(ctx context.Context, payload *Payload) (*Log, error) {
	exit, err := p.Check(ctx, payload)
	if err != nil {
		return nil, err
	}
	added, err := p.registry.MarkProcessed(exit.Hash)
	if err != nil {
		return nil, fmt.Errorf("failed to record exit %x: %w", exit.Hash, err)
	}
	if !added {
		p.log.Debug("Rejected replayed exit", "exit", exit.Hash)
		return nil, fmt.Errorf("%w: %x", ErrAlreadyProcessed, exit.Hash)
	}
	p.log.Info("Accepted exit", "checkpoint", payload.CheckpointID, "block", payload.BlockNumber, "logIndex", payload.LogIndex, "exit", exit.Hash)
	return exit.Log, nil
}

// Check verifies the payload without consulting or modifying the registry.
func (p *Processor) Check(ctx context.Context, payload *Payload) (*Exit, error) {
	exit, err := p.check(ctx, payload)
	if err != nil {
		p.log.Debug("Rejected exit", "checkpoint", payload.CheckpointID, "block", payload.BlockNumber, "logIndex", payload.LogIndex, "err", err)
	}
	return exit, err
}

func (p *Processor) check(ctx context.Context, payload *Payload) (*Exit, error) {
	digest := checkpoint.HeaderDigest(payload.BlockNumber, payload.BlockTimestamp, payload.TxRoot, payload.ReceiptsRoot)

	cp, err := p.resolve(ctx, payload.CheckpointID)
	if err != nil {
		return nil, err
	}
	if !cp.Contains(payload.BlockNumber) {
		return nil, fmt.Errorf("%w: block %d, checkpoint %d covers [%d, %d]", ErrOutOfRange, payload.BlockNumber, cp.ID, cp.StartBlock, cp.EndBlock)
	}

	if !checkpoint.VerifyProof(digest, cp.LeafIndex(payload.BlockNumber), payload.BlockProof, cp.Root) {
		return nil, fmt.Errorf("%w: header of block %d not in checkpoint %d", ErrProofVerificationFailed, payload.BlockNumber, cp.ID)
	}
	if err := trie.VerifyProof(payload.ReceiptsRoot, payload.Receipt, payload.ReceiptParentNodes, payload.Path); err != nil {
		return nil, fmt.Errorf("%w: receipt: %w", ErrProofVerificationFailed, err)
	}

	receipt, err := DecodeReceipt(payload.Receipt)
	if err != nil {
		return nil, err
	}
	if payload.LogIndex >= uint64(len(receipt.Logs)) {
		return nil, fmt.Errorf("%w: log index %d, receipt has %d logs", ErrReceiptParse, payload.LogIndex, len(receipt.Logs))
	}

	return &Exit{
		Hash:       ExitHash(payload.BlockNumber, payload.Path, payload.LogIndex),
		Checkpoint: cp,
		Receipt:    receipt,
		Log:        &receipt.Logs[payload.LogIndex],
	}, nil
}

func (p *Processor) resolve(ctx context.Context, id uint64) (checkpoint.Checkpoint, error) {
	if p.config.OracleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.OracleTimeout)
		defer cancel()
	}
	cp, err := p.oracle.GetCheckpoint(ctx, id)
	if err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("failed to resolve checkpoint %d: %w", id, err)
	}
	return cp, nil
}
