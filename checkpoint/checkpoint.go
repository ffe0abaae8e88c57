// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package checkpoint implements the binary Merkle tree committing a range of
// side-chain block headers to a single root hash, together with builders and
// verifiers for the proofs of individual headers.
//
// The leaves of a checkpoint tree are header digests (see HeaderDigest) of
// the consecutive blocks [StartBlock, EndBlock]. Layers are built bottom-up by
// hashing adjacent pairs; an unpaired last node of a layer is paired with the
// zero hash of the layer's height (see ZeroHash).
package checkpoint

import (
	"fmt"

	"github.com/0xsoniclabs/exitproof/common/keccak"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Checkpoint is a commitment to the header digests of the inclusive block
// range [StartBlock, EndBlock]. Checkpoints are immutable once created.
type Checkpoint struct {
	ID         uint64
	StartBlock uint64
	EndBlock   uint64
	Root       common.Hash
}

// Contains reports whether the given block is covered by the checkpoint.
func (c *Checkpoint) Contains(block uint64) bool {
	return c.StartBlock <= block && block <= c.EndBlock
}

// Size returns the number of blocks covered by the checkpoint.
func (c *Checkpoint) Size() uint64 {
	return c.EndBlock - c.StartBlock + 1
}

// LeafIndex returns the position of the given block among the leaves of the
// checkpoint tree. The block must be covered by the checkpoint.
func (c *Checkpoint) LeafIndex(block uint64) uint64 {
	return block - c.StartBlock
}

func (c Checkpoint) String() string {
	return fmt.Sprintf("checkpoint %d [%d, %d] %x", c.ID, c.StartBlock, c.EndBlock, c.Root)
}

// HeaderDigest computes the leaf committed to a checkpoint tree for a block
// header: keccak256(be32(number) ‖ be32(timestamp) ‖ txRoot ‖ receiptsRoot),
// where be32 is the 32-byte big-endian encoding of an integer.
func HeaderDigest(number, timestamp uint64, txRoot, receiptsRoot common.Hash) common.Hash {
	num := uint256.NewInt(number).Bytes32()
	time := uint256.NewInt(timestamp).Bytes32()
	return keccak.Sum(num[:], time[:], txRoot[:], receiptsRoot[:])
}
