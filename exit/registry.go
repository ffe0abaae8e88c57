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

//go:generate mockgen -source registry.go -destination registry_mocks.go -package exit

import (
	"github.com/0xsoniclabs/exitproof/common/keccak"
	"github.com/0xsoniclabs/exitproof/trie"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Registry is the set of processed exits, identified by their exit hash.
// Entries are never removed. Implementations must be safe for concurrent
// use.
type Registry interface {
	// MarkProcessed adds the given exit hash to the registry. It returns
	// false if the hash was present before. Checking and inserting is atomic
	// with respect to concurrent calls.
	MarkProcessed(hash common.Hash) (bool, error)

	// IsProcessed reports whether the given exit hash is in the registry.
	IsProcessed(hash common.Hash) (bool, error)
}

// ExitHash computes the identifier of the exit claiming the log at logIndex
// of the receipt stored under path in the receipt trie of the given block:
// keccak256(be32(blockNumber) ‖ nibbles(path) ‖ be32(logIndex)), where every
// nibble of the path occupies one byte.
func ExitHash(blockNumber uint64, path []byte, logIndex uint64) common.Hash {
	block := uint256.NewInt(blockNumber).Bytes32()
	index := uint256.NewInt(logIndex).Bytes32()
	return keccak.Sum(block[:], trie.KeyToNibbles(path), index[:])
}
