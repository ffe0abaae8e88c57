// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package keccak provides the legacy Keccak-256 hash used for all commitments
// of this module. Hashers are pooled since Merkle tree construction hashes
// many small inputs in tight loops.
package keccak

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

var hasherPool = sync.Pool{
	New: func() any {
		return sha3.NewLegacyKeccak256()
	},
}

// Sum computes the Keccak-256 hash of the concatenation of the given parts.
func Sum(parts ...[]byte) common.Hash {
	h := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(h)
	h.Reset()
	for _, part := range parts {
		h.Write(part)
	}
	var res common.Hash
	h.Sum(res[:0])
	return res
}

// Pair computes keccak256(left ‖ right), the inner node hash of binary
// Merkle trees.
func Pair(left, right common.Hash) common.Hash {
	return Sum(left[:], right[:])
}
