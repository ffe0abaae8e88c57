// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package checkpoint

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"

	"github.com/0xsoniclabs/exitproof/common/keccak"
	"github.com/ethereum/go-ethereum/common"
)

// MaxHeight is the largest tree height supported by this package.
const MaxHeight = 64

var (
	ErrEmptyTree          = errors.New("checkpoint: tree without leaves")
	ErrIndexOutOfRange    = errors.New("checkpoint: leaf index out of range")
	ErrInvalidProofLength = errors.New("checkpoint: proof length is not a multiple of 32")
)

// zeroHashes[h] is the root of a tree of height h whose leaves are all
// keccak256 of 32 zero bytes.
var zeroHashes = func() [MaxHeight + 1]common.Hash {
	var res [MaxHeight + 1]common.Hash
	res[0] = keccak.Sum(make([]byte, common.HashLength))
	for i := 1; i <= MaxHeight; i++ {
		res[i] = keccak.Pair(res[i-1], res[i-1])
	}
	return res
}()

// ZeroHash returns the padding hash used for unpaired nodes at the given
// height, where leaves are at height 0.
func ZeroHash(height int) common.Hash {
	if height < 0 || height > MaxHeight {
		panic(fmt.Sprintf("zero hash of unsupported height %d", height))
	}
	return zeroHashes[height]
}

// TreeDepth returns the number of layers above the leaves of a tree with the
// given number of leaves. This is also the length of every proof in it.
func TreeDepth(numLeaves uint64) int {
	if numLeaves <= 1 {
		return 0
	}
	return bits.Len64(numLeaves - 1)
}

// Tree is a fully materialized checkpoint tree.
type Tree struct {
	layers [][]common.Hash // < layers[0] are the leaves, the last layer holds the root
}

// NewTree builds the tree over the given leaves.
func NewTree(leaves []common.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	depth := TreeDepth(uint64(len(leaves)))
	layers := make([][]common.Hash, 0, depth+1)
	layers = append(layers, slices.Clone(leaves))
	for height := 0; height < depth; height++ {
		cur := layers[height]
		next := make([]common.Hash, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			right := ZeroHash(height)
			if i+1 < len(cur) {
				right = cur[i+1]
			}
			next[i/2] = keccak.Pair(cur[i], right)
		}
		layers = append(layers, next)
	}
	return &Tree{layers: layers}, nil
}

// Root returns the root hash of the tree.
func (t *Tree) Root() common.Hash {
	return t.layers[len(t.layers)-1][0]
}

// Depth returns the number of layers above the leaves.
func (t *Tree) Depth() int {
	return len(t.layers) - 1
}

// NumLeaves returns the number of leaves the tree was built from.
func (t *Tree) NumLeaves() int {
	return len(t.layers[0])
}

// Proof returns the sibling hashes on the path from the leaf with the given
// index to the root, ordered from the leaf layer upwards.
func (t *Tree) Proof(index uint64) ([]common.Hash, error) {
	if index >= uint64(t.NumLeaves()) {
		return nil, fmt.Errorf("%w: index %d, leaves %d", ErrIndexOutOfRange, index, t.NumLeaves())
	}
	proof := make([]common.Hash, t.Depth())
	for height := range proof {
		layer := t.layers[height]
		sibling := index ^ 1
		if sibling < uint64(len(layer)) {
			proof[height] = layer[sibling]
		} else {
			proof[height] = ZeroHash(height)
		}
		index >>= 1
	}
	return proof, nil
}

// VerifyProof reports whether proof recombines leaf at the given index to the
// given root. Index bits not covered by the proof must be zero.
func VerifyProof(leaf common.Hash, index uint64, proof []common.Hash, root common.Hash) bool {
	if len(proof) > MaxHeight || (len(proof) < 64 && index>>len(proof) != 0) {
		return false
	}
	cur := leaf
	for _, sibling := range proof {
		if index&1 == 0 {
			cur = keccak.Pair(cur, sibling)
		} else {
			cur = keccak.Pair(sibling, cur)
		}
		index >>= 1
	}
	return cur == root
}

// ConcatProof serializes a proof as the raw concatenation of its hashes.
func ConcatProof(proof []common.Hash) []byte {
	res := make([]byte, 0, len(proof)*common.HashLength)
	for _, hash := range proof {
		res = append(res, hash[:]...)
	}
	return res
}

// SplitProof is the inverse of ConcatProof.
func SplitProof(data []byte) ([]common.Hash, error) {
	if len(data)%common.HashLength != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidProofLength, len(data))
	}
	res := make([]common.Hash, len(data)/common.HashLength)
	for i := range res {
		res[i] = common.BytesToHash(data[i*common.HashLength : (i+1)*common.HashLength])
	}
	return res, nil
}
