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
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestHeaderDigest_HashesBigEndianWordsAndRoots(t *testing.T) {
	txRoot := common.HexToHash("0x1111")
	receiptsRoot := common.HexToHash("0x2222")

	var data [128]byte
	binary.BigEndian.PutUint64(data[24:32], 12345)
	binary.BigEndian.PutUint64(data[56:64], 1700000000)
	copy(data[64:96], txRoot[:])
	copy(data[96:128], receiptsRoot[:])

	want := crypto.Keccak256Hash(data[:])
	require.Equal(t, want, HeaderDigest(12345, 1700000000, txRoot, receiptsRoot))
	require.NotEqual(t, want, HeaderDigest(12346, 1700000000, txRoot, receiptsRoot))
	require.NotEqual(t, want, HeaderDigest(12345, 1700000000, receiptsRoot, txRoot))
}

func TestCheckpoint_RangeAccessors(t *testing.T) {
	require := require.New(t)
	cp := Checkpoint{ID: 1, StartBlock: 100, EndBlock: 103}
	require.EqualValues(4, cp.Size())
	require.True(cp.Contains(100))
	require.True(cp.Contains(103))
	require.False(cp.Contains(99))
	require.False(cp.Contains(104))
	require.EqualValues(2, cp.LeafIndex(102))
}

func TestZeroHash_IsRecursiveHashOfZeroLeaf(t *testing.T) {
	require := require.New(t)
	require.Equal(crypto.Keccak256Hash(make([]byte, 32)), ZeroHash(0))
	for height := 1; height <= MaxHeight; height++ {
		below := ZeroHash(height - 1)
		require.Equal(crypto.Keccak256Hash(below[:], below[:]), ZeroHash(height))
	}
	require.Panics(func() { ZeroHash(-1) })
	require.Panics(func() { ZeroHash(MaxHeight + 1) })
}

func TestTreeDepth(t *testing.T) {
	tests := map[uint64]int{1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4, 1024: 10, 1025: 11}
	for leaves, depth := range tests {
		require.Equal(t, depth, TreeDepth(leaves), "leaves %d", leaves)
	}
}

func TestTree_TwoLeaves(t *testing.T) {
	require := require.New(t)
	h0 := crypto.Keccak256Hash([]byte("h0"))
	h1 := crypto.Keccak256Hash([]byte("h1"))

	tree, err := NewTree([]common.Hash{h0, h1})
	require.NoError(err)
	root := crypto.Keccak256Hash(h0[:], h1[:])
	require.Equal(root, tree.Root())

	proof, err := tree.Proof(0)
	require.NoError(err)
	require.Equal([]common.Hash{h1}, proof)
	require.True(VerifyProof(h0, 0, proof, root))

	tampered := h1
	tampered[0] ^= 0x01
	require.False(VerifyProof(h0, 0, []common.Hash{tampered}, root))
	require.False(VerifyProof(h0, 1, proof, root))
}

func TestTree_UnpairedNodesArePaddedWithZeroHashOfTheirHeight(t *testing.T) {
	require := require.New(t)
	leaves := testLeaves(5)
	tree, err := NewTree(leaves)
	require.NoError(err)

	pair := func(a, b common.Hash) common.Hash { return crypto.Keccak256Hash(a[:], b[:]) }
	want := pair(
		pair(pair(leaves[0], leaves[1]), pair(leaves[2], leaves[3])),
		pair(pair(leaves[4], ZeroHash(0)), ZeroHash(1)),
	)
	require.Equal(want, tree.Root())
	require.Equal(3, tree.Depth())
	require.Equal(5, tree.NumLeaves())
}

func TestTree_SingleLeafIsRoot(t *testing.T) {
	require := require.New(t)
	leaf := crypto.Keccak256Hash([]byte("leaf"))
	tree, err := NewTree([]common.Hash{leaf})
	require.NoError(err)
	require.Equal(leaf, tree.Root())
	require.Equal(0, tree.Depth())

	proof, err := tree.Proof(0)
	require.NoError(err)
	require.Empty(proof)
	require.True(VerifyProof(leaf, 0, proof, leaf))
}

func TestTree_ProofsOfAllLeavesRecombineToRoot(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 9, 16, 31, 33, 100, 256} {
		t.Run(fmt.Sprintf("leaves=%d", n), func(t *testing.T) {
			t.Parallel()
			leaves := testLeaves(n)
			tree, err := NewTree(leaves)
			require.NoError(t, err)
			root := tree.Root()
			for i, leaf := range leaves {
				proof, err := tree.Proof(uint64(i))
				require.NoError(t, err)
				require.Len(t, proof, TreeDepth(uint64(n)))
				require.True(t, VerifyProof(leaf, uint64(i), proof, root), "leaf %d", i)
			}
		})
	}
}

func TestTree_TamperedProofsAreRejected(t *testing.T) {
	leaves := testLeaves(13)
	tree, err := NewTree(leaves)
	require.NoError(t, err)
	root := tree.Root()

	for i, leaf := range leaves {
		proof, err := tree.Proof(uint64(i))
		require.NoError(t, err)
		for j := range proof {
			for _, bit := range []int{0, 7, 255} {
				tampered := append([]common.Hash(nil), proof...)
				tampered[j][bit/8] ^= 1 << (bit % 8)
				require.False(t, VerifyProof(leaf, uint64(i), tampered, root), "leaf %d, element %d, bit %d", i, j, bit)
			}
		}
		other := leaves[(i+1)%len(leaves)]
		require.False(t, VerifyProof(other, uint64(i), proof, root))
		require.False(t, VerifyProof(leaf, uint64(i), proof[:len(proof)-1], root))
	}
}

func TestVerifyProof_RejectsIndexBitsBeyondProof(t *testing.T) {
	require := require.New(t)
	leaves := testLeaves(4)
	tree, err := NewTree(leaves)
	require.NoError(err)
	proof, err := tree.Proof(1)
	require.NoError(err)

	require.True(VerifyProof(leaves[1], 1, proof, tree.Root()))
	require.False(VerifyProof(leaves[1], 1+4, proof, tree.Root()))
	require.False(VerifyProof(leaves[1], 1+1<<40, proof, tree.Root()))
}

func TestTree_RejectsInvalidInput(t *testing.T) {
	_, err := NewTree(nil)
	require.ErrorIs(t, err, ErrEmptyTree)

	tree, err := NewTree(testLeaves(3))
	require.NoError(t, err)
	_, err = tree.Proof(3)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestTree_DoesNotAliasLeaves(t *testing.T) {
	leaves := testLeaves(2)
	tree, err := NewTree(leaves)
	require.NoError(t, err)
	root := tree.Root()
	leaves[0] = common.Hash{}
	proof, err := tree.Proof(1)
	require.NoError(t, err)
	require.Equal(t, root, tree.Root())
	require.NotEqual(t, common.Hash{}, proof[0])
}

func TestConcatProof_SplitProofRestoresHashes(t *testing.T) {
	require := require.New(t)
	proof := testLeaves(3)
	data := ConcatProof(proof)
	require.Len(data, 96)
	require.Equal(proof[1][:], data[32:64])

	restored, err := SplitProof(data)
	require.NoError(err)
	require.Equal(proof, restored)

	restored, err = SplitProof(nil)
	require.NoError(err)
	require.Empty(restored)

	_, err = SplitProof(data[:95])
	require.ErrorIs(err, ErrInvalidProofLength)
}

func testLeaves(n int) []common.Hash {
	res := make([]common.Hash, n)
	for i := range res {
		res[i] = testDigest(uint64(i))
	}
	return res
}

func testDigest(number uint64) common.Hash {
	return HeaderDigest(number, 1_600_000_000+2*number, crypto.Keccak256Hash([]byte(fmt.Sprintf("tx-%d", number))), crypto.Keccak256Hash([]byte(fmt.Sprintf("receipts-%d", number))))
}
