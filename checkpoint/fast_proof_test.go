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
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFastProof_MatchesProofOfFullTree(t *testing.T) {
	ranges := []struct{ start, end uint64 }{
		{0, 0},
		{0, 1},
		{10, 12},
		{0, 7},
		{100, 104},
		{1, 255},
		{1000, 1099},
		{12345, 12345 + 1023},
		{5000, 5000 + 1024},
	}
	source := &digestSource{}
	oracle := NewLocalRootHashOracle(source)

	for _, r := range ranges {
		t.Run(fmt.Sprintf("range=[%d,%d]", r.start, r.end), func(t *testing.T) {
			t.Parallel()
			leaves := make([]common.Hash, r.end-r.start+1)
			for i := range leaves {
				leaves[i] = testDigest(r.start + uint64(i))
			}
			tree, err := NewTree(leaves)
			require.NoError(t, err)

			size := r.end - r.start + 1
			targets := []uint64{r.start, r.end, r.start + size/2, r.start + size/3}
			for _, target := range targets {
				want, err := tree.Proof(target - r.start)
				require.NoError(t, err)

				got, err := FastProof(context.Background(), oracle, r.start, r.end, target)
				require.NoError(t, err)
				require.Equal(t, want, got, "target %d", target)
				require.True(t, VerifyProof(testDigest(target), target-r.start, got, tree.Root()))

				got, err = BuildProof(context.Background(), source, r.start, r.end, target)
				require.NoError(t, err)
				require.Equal(t, want, got, "target %d", target)
			}
		})
	}
}

func TestFastProof_AllTargetsOfSmallRanges(t *testing.T) {
	oracle := NewLocalRootHashOracle(&digestSource{})
	for size := uint64(1); size <= 20; size++ {
		start := uint64(7)
		end := start + size - 1
		leaves := make([]common.Hash, size)
		for i := range leaves {
			leaves[i] = testDigest(start + uint64(i))
		}
		tree, err := NewTree(leaves)
		require.NoError(t, err)
		for target := start; target <= end; target++ {
			want, err := tree.Proof(target - start)
			require.NoError(t, err)
			got, err := FastProof(context.Background(), oracle, start, end, target)
			require.NoError(t, err)
			require.Equal(t, want, got, "size %d, target %d", size, target)
		}
	}
}

func TestFastProof_QueriesOnlySiblingSubtrees(t *testing.T) {
	ctrl := gomock.NewController(t)
	oracle := NewMockRootHashOracle(ctrl)
	local := NewLocalRootHashOracle(&digestSource{})

	// range [0, 5] has depth 3; for target 1 the siblings are leaf 0,
	// subtree [2, 3] and subtree [4, 5]
	for _, r := range [][2]uint64{{0, 0}, {2, 3}, {4, 5}} {
		root, err := local.GetRootHash(context.Background(), r[0], r[1])
		require.NoError(t, err)
		oracle.EXPECT().GetRootHash(gomock.Any(), r[0], r[1]).Return(root, nil)
	}

	got, err := FastProof(context.Background(), oracle, 0, 5, 1)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestFastProof_EmptySiblingsAreNotQueried(t *testing.T) {
	ctrl := gomock.NewController(t)
	oracle := NewMockRootHashOracle(ctrl)
	oracle.EXPECT().GetRootHash(gomock.Any(), uint64(0), uint64(3)).Return(common.Hash{1}, nil)

	// range [0, 4], target 4: siblings are zero hashes except for [0, 3]
	got, err := FastProof(context.Background(), oracle, 0, 4, 4)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{ZeroHash(0), ZeroHash(1), {1}}, got)
}

func TestFastProof_RangesEndingAtTheLastBlockNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	oracle := NewMockRootHashOracle(ctrl)
	last := ^uint64(0)
	oracle.EXPECT().GetRootHash(gomock.Any(), last-3, last-2).Return(common.Hash{1}, nil)
	oracle.EXPECT().GetRootHash(gomock.Any(), last-1, last-1).Return(common.Hash{2}, nil)

	got, err := FastProof(context.Background(), oracle, last-3, last, last)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{{2}, {1}}, got)
}

func TestFastProof_PropagatesOracleErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	oracle := NewMockRootHashOracle(ctrl)
	injected := fmt.Errorf("injected error")
	oracle.EXPECT().GetRootHash(gomock.Any(), gomock.Any(), gomock.Any()).Return(common.Hash{}, injected).MinTimes(1)

	_, err := FastProof(context.Background(), oracle, 0, 100, 50)
	require.ErrorIs(t, err, injected)
}

func TestFastProof_RejectsInvalidRanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	oracle := NewMockRootHashOracle(ctrl)
	ctxt := context.Background()

	_, err := FastProof(ctxt, oracle, 10, 9, 10)
	require.ErrorIs(t, err, ErrInvalidRange)
	_, err = FastProof(ctxt, oracle, 0, ^uint64(0), 10)
	require.ErrorIs(t, err, ErrInvalidRange)
	_, err = FastProof(ctxt, oracle, ^uint64(0)-2, ^uint64(0), ^uint64(0))
	require.ErrorIs(t, err, ErrInvalidRange)
	_, err = FastProof(ctxt, oracle, ^uint64(0)-4, ^uint64(0), ^uint64(0)-4)
	require.ErrorIs(t, err, ErrInvalidRange)
	_, err = FastProof(ctxt, oracle, 10, 20, 9)
	require.ErrorIs(t, err, ErrTargetOutsideRange)
	_, err = FastProof(ctxt, oracle, 10, 20, 21)
	require.ErrorIs(t, err, ErrTargetOutsideRange)
}

func TestBuildProof_PropagatesSourceErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockHeaderSource(ctrl)
	injected := fmt.Errorf("injected error")
	source.EXPECT().HeaderDigest(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, number uint64) (common.Hash, error) {
			if number == 7 {
				return common.Hash{}, injected
			}
			return testDigest(number), nil
		}).AnyTimes()

	_, err := BuildProof(context.Background(), source, 0, 9, 3)
	require.ErrorIs(t, err, injected)
}

func TestLocalRootHashOracle_MatchesTreeRoot(t *testing.T) {
	require := require.New(t)
	source := &digestSource{}
	oracle := NewLocalRootHashOracle(source)

	root, err := oracle.GetRootHash(context.Background(), 3, 9)
	require.NoError(err)
	leaves := make([]common.Hash, 7)
	for i := range leaves {
		leaves[i] = testDigest(3 + uint64(i))
	}
	tree, err := NewTree(leaves)
	require.NoError(err)
	require.Equal(tree.Root(), root)
	require.EqualValues(7, source.calls.Load())

	_, err = oracle.GetRootHash(context.Background(), 9, 3)
	require.ErrorIs(err, ErrInvalidRange)
}

// digestSource serves the test digests of every block.
type digestSource struct {
	calls atomic.Int64
}

func (s *digestSource) HeaderDigest(ctx context.Context, number uint64) (common.Hash, error) {
	s.calls.Add(1)
	return testDigest(number), nil
}
